package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

func multipartRequest(t *testing.T, path string, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".xlsx")
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte(content))
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthz(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestConventionAnalyzeReturnsView(t *testing.T) {
	svc := newTestServices()
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, multipartRequest(t, "/v1/convention/analyze", map[string]string{"file": "data"}, nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if svc.convention.filename != "file.xlsx" || svc.convention.body != "data" {
		t.Fatalf("unexpected upload %q %q", svc.convention.filename, svc.convention.body)
	}
	var view map[string]any
	if err := json.NewDecoder(res.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := view["warnings"]; !ok {
		t.Fatalf("expected warnings in view, got %v", view)
	}
}

func TestConventionAnalyzeRequiresFile(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, multipartRequest(t, "/v1/convention/analyze", nil, map[string]string{"x": "y"}))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestConventionMissingColumnsAreListed(t *testing.T) {
	svc := newTestServices()
	svc.convention.err = &domain.MissingColumnsError{Columns: []string{"쉐어율"}}
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, multipartRequest(t, "/v1/convention/analyze", map[string]string{"file": "data"}, nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.MissingColumns) != 1 || resp.MissingColumns[0] != "쉐어율" {
		t.Fatalf("unexpected missing columns %v", resp.MissingColumns)
	}
}

func TestConventionReportDownload(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, multipartRequest(t, "/v1/convention/report", map[string]string{"file": "data"}, nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("Content-Type") != domain.XLSXContentType {
		t.Fatalf("unexpected content type %q", res.Header().Get("Content-Type"))
	}
	if cd := res.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if res.Header().Get("X-Report-Warnings") != "1" {
		t.Fatalf("expected warnings header")
	}
}

func TestCoverageReportStartsSessionAndPassesRange(t *testing.T) {
	svc := newTestServices()
	res := httptest.NewRecorder()
	req := multipartRequest(t, "/v1/coverage/report",
		map[string]string{"source": "src", "template": "tpl"},
		map[string]string{"start": "3", "end": "12"})
	svc.handler(t, config.Config{}).ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if res.Header().Get(sessionHeader) != "new-session" || svc.coverage.sessionID != "new-session" {
		t.Fatalf("expected a new session, got %q", res.Header().Get(sessionHeader))
	}
	if !svc.coverage.hasTemplate || svc.coverage.rng == nil || *svc.coverage.rng != (domain.CopyRange{Start: 3, End: 12}) {
		t.Fatalf("unexpected copy call %+v", svc.coverage)
	}
}

func TestCoverageReportKeepsKnownSession(t *testing.T) {
	svc := newTestServices()
	req := multipartRequest(t, "/v1/coverage/report", map[string]string{"source": "src"}, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "s-1"})
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if svc.sessions.started != 0 || svc.coverage.sessionID != "s-1" {
		t.Fatalf("expected existing session reuse, started=%d id=%q", svc.sessions.started, svc.coverage.sessionID)
	}
	if svc.coverage.hasTemplate || svc.coverage.rng != nil {
		t.Fatalf("expected default template without range, got %+v", svc.coverage)
	}
}

func TestCoverageReportRejectsHalfRange(t *testing.T) {
	res := httptest.NewRecorder()
	req := multipartRequest(t, "/v1/coverage/report", map[string]string{"source": "src"}, map[string]string{"start": "3"})
	newTestHandler(t, config.Config{}).ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestRiskAnalyzeValidatesProfile(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPost, "/v1/risk/analyze", `{"age_band":"40대"}`))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing sex, got %d", res.Code)
	}
}

func TestRiskAnalyzeReturnsReport(t *testing.T) {
	svc := newTestServices()
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPost, "/v1/risk/analyze",
		`{"age_band":"40대","sex":"남","smoking":"흡연","conditions":["고혈압"]}`))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if svc.risk.profile.Smoking != "흡연" || len(svc.risk.profile.Conditions) != 1 {
		t.Fatalf("unexpected profile %+v", svc.risk.profile)
	}
}

func TestRiskReportCSVDownload(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPost, "/v1/risk/report.csv", `{"age_band":"40대","sex":"여"}`))
	if res.Code != http.StatusOK || !strings.HasPrefix(res.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected csv response %d %q", res.Code, res.Header().Get("Content-Type"))
	}
}

func TestRemodelTaxonomy(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/remodel/taxonomy", nil))
	var body struct {
		Groups  []map[string]any `json:"groups"`
		Choices []string         `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Groups) == 0 || len(body.Choices) != 3 {
		t.Fatalf("unexpected taxonomy %+v", body)
	}
}

func TestSaveRemodelFormRequiresBefore(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPut, "/v1/remodel/form", `{"after":{}}`))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSaveRemodelForm(t *testing.T) {
	svc := newTestServices()
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPut, "/v1/remodel/form",
		`{"before":{"monthly_premium":"100,000","items":{"암진단비":{"amount":3000}}}}`))

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", res.Code, res.Body.String())
	}
	if !svc.remodel.saved || svc.remodel.before.MonthlyPremium != "100,000" {
		t.Fatalf("unexpected saved form %+v", svc.remodel.before)
	}
}

func TestRemodelCompareSplitsColumns(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/remodel/compare", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Groups []domain.CoverageGroupLines `json:"groups"`
		Left   []domain.CoverageGroupLines `json:"left"`
		Right  []domain.CoverageGroupLines `json:"right"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Groups) != 3 || len(body.Left)+len(body.Right) != 3 || len(body.Left) == 0 {
		t.Fatalf("unexpected columns %+v", body)
	}
}

func TestRemodelCompareWithoutBeforeIs400(t *testing.T) {
	svc := newTestServices()
	svc.remodel.err = domain.WrapError(domain.ErrInvalidInput, "compare", errors.New("before form is required"))
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, jsonRequest(http.MethodPost, "/v1/remodel/compare", `{}`))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestResetUnknownSessionIs404(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/current", nil)
	req.Header.Set(sessionHeader, "gone")
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestStartSessionSetsCookie(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.Code)
	}
	cookies := res.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie || cookies[0].Value != "new-session" {
		t.Fatalf("unexpected cookies %v", cookies)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/convention/analyze", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{domain.WrapError(domain.ErrInvalidInput, "op", errors.New("x")), http.StatusBadRequest},
		{&domain.MissingColumnsError{Columns: []string{"a"}}, http.StatusBadRequest},
		{domain.WrapError(domain.ErrWorkbookOpen, "op", errors.New("x")), http.StatusUnprocessableEntity},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
			t.Fatalf("mapErrorToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestInternalErrorsHideDetail(t *testing.T) {
	svc := newTestServices()
	svc.risk.err = errors.New("disk exploded")
	res := httptest.NewRecorder()
	svc.handler(t, config.Config{}).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/risk/options", nil))
	if res.Code != http.StatusInternalServerError || strings.Contains(res.Body.String(), "disk exploded") {
		t.Fatalf("unexpected response %d %s", res.Code, res.Body.String())
	}
}

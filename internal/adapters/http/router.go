package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
	"github.com/kirillkom/insurance-consult-kit/internal/observability/metrics"
)

const backpressureWait = 250 * time.Millisecond

// Services groups the inbound ports served over HTTP.
type Services struct {
	Convention ports.ConventionService
	Coverage   ports.CoverageCopyService
	Risk       ports.RiskService
	Remodel    ports.RemodelService
	Sessions   ports.SessionService
	Taxonomy   remodel.Taxonomy
}

type Router struct {
	cfg     config.Config
	svc     Services
	metrics *metrics.Metrics
}

// NewRouter accepts a nil metrics to serve without instrumentation.
func NewRouter(cfg config.Config, svc Services, m *metrics.Metrics) *Router {
	return &Router{cfg: cfg, svc: svc, metrics: m}
}

func (rt *Router) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/sessions", rt.startSession)
	mux.HandleFunc("DELETE /v1/sessions/current", rt.resetSession)

	mux.HandleFunc("POST /v1/convention/analyze", rt.analyzeConvention)
	mux.HandleFunc("POST /v1/convention/report", rt.conventionReport)

	mux.HandleFunc("POST /v1/coverage/report", rt.coverageReport)
	mux.HandleFunc("GET /v1/coverage/template", rt.coverageTemplate)

	mux.HandleFunc("GET /v1/risk/options", rt.riskOptions)
	mux.HandleFunc("POST /v1/risk/analyze", rt.analyzeRisk)
	mux.HandleFunc("POST /v1/risk/report.csv", rt.riskReportCSV)

	mux.HandleFunc("GET /v1/remodel/taxonomy", rt.remodelTaxonomy)
	mux.HandleFunc("GET /v1/remodel/form", rt.remodelForm)
	mux.HandleFunc("PUT /v1/remodel/form", rt.saveRemodelForm)
	mux.HandleFunc("POST /v1/remodel/compare", rt.compareRemodel)

	openapiRouter, err := loadOpenAPIRouter()
	if err != nil {
		return nil, err
	}

	var h http.Handler = validationMiddleware(mux, openapiRouter)
	h = backpressureMiddleware(h, rt.cfg.APIMaxInFlight, backpressureWait)
	h = rateLimitMiddleware(h, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		h = rt.metrics.Middleware(h)
	}
	h = accessLogMiddleware(h)
	h = recoverMiddleware(h)
	return requestIDMiddleware(h), nil
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeConvention(w http.ResponseWriter, r *http.Request) {
	file, header, err := rt.formFile(w, r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	view, err := rt.svc.Convention.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) conventionReport(w http.ResponseWriter, r *http.Request) {
	file, header, err := rt.formFile(w, r, "file")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	out, view, err := rt.svc.Convention.Report(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view != nil && len(view.Warnings) > 0 {
		w.Header().Set("X-Report-Warnings", strconv.Itoa(len(view.Warnings)))
	}
	writeFile(w, out)
}

func (rt *Router) coverageReport(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	source, _, err := rt.formFile(w, r, "source")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer source.Close()

	var template io.Reader
	tpl, _, err := r.FormFile("template")
	switch {
	case err == nil:
		defer tpl.Close()
		template = tpl
	case !errors.Is(err, http.ErrMissingFile):
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "read template", err))
		return
	}

	rng, err := copyRangeFromForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := rt.svc.Coverage.Copy(r.Context(), sid, source, template, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, out)
}

func (rt *Router) coverageTemplate(w http.ResponseWriter, r *http.Request) {
	out, err := rt.svc.Coverage.DefaultTemplate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, out)
}

func (rt *Router) riskOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := rt.svc.Risk.Options(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (rt *Router) analyzeRisk(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var profile domain.RiskProfile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := rt.svc.Risk.Analyze(r.Context(), sid, profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (rt *Router) riskReportCSV(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var profile domain.RiskProfile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := rt.svc.Risk.ReportCSV(r.Context(), sid, profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, out)
}

func (rt *Router) remodelTaxonomy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":  rt.svc.Taxonomy.Groups,
		"choices": remodel.Choices,
	})
}

type remodelFormsPayload struct {
	Before *domain.RemodelForm `json:"before"`
	After  *domain.RemodelForm `json:"after"`
}

func (rt *Router) remodelForm(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	before, after, err := rt.svc.Remodel.Form(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, remodelFormsPayload{Before: &before, After: &after})
}

func (rt *Router) saveRemodelForm(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req remodelFormsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Before == nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "save form", errors.New("before form is required")))
		return
	}
	if err := rt.svc.Remodel.SaveForm(r.Context(), sid, *req.Before, req.After); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type compareResponse struct {
	*domain.RemodelResult
	Left  []domain.CoverageGroupLines `json:"left"`
	Right []domain.CoverageGroupLines `json:"right"`
}

func (rt *Router) compareRemodel(w http.ResponseWriter, r *http.Request) {
	sid, err := rt.ensureSession(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req remodelFormsPayload
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	result, err := rt.svc.Remodel.Compare(r.Context(), sid, req.Before, req.After)
	if err != nil {
		writeError(w, r, err)
		return
	}
	left, right := remodel.SplitColumns(result.Groups)
	writeJSON(w, http.StatusOK, compareResponse{RemodelResult: result, Left: left, Right: right})
}

func (rt *Router) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		limit := int64(rt.cfg.UploadMaxMB) << 20
		if limit <= 0 {
			limit = 20 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(limit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, nil, err
			}
			return nil, nil, domain.WrapError(domain.ErrInvalidInput, "parse upload", err)
		}
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "read upload", fmt.Errorf("multipart field %q is required", field))
	}
	return file, header, nil
}

// copyRangeFromForm reads the optional start/end columns. Both must be given
// together.
func copyRangeFromForm(r *http.Request) (*domain.CopyRange, error) {
	start := strings.TrimSpace(r.FormValue("start"))
	end := strings.TrimSpace(r.FormValue("end"))
	if start == "" && end == "" {
		return nil, nil
	}
	s, errS := strconv.Atoi(start)
	e, errE := strconv.Atoi(end)
	if errS != nil || errE != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "copy range", errors.New("start and end must both be integers"))
	}
	return &domain.CopyRange{Start: s, End: e}, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	return nil
}

func writeFile(w http.ResponseWriter, f *domain.GeneratedFile) {
	w.Header().Set("Content-Type", f.ContentType)
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

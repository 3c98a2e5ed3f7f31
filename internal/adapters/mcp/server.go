// Package mcpadapter exposes the consulting calculators as MCP tools.
package mcpadapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/kirillkom/insurance-consult-kit/internal/core/convention"
	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
	"github.com/kirillkom/insurance-consult-kit/internal/core/risk"
)

const (
	ToolClassifyContract = "classify_contract"
	ToolDiseaseRisk      = "disease_risk"
	ToolCompareCoverage  = "compare_coverage"
)

type Server struct {
	risk    ports.RiskService
	remodel ports.RemodelService
	derive  convention.DeriveOptions
}

func New(riskSvc ports.RiskService, remodelSvc ports.RemodelService, derive convention.DeriveOptions) *Server {
	return &Server{risk: riskSvc, remodel: remodelSvc, derive: derive}
}

// MCPServer registers every tool on a new stdio-capable server.
func (s *Server) MCPServer(name, version string) *server.MCPServer {
	srv := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv.AddTool(classifyContractTool(), s.classifyContract)
	srv.AddTool(diseaseRiskTool(), s.diseaseRisk)
	srv.AddTool(compareCoverageTool(), s.compareCoverage)
	return srv
}

func classifyContractTool() mcp.Tool {
	return mcp.NewTool(ToolClassifyContract,
		mcp.WithDescription("Classify one insurance contract: carrier group, convention and summer rates, converted performance and exclusion reasons."),
		mcp.WithString("carrier", mcp.Required(), mcp.Description("Insurance carrier name, e.g. 한화생명")),
		mcp.WithString("payment_term", mcp.Required(), mcp.Description("Payment term in years, e.g. 20 or 20년")),
		mcp.WithString("first_premium", mcp.Required(), mcp.Description("First premium in won, e.g. 100,000")),
		mcp.WithString("share_rate", mcp.Description("Share rate in percent"), mcp.DefaultString("100")),
		mcp.WithString("product", mcp.Description("Product name")),
		mcp.WithString("payment_method", mcp.Description("Payment method, e.g. 월납 or 일시납")),
		mcp.WithString("sub_category", mcp.Description("Product group, e.g. 보장성 or 저축성")),
		mcp.WithString("status", mcp.Description("Contract status, e.g. 정상 or 해약")),
	)
}

func diseaseRiskTool() mcp.Tool {
	return mcp.NewTool(ToolDiseaseRisk,
		mcp.WithDescription("Estimate cancer, cerebrovascular and heart disease risk for a customer profile. Returns the report as CSV."),
		mcp.WithString("age_band", mcp.Required(), mcp.Description("Age band, e.g. 40대")),
		mcp.WithString("sex", mcp.Required(), mcp.Description("남 or 여")),
		mcp.WithString("smoking", mcp.Enum(risk.SmokingChoices...)),
		mcp.WithString("drinking", mcp.Enum(risk.DrinkingChoices...)),
		mcp.WithString("family_history", mcp.Enum(risk.FamilyChoices...)),
		mcp.WithString("job", mcp.Enum(risk.JobChoices...)),
		mcp.WithString("exercise", mcp.Enum(risk.ExerciseChoices...)),
		mcp.WithArray("conditions", mcp.Description("Underlying conditions"), mcp.WithStringItems()),
	)
}

func compareCoverageTool() mcp.Tool {
	return mcp.NewTool(ToolCompareCoverage,
		mcp.WithDescription("Compare coverage before and after a policy remodel and summarize the changes."),
		mcp.WithObject("before", mcp.Required(), mcp.Description("Current coverage form: monthly_premium, payment_years, total_premium and items keyed by coverage name with amount (만원) or choice")),
		mcp.WithObject("after", mcp.Description("Proposed coverage form; defaults to the before form")),
	)
}

type contractArgs struct {
	Carrier       any `json:"carrier"`
	PaymentTerm   any `json:"payment_term"`
	FirstPremium  any `json:"first_premium"`
	ShareRate     any `json:"share_rate"`
	Product       any `json:"product"`
	PaymentMethod any `json:"payment_method"`
	SubCategory   any `json:"sub_category"`
	Status        any `json:"status"`
}

type contractClassification struct {
	CarrierGroup   string   `json:"carrier_group"`
	KnownCarrier   bool     `json:"known_carrier"`
	PaymentTerm    int      `json:"payment_term"`
	ConventionRate int      `json:"convention_rate"`
	SummerRate     int      `json:"summer_rate"`
	Performance    string   `json:"performance"`
	Convention     string   `json:"convention"`
	Summer         string   `json:"summer"`
	Excluded       bool     `json:"excluded"`
	Reasons        []string `json:"reasons,omitempty"`
}

func (s *Server) classifyContract(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args contractArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	carrier := strings.TrimSpace(cast.ToString(args.Carrier))
	if carrier == "" {
		return mcp.NewToolResultError("carrier is required"), nil
	}
	shareRaw := cast.ToString(args.ShareRate)
	if strings.TrimSpace(shareRaw) == "" {
		shareRaw = "100"
	}
	share, _ := convention.ParseShareRate(shareRaw)

	rec := domain.ContractRecord{
		Carrier:       carrier,
		Product:       cast.ToString(args.Product),
		PaymentTerm:   convention.CoerceTerm(cast.ToString(args.PaymentTerm)),
		FirstPremium:  convention.ParseAmount(cast.ToString(args.FirstPremium)),
		ShareRate:     share,
		RawShareRate:  shareRaw,
		PaymentMethod: cast.ToString(args.PaymentMethod),
		SubCategory:   cast.ToString(args.SubCategory),
		Status:        cast.ToString(args.Status),
	}
	cls := convention.Classify(rec)
	amounts := convention.Derive(rec, cls, s.derive)
	reasons := convention.ExclusionReasons(rec)

	out := contractClassification{
		CarrierGroup:   cls.Group.Name,
		KnownCarrier:   cls.Group.Known,
		PaymentTerm:    rec.PaymentTerm,
		ConventionRate: cls.ConventionRate,
		SummerRate:     cls.SummerRate,
		Performance:    report.Currency(amounts.Performance),
		Convention:     report.Currency(amounts.Convention),
		Summer:         report.Currency(amounts.Summer),
		Excluded:       len(reasons) > 0,
		Reasons:        reasons,
	}
	text := fmt.Sprintf("%s %s: 환산율 %s, 환산 성적 %s",
		out.CarrierGroup, report.Term(out.PaymentTerm), report.Percent(out.ConventionRate), out.Convention)
	if out.Excluded {
		text += " (제외: " + convention.ReasonText(reasons) + ")"
	}
	return mcp.NewToolResultStructured(out, text), nil
}

func (s *Server) diseaseRisk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var profile domain.RiskProfile
	if err := req.BindArguments(&profile); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	rep, err := s.risk.Analyze(ctx, "", profile)
	if err != nil {
		return toolError(err)
	}
	var buf bytes.Buffer
	if err := risk.WriteCSV(&buf, *rep); err != nil {
		return nil, fmt.Errorf("write risk csv: %w", err)
	}
	text := strings.TrimPrefix(buf.String(), "\uFEFF")
	if len(rep.Warnings) > 0 {
		text += "\n" + strings.Join(rep.Warnings, "\n")
	}
	return mcp.NewToolResultText(text), nil
}

type compareArgs struct {
	Before *domain.RemodelForm `json:"before"`
	After  *domain.RemodelForm `json:"after"`
}

func (s *Server) compareCoverage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args compareArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	res, err := s.remodel.Compare(ctx, "", args.Before, args.After)
	if err != nil {
		return toolError(err)
	}

	var lines []string
	for _, sentence := range res.Summary {
		lines = append(lines, sentence.Text)
	}
	for _, g := range res.Groups {
		lines = append(lines, "["+g.Group+"]")
		lines = append(lines, g.Lines...)
	}
	for _, sentence := range res.Effects {
		lines = append(lines, sentence.Text)
	}
	return mcp.NewToolResultStructured(res, strings.Join(lines, "\n")), nil
}

// toolError reports caller mistakes as tool results and everything else as
// a protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	if domain.IsKind(err, domain.ErrInvalidInput) || domain.IsKind(err, domain.ErrMissingColumns) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

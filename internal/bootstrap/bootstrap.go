package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
	"github.com/kirillkom/insurance-consult-kit/internal/core/remodel"
	"github.com/kirillkom/insurance-consult-kit/internal/core/usecase"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/narrative"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/repository/memory"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/resilience"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/riskdata"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/spreadsheet/excel"
	"github.com/kirillkom/insurance-consult-kit/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/insurance-consult-kit/internal/observability/metrics"
)

const serviceName = "insurance-consult-kit"

type App struct {
	Config  config.Config
	Metrics *metrics.Metrics

	Outputs  ports.ObjectStorage
	Taxonomy remodel.Taxonomy

	ConventionUC ports.ConventionService
	CoverageUC   ports.CoverageCopyService
	RiskUC       ports.RiskService
	RemodelUC    ports.RemodelService
	SessionUC    ports.SessionService
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	templateStore, err := localfs.New(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("init template storage: %w", err)
	}
	riskStore, err := localfs.New(cfg.RiskDataDir)
	if err != nil {
		return nil, fmt.Errorf("init risk data storage: %w", err)
	}
	outputs, err := localfs.New(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("init output storage: %w", err)
	}

	policy := resilience.DefaultConfig()
	if cfg.StorageRetryAttempts > 0 {
		policy.RetryMaxAttempts = cfg.StorageRetryAttempts
	}
	policy.BreakerEnabled = cfg.StorageBreakerEnabled
	exec := resilience.NewExecutor(policy, logger)

	renderer, err := narrative.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init narrative renderer: %w", err)
	}

	m := metrics.New(serviceName)
	sessions := memory.NewSessionRepository(time.Duration(cfg.SessionTTLMinutes)*time.Minute, time.Now)
	templates := localfs.NewTemplateSource(resilience.GuardStorage(templateStore, exec, "templates"), excel.GeneratePrintTemplate)
	riskTables := riskdata.NewLoader(resilience.GuardStorage(riskStore, exec, "risk_data"))
	taxonomy := remodel.DefaultTaxonomy()

	return &App{
		Config:   cfg,
		Metrics:  m,
		Outputs:  outputs,
		Taxonomy: taxonomy,

		ConventionUC: usecase.NewConventionUseCase(
			excel.NewContractReader(),
			excel.NewConventionWriter(),
			m,
			usecase.ConventionOptions{
				ShowSummer:         cfg.ConventionShowSummer,
				ShareRateWeighting: cfg.ConventionShareRateWeighting,
			},
		),
		CoverageUC: usecase.NewCoverageCopyUseCase(excel.NewCoverageCopier(), templates, sessions, m, time.Now),
		RiskUC:     usecase.NewRiskUseCase(riskTables, sessions, m),
		RemodelUC:  usecase.NewRemodelUseCase(taxonomy, renderer, sessions, m),
		SessionUC:  usecase.NewSessionUseCase(sessions, time.Now),
	}, nil
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/privdiag/internal/cache"
	"github.com/ppiankov/privdiag/internal/facts"
	"github.com/ppiankov/privdiag/internal/llm"
	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/nfc"
	"github.com/ppiankov/privdiag/internal/report"
	"github.com/ppiankov/privdiag/internal/score"
	"github.com/ppiankov/privdiag/internal/validate"
	"github.com/ppiankov/privdiag/internal/worker"
)

// Pipeline orchestrates device scans and tag reports
type Pipeline struct {
	scorer   *score.Scorer
	builder  *nfc.Builder
	renderer *report.Renderer
	store    *cache.Store    // nil when caching is disabled
	advisor  *llm.Advisor    // nil when LLM is disabled
	limiter  *worker.Limiter // Paces adb commands per device
	runner   facts.CommandRunner
	config   *model.Config
	log      *logger.Logger
}

// Options overrides pipeline collaborators (tests, embedding)
type Options struct {
	Store   *cache.Store
	Advisor *llm.Advisor
	Runner  facts.CommandRunner
	Logger  *logger.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logger.Global()
	}
	log = log.WithComponent("pipeline")

	store := opts.Store
	if store == nil && cfg.Cache.Enabled {
		store = cache.NewStore(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
	}

	advisor := opts.Advisor
	if advisor == nil && cfg.LLM.Provider != "" {
		a, err := llm.NewAdvisor(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LLM provider")
		} else {
			advisor = a
		}
	}

	return &Pipeline{
		scorer:   score.NewScorer(),
		builder:  nfc.NewBuilder(),
		renderer: report.NewRenderer(),
		store:    store,
		advisor:  advisor,
		limiter:  worker.NewLimiter(cfg.ADB.RateLimit, cfg.ADB.Burst),
		runner:   opts.Runner,
		config:   cfg,
		log:      log,
	}
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *report.Renderer {
	return p.renderer
}

// Store returns the report store, or nil when caching is disabled
func (p *Pipeline) Store() *cache.Store {
	return p.store
}

// ScanSource resolves source to a provider and scans it.
// Plain "adb" uses the configured default serial.
func (p *Pipeline) ScanSource(ctx context.Context, source string) (*model.DeviceReport, error) {
	source = strings.TrimSpace(source)
	if source == "adb" && p.config.ADB.Serial != "" {
		source = "adb:" + p.config.ADB.Serial
	}

	provider, err := facts.ParseSource(source, facts.Options{
		ADBPath: p.config.ADB.Path,
		Timeout: p.config.ADB.Timeout,
		Pacer:   p.limiter,
		Runner:  p.runner,
		Logger:  p.log,
	})
	if err != nil {
		return nil, err
	}

	return p.ScanDevice(ctx, provider)
}

// ScanDevice collects facts from provider, scores them and stores the report
func (p *Pipeline) ScanDevice(ctx context.Context, provider facts.Provider) (*model.DeviceReport, error) {
	log := p.log.WithSource(provider.Name())

	// 1. Collect facts
	factSet, err := provider.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect facts: %w", err)
	}
	log.Debug().Int("facts", factSet.Len()).Msg("facts collected")

	// 2. Score and classify
	result := p.scorer.Calculate(factSet)
	dr := model.NewDeviceReport(provider.Name(), factSet, result)
	dr.Emulator = score.DetectEmulator(factSet)

	if pr, ok := provider.(facts.PermissionReporter); ok {
		dr.Missing = pr.MissingPermissions()
	}

	// 3. Advice (after scoring, never affects the score)
	if p.advisor != nil && p.advisor.IsEnabled() {
		advice, err := p.advisor.Advise(ctx, dr)
		if err != nil {
			log.Warn().Err(err).Msg("LLM advice generation failed")
		} else if advice != nil {
			dr.Advice = advice
		}
	}

	log.Info().
		Int("score", result.Score).
		Str("risk", string(result.RiskLevel)).
		Str("emulator", dr.Emulator).
		Msg("device scanned")

	// 4. Store as the last report
	if p.store != nil {
		if err := p.store.SaveDevice(dr); err != nil {
			log.Warn().Err(err).Msg("failed to store report")
		}
	}

	return dr, nil
}

// ValidationError carries the blocking issues of a rejected tag descriptor
type ValidationError struct {
	Issues []validate.Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return "invalid tag descriptor: " + strings.Join(msgs, "; ")
}

// ScanTag validates tag, builds its report and stores it.
// Warnings are logged; errors reject the descriptor.
func (p *Pipeline) ScanTag(tag model.TagDescriptor) (*nfc.TagReport, error) {
	issues := validate.ValidateTag(tag)
	if validate.HasErrors(issues) {
		return nil, &ValidationError{Issues: validate.Errors(issues)}
	}
	for _, issue := range issues {
		p.log.Warn().Str("field", issue.Field).Msg(issue.Message)
	}

	tr := p.builder.Build(tag)

	failed := 0
	for _, sec := range tr.Sections {
		if sec.Error != "" {
			failed++
		}
	}
	p.log.Info().
		Str("tag", tr.TagIDHex).
		Int("sections", len(tr.Sections)).
		Int("failed", failed).
		Msg("tag analyzed")

	if p.store != nil {
		if err := p.store.SaveTag(tr); err != nil {
			p.log.Warn().Err(err).Msg("failed to store tag report")
		}
	}

	return tr, nil
}

// RenderReport writes the device report as text or JSON to w, and
// additionally to jsonPath when set
func (p *Pipeline) RenderReport(w io.Writer, dr *model.DeviceReport, format, jsonPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(dr, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.log.Debug().Str("path", jsonPath).Msg("wrote JSON")
	}

	switch format {
	case "json":
		return p.renderer.WriteJSON(w, dr)
	case "summary":
		p.renderer.RenderSummary(w, dr)
		return nil
	default:
		_, err := io.WriteString(w, p.renderer.RenderText(dr))
		return err
	}
}

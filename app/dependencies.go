// Package app wires the application dependencies. It is the single place
// where concrete implementations are chosen and connected.
package app

import (
	"fmt"

	"github.com/upb/classification-gateway/config"
	"github.com/upb/classification-gateway/internal/guardrail"
	"github.com/upb/classification-gateway/internal/tracing"
	"github.com/upb/classification-gateway/services/classifier"
	"github.com/upb/classification-gateway/services/conversion"
	"github.com/upb/classification-gateway/services/gate"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	Recorder   tracing.Recorder
	Evaluator  *guardrail.Evaluator
	Classifier classifier.Classifier
	Gate       *gate.Service
	Conversion *conversion.Service

	asyncRecorder *tracing.AsyncRecorder
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initRecorder(cfg)

	if err := deps.initGuardrail(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize guardrail: %w", err)
	}

	deps.Classifier = classifier.NewService(cfg.Classifier, logger)

	deps.Gate = gate.NewService(deps.Evaluator, deps.Recorder, deps.Classifier, gate.Config{
		Policy: guardrail.Policy{
			guardrail.InjectionScannerName: cfg.Guardrail.InjectionThreshold,
		},
		FailOpen: cfg.Guardrail.FailOpen,
	}, logger)

	deps.Conversion = conversion.NewService(deps.Recorder, logger)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initRecorder picks the trace recorder. With monitoring credentials the
// remote backend is used behind the async dispatcher; without them scores
// stay in process, which is enough for local development.
func (d *Dependencies) initRecorder(cfg *config.Config) {
	if !cfg.Monitoring.Enabled() {
		d.Logger.Warn("monitoring backend not configured, using in-memory recorder")
		d.Recorder = tracing.NewMemoryRecorder()
		return
	}

	httpRecorder := tracing.NewHTTPRecorder(tracing.HTTPConfig{
		BaseURL:    cfg.Monitoring.BaseURL,
		PublicKey:  cfg.Monitoring.PublicKey,
		SecretKey:  cfg.Monitoring.SecretKey,
		Timeout:    cfg.Monitoring.Timeout,
		MaxRetries: cfg.Monitoring.MaxRetries,
	})
	d.asyncRecorder = tracing.NewAsyncRecorder(httpRecorder, d.Logger, tracing.AsyncConfig{
		BufferSize: cfg.Monitoring.BufferSize,
		Workers:    cfg.Monitoring.Workers,
	})
	d.Recorder = d.asyncRecorder

	d.Logger.Info("monitoring backend configured",
		zap.String("base_url", cfg.Monitoring.BaseURL))
}

// initGuardrail builds the scanner set. The injection scanner is always on;
// the regex scanner joins when patterns are configured.
func (d *Dependencies) initGuardrail(cfg *config.Config) error {
	scanners := []guardrail.Scanner{guardrail.NewInjectionScanner()}

	if len(cfg.Guardrail.BlockedPatterns) > 0 {
		mode := guardrail.MatchSubstring
		if cfg.Guardrail.RegexFullMatch {
			mode = guardrail.MatchFull
		}
		regexScanner, err := guardrail.NewRegexScanner(
			cfg.Guardrail.BlockedPatterns,
			guardrail.PolarityBlocked,
			mode,
			cfg.Guardrail.RegexRedact,
		)
		if err != nil {
			return err
		}
		scanners = append(scanners, regexScanner)
		d.Logger.Info("regex scanner enabled",
			zap.Int("patterns", len(cfg.Guardrail.BlockedPatterns)))
	}

	d.Evaluator = guardrail.NewEvaluator(scanners...)
	return nil
}

// Close flushes pending monitoring events.
func (d *Dependencies) Close() {
	if d.asyncRecorder != nil {
		d.asyncRecorder.Stop()
	}
}

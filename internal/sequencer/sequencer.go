package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TrenchScan/internal/domain/models"
	"TrenchScan/internal/domain/repository"
	"TrenchScan/internal/render"
	applogger "TrenchScan/pkg/logger"
)

// Config holds the reveal cadence. Both delays are injected; there are no
// package-level timing globals.
type Config struct {
	StepDelay    time.Duration
	VerdictDelay time.Duration
}

// Sequencer drives one timed reveal sequence against a single editable
// message: reveal index 0 up front, one catalog step per tick, then the
// predictions phase, then the verdict phase. An instance is stateless across
// runs; every Run/Resume call owns its own RevealState.
type Sequencer struct {
	transport repository.Transport
	composer  *render.Composer
	metrics   repository.Metrics
	logger    *applogger.Logger
	cfg       Config
}

// New creates a Sequencer.
func New(transport repository.Transport, composer *render.Composer, metrics repository.Metrics, logger *applogger.Logger, cfg Config) *Sequencer {
	return &Sequencer{
		transport: transport,
		composer:  composer,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run creates the message at reveal index 0 and drives the sequence to
// completion.
func (s *Sequencer) Run(ctx context.Context, chatID int64, tokenAddress string, payload *models.AnalysisPayload) error {
	reveal := render.RevealState{}
	ref, err := s.transport.Send(ctx, chatID, s.composer.Compose(tokenAddress, payload, reveal))
	if err != nil {
		return fmt.Errorf("send initial message: %w", err)
	}
	return s.drive(ctx, ref, tokenAddress, payload, reveal)
}

// Resume drives the sequence against an already-created message (the
// placeholder sent before the upstream fetch), starting with a reveal-0
// edit. A rejected no-op edit at that point is expected and swallowed.
func (s *Sequencer) Resume(ctx context.Context, ref repository.MessageRef, tokenAddress string, payload *models.AnalysisPayload) error {
	reveal := render.RevealState{}
	if err := s.edit(ctx, ref, tokenAddress, payload, reveal); err != nil {
		return err
	}
	return s.drive(ctx, ref, tokenAddress, payload, reveal)
}

func (s *Sequencer) drive(ctx context.Context, ref repository.MessageRef, tokenAddress string, payload *models.AnalysisPayload, reveal render.RevealState) error {
	start := time.Now()
	catalog := s.composer.Catalog()
	analysis := payload.Analysis

	for i := 1; i <= len(catalog); i++ {
		if err := s.wait(ctx, s.cfg.StepDelay); err != nil {
			return err
		}
		reveal.Step = i
		if analysis.Step(catalog[i-1].Key) == nil {
			// Result not available for this step; the cursor still advances.
			continue
		}
		if err := s.edit(ctx, ref, tokenAddress, payload, reveal); err != nil {
			return err
		}
		s.logger.Debug("step revealed",
			applogger.String("step", catalog[i-1].Key),
			applogger.Int("index", i),
		)
	}

	if analysis != nil && analysis.Predictions != nil {
		if err := s.wait(ctx, s.cfg.StepDelay); err != nil {
			return err
		}
		reveal.ShowPredictions = true
		if err := s.edit(ctx, ref, tokenAddress, payload, reveal); err != nil {
			return err
		}
	}

	if analysis.HasVerdict() {
		if err := s.wait(ctx, s.cfg.VerdictDelay); err != nil {
			return err
		}
		reveal.ShowVerdict = true
		if err := s.edit(ctx, ref, tokenAddress, payload, reveal); err != nil {
			return err
		}
	}

	s.metrics.RecordSequenceDuration(time.Since(start).Seconds())
	return nil
}

// edit recomposes and pushes one edit. A rejected-as-unchanged edit is a
// successful no-op; any other failure escalates and ends the sequence.
func (s *Sequencer) edit(ctx context.Context, ref repository.MessageRef, tokenAddress string, payload *models.AnalysisPayload, reveal render.RevealState) error {
	err := s.transport.Edit(ctx, ref, s.composer.Compose(tokenAddress, payload, reveal))
	switch {
	case err == nil:
		s.metrics.RecordEdit("ok")
		return nil
	case errors.Is(err, repository.ErrNotModified):
		s.metrics.RecordEdit("noop")
		return nil
	default:
		s.metrics.RecordEdit("error")
		return fmt.Errorf("edit at step %d: %w", reveal.Step, err)
	}
}

func (s *Sequencer) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

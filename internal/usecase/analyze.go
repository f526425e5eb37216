// Package usecase ties the chat transport, the analysis client, and the
// reveal sequencer together into the bot's message flow.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"TrenchScan/internal/domain/models"
	"TrenchScan/internal/domain/repository"
	"TrenchScan/internal/sequencer"
	"TrenchScan/internal/service/ratelimit"
	"TrenchScan/internal/service/scanner"
	"TrenchScan/pkg/cache"
	applogger "TrenchScan/pkg/logger"
)

// Base58 alphabet, 32-44 characters. No 0, O, I or l.
var addressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

const welcomeMessage = `🤖 *Trench Scanner Bot*

🔍 *AI-Powered Solana Token Analysis*

I analyze Solana tokens and provide comprehensive risk assessments with market cap predictions.

*How to use:*
1. Send me a Solana token contract address
2. I'll analyze it step-by-step
3. Get detailed insights and predictions

*Example:*
` + "`6V8q5kQkzokNwSxJv8W81zcKRUWsUW4c5Bf8suqipump`" + `

*Features:*
• Real-time on-chain data analysis
• AI-driven market cap predictions
• Risk assessment (bundles, holders, dev activity)
• Progressive step-by-step results

Send a token address to get started! 🚀`

const invalidAddressMessage = "❌ Invalid Solana address format!\n\n" +
	"Please send a valid Solana token address (32-44 characters, base58).\n\n" +
	"Example: `6V8q5kQkzokNwSxJv8W81zcKRUWsUW4c5Bf8suqipump`"

const rateLimitedMessage = "⏳ Too many requests. Please wait a moment and try again."

const timeoutMessage = "⏱️ Request Timeout\n\n" +
	"The analysis is taking longer than expected. Please try again."

const networkErrorFormat = "❌ Network Error\n\n" +
	"Failed to connect to analysis service.\n" +
	"Error: %v\n\n" +
	"Please try again later."

const unexpectedErrorFormat = "❌ Unexpected Error\n\n" +
	"Error: %v\n\n" +
	"Please try again."

// Config carries the flow's tunables.
type Config struct {
	CacheTTL     time.Duration
	RateCapacity float64
	RateRefill   float64
}

// Bot handles incoming chat messages: /start gets the welcome text, a valid
// token address kicks off a scan, everything else is rejected or ignored.
type Bot struct {
	transport repository.Transport
	analyzer  repository.Analyzer
	seq       *sequencer.Sequencer
	cache     cache.Service // nil when caching is disabled
	publisher repository.Publisher
	limiter   *ratelimit.Limiter
	metrics   repository.Metrics
	logger    *applogger.Logger
	cfg       Config
}

// NewBot creates the message flow. cache and publisher may be nil.
func NewBot(
	transport repository.Transport,
	analyzer repository.Analyzer,
	seq *sequencer.Sequencer,
	cacheSvc cache.Service,
	publisher repository.Publisher,
	limiter *ratelimit.Limiter,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg Config,
) *Bot {
	return &Bot{
		transport: transport,
		analyzer:  analyzer,
		seq:       seq,
		cache:     cacheSvc,
		publisher: publisher,
		limiter:   limiter,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// HandleMessage routes one incoming text message. It satisfies the poller's
// UpdateHandler interface.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		if text == "/start" || strings.HasPrefix(text, "/start ") {
			b.send(ctx, chatID, welcomeMessage)
		}
		// Other commands are ignored, matching the single-command surface.
		return
	}

	if !addressPattern.MatchString(text) {
		b.metrics.RecordScan(models.ScanInvalidAddress)
		b.send(ctx, chatID, invalidAddressMessage)
		return
	}

	if !b.limiter.Allow(fmt.Sprintf("chat:%d", chatID), b.cfg.RateCapacity, b.cfg.RateRefill) {
		b.metrics.RecordScan(models.ScanRateLimited)
		b.logger.Warn("scan rate limited", applogger.Int64("chat_id", chatID))
		b.send(ctx, chatID, rateLimitedMessage)
		return
	}

	b.scan(ctx, chatID, text)
}

// scan runs one full analysis flow: placeholder message, payload fetch
// (cache first), then the timed reveal sequence against the placeholder.
func (b *Bot) scan(ctx context.Context, chatID int64, tokenAddress string) {
	start := time.Now()

	placeholder := fmt.Sprintf("🔍 Analyzing Token...\n`%s`\n\n⏳ Connecting to Solana...", tokenAddress)
	ref, err := b.transport.Send(ctx, chatID, placeholder)
	if err != nil {
		b.metrics.RecordScan(models.ScanTransportError)
		b.metrics.RecordError("transport")
		b.logger.Error("send placeholder failed",
			applogger.Error(err),
			applogger.Int64("chat_id", chatID))
		b.publish(ctx, tokenAddress, chatID, models.ScanTransportError, nil, start)
		return
	}

	payload, cached := b.fromCache(ctx, tokenAddress)
	if !cached {
		payload, err = b.analyzer.Analyze(ctx, tokenAddress)
		if err != nil {
			outcome := b.reportFetchError(ctx, ref, err)
			b.metrics.RecordScan(outcome)
			b.publish(ctx, tokenAddress, chatID, outcome, nil, start)
			return
		}
		b.toCache(ctx, tokenAddress, payload)
	}
	b.metrics.RecordLatency("fetch_payload", time.Since(start).Seconds())

	if err := b.seq.Resume(ctx, ref, tokenAddress, payload); err != nil {
		b.metrics.RecordScan(models.ScanTransportError)
		b.metrics.RecordError("transport")
		b.logger.Error("reveal sequence failed",
			applogger.Error(err),
			applogger.String("token", tokenAddress),
			applogger.Int64("chat_id", chatID))
		b.edit(ctx, ref, fmt.Sprintf(unexpectedErrorFormat, err))
		b.publish(ctx, tokenAddress, chatID, models.ScanTransportError, payload, start)
		return
	}

	b.metrics.RecordScan(models.ScanCompleted)
	b.logger.Info("scan completed",
		applogger.String("token", tokenAddress),
		applogger.Int64("chat_id", chatID),
		applogger.Bool("cached", cached),
		applogger.Duration("duration", time.Since(start)))
	b.publish(ctx, tokenAddress, chatID, models.ScanCompleted, payload, start)
}

// reportFetchError edits the placeholder with a user-facing error and maps
// the failure to a scan outcome.
func (b *Bot) reportFetchError(ctx context.Context, ref repository.MessageRef, err error) string {
	var apiErr *scanner.APIError

	switch {
	case errors.Is(err, scanner.ErrTimeout):
		b.edit(ctx, ref, timeoutMessage)
		return models.ScanTimeout
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = "Analysis failed"
		}
		b.edit(ctx, ref, fmt.Sprintf("❌ Analysis Failed\n\nError: %s\n\nPlease try again later.", msg))
		return models.ScanUpstreamError
	default:
		b.edit(ctx, ref, fmt.Sprintf(networkErrorFormat, err))
		return models.ScanUpstreamError
	}
}

func (b *Bot) fromCache(ctx context.Context, tokenAddress string) (*models.AnalysisPayload, bool) {
	if b.cache == nil {
		return nil, false
	}
	var payload models.AnalysisPayload
	err := b.cache.Get(ctx, cacheKey(tokenAddress), &payload)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			b.logger.Warn("cache get failed", applogger.Error(err))
		}
		return nil, false
	}
	return &payload, true
}

func (b *Bot) toCache(ctx context.Context, tokenAddress string, payload *models.AnalysisPayload) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, cacheKey(tokenAddress), payload, b.cfg.CacheTTL); err != nil {
		b.logger.Warn("cache set failed", applogger.Error(err))
	}
}

func cacheKey(tokenAddress string) string {
	return "scan:" + tokenAddress
}

// publish emits the scan lifecycle event. Publishing is best-effort; a
// failure is logged and never affects the chat flow.
func (b *Bot) publish(ctx context.Context, tokenAddress string, chatID int64, outcome string, payload *models.AnalysisPayload, start time.Time) {
	if b.publisher == nil {
		return
	}

	event := &models.ScanEvent{
		TokenAddress: tokenAddress,
		ChatID:       chatID,
		Outcome:      outcome,
		Duration:     time.Since(start).Seconds(),
		Timestamp:    time.Now().UTC(),
	}
	if payload != nil && payload.Analysis != nil {
		event.RiskLevel = payload.Analysis.RiskLevel
		event.Probability = payload.Analysis.OverallProbability
	}

	if err := b.publisher.PublishScan(ctx, event); err != nil {
		b.logger.Error("publish scan event failed",
			applogger.Error(err),
			applogger.String("token", tokenAddress))
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	if _, err := b.transport.Send(ctx, chatID, text); err != nil {
		b.metrics.RecordError("transport")
		b.logger.Error("send failed", applogger.Error(err), applogger.Int64("chat_id", chatID))
	}
}

func (b *Bot) edit(ctx context.Context, ref repository.MessageRef, text string) {
	if err := b.transport.Edit(ctx, ref, text); err != nil && !errors.Is(err, repository.ErrNotModified) {
		b.metrics.RecordError("transport")
		b.logger.Error("edit failed", applogger.Error(err), applogger.Int64("chat_id", ref.ChatID))
	}
}

package telegram

import (
	"context"
	"errors"
	"time"

	applogger "TrenchScan/pkg/logger"
)

const (
	pollerErrThreshold = 5
	pollerErrPause     = 30 * time.Second
)

// UpdateHandler receives every text message the poller pulls from the Bot
// API. Handlers run on their own goroutine so a slow analysis never stalls
// polling.
type UpdateHandler interface {
	HandleMessage(ctx context.Context, chatID int64, text string)
}

// Poller drives the getUpdates long-poll loop and dispatches text messages
// to an UpdateHandler.
type Poller struct {
	client  *Client
	handler UpdateHandler
	logger  *applogger.Logger
	timeout int // long-poll timeout in seconds
	offset  int
}

// NewPoller creates a Poller. pollTimeout is the getUpdates long-poll window;
// the client's HTTP timeout must be longer.
func NewPoller(client *Client, handler UpdateHandler, pollTimeout time.Duration, logger *applogger.Logger) *Poller {
	return &Poller{
		client:  client,
		handler: handler,
		logger:  logger,
		timeout: int(pollTimeout / time.Second),
	}
}

// Run polls for updates until ctx is canceled. After several consecutive
// failures it backs off so a dead network or revoked token does not spin
// the loop.
func (p *Poller) Run(ctx context.Context) error {
	me, err := p.client.GetMe(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("telegram poller started",
		applogger.String("bot", me.Username),
		applogger.Int("poll_timeout_sec", p.timeout))

	consecutiveErrs := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, GetUpdatesRequest{
			Offset:         p.offset,
			Timeout:        p.timeout,
			AllowedUpdates: []string{"message"},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}

			consecutiveErrs++
			p.logger.Error("get updates failed",
				applogger.Error(err),
				applogger.Int("consecutive_errors", consecutiveErrs))

			if consecutiveErrs >= pollerErrThreshold {
				p.logger.Warn("too many consecutive polling errors, pausing",
					applogger.Duration("pause", pollerErrPause))
				if !sleepCtx(ctx, pollerErrPause) {
					return ctx.Err()
				}
				consecutiveErrs = 0
				continue
			}

			if !sleepCtx(ctx, time.Second) {
				return ctx.Err()
			}
			continue
		}
		consecutiveErrs = 0

		for _, update := range updates {
			if update.UpdateID >= p.offset {
				p.offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("message handler panicked",
					applogger.Any("panic", r),
					applogger.Int64("chat_id", chatID))
			}
		}()
		p.handler.HandleMessage(ctx, chatID, text)
	}()
}

// sleepCtx sleeps for d unless ctx is canceled first. It returns false when
// the context ended the wait.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

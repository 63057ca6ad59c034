package actions

import (
	"context"
	"time"

	"github.com/ppiankov/debateshield/internal/model"
	"go.uber.org/zap"
)

// Channel is one outbound notification target consuming a finished verdict
type Channel interface {
	// Name identifies the channel in the actions_taken map
	Name() string

	// Deliver sends the verdict and reports the per-channel outcome
	Deliver(ctx context.Context, record *model.VerdictRecord) model.ActionResult
}

// Engine fans a finished verdict out to the configured channels. Channel
// failures are recorded and logged but never block returning the verdict to
// the caller.
type Engine struct {
	channels []Channel
	timeout  time.Duration
	logger   *zap.Logger
}

// NewEngine creates an action engine over the given channels.
func NewEngine(channels []Channel, timeout time.Duration, logger *zap.Logger) *Engine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		channels: channels,
		timeout:  timeout,
		logger:   logger,
	}
}

// Execute delivers the record to every channel and collects the results.
func (e *Engine) Execute(ctx context.Context, record *model.VerdictRecord) map[string]model.ActionResult {
	results := make(map[string]model.ActionResult, len(e.channels))

	for _, channel := range e.channels {
		channelCtx, cancel := context.WithTimeout(ctx, e.timeout)
		result := e.deliver(channelCtx, channel, record)
		cancel()

		if !result.Sent && result.Reason != "" {
			e.logger.Debug("action channel did not deliver",
				zap.String("channel", channel.Name()),
				zap.String("reason", result.Reason))
		}
		results[channel.Name()] = result
	}
	return results
}

// deliver isolates a single channel call so one misbehaving channel cannot
// take down the request.
func (e *Engine) deliver(ctx context.Context, channel Channel, record *model.VerdictRecord) (result model.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("action channel panicked",
				zap.String("channel", channel.Name()),
				zap.Any("panic", r))
			result = model.ActionResult{Sent: false, Reason: "channel panicked"}
		}
	}()
	return channel.Deliver(ctx, record)
}

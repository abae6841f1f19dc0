// Package assistant answers user messages either through the live
// text-generation endpoint or, in demo mode, through the canned fallback
// responder.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kalambet/helene/internal/composer"
	"github.com/kalambet/helene/internal/config"
	"github.com/kalambet/helene/internal/fallback"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/proxy"
)

// Mode selects how a request is answered.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// GenerationConfig is sent with every live call.
var GenerationConfig = proxy.GenerationConfig{
	Temperature:     0.6,
	TopK:            40,
	TopP:            0.9,
	MaxOutputTokens: 384,
}

// Settings are the inputs that decide the mode of a single call.
type Settings struct {
	APIKey    string
	Model     string
	DemoMode  string // raw flag, see config.ParseFlag
	DemoDelay time.Duration
}

// ResolveMode returns ModeDemo when demo is forced or no key is configured.
func ResolveMode(s Settings) Mode {
	if config.ParseFlag(s.DemoMode) || strings.TrimSpace(s.APIKey) == "" {
		return ModeDemo
	}
	return ModeLive
}

// Generator performs one text-generation call.
type Generator interface {
	GenerateContent(ctx context.Context, model, prompt string, cfg proxy.GenerationConfig) (string, error)
}

// Request is one user message with its context.
type Request struct {
	Message string
	Context health.UserContext
	History []health.Turn
}

// Response carries the reply text and how it was produced.
type Response struct {
	Text  string
	Mode  Mode
	Model string
}

// Assistant is safe for concurrent use.
type Assistant struct {
	settings func() Settings
	gen      Generator
	fallback *fallback.Responder
	logger   *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithFallback replaces the demo-mode responder.
func WithFallback(r *fallback.Responder) Option {
	return func(a *Assistant) { a.fallback = r }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// New creates an Assistant. settings is consulted on every call, so a flag
// or key change takes effect on the next request. gen may be nil when the
// assistant only ever runs in demo mode.
func New(gen Generator, settings func() Settings, opts ...Option) *Assistant {
	a := &Assistant{
		settings: settings,
		gen:      gen,
		fallback: fallback.New(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Mode reports the mode the next call would use.
func (a *Assistant) Mode() Mode {
	return ResolveMode(a.settings())
}

// Reply answers req. In demo mode it never fails. In live mode it makes
// exactly one generation call and any failure is returned as *Error.
func (a *Assistant) Reply(ctx context.Context, req Request) (Response, error) {
	s := a.settings()
	mode := ResolveMode(s)
	if a.gen == nil {
		mode = ModeDemo
	}

	if mode == ModeDemo {
		reply, rule := a.fallback.Match(req.Message, req.Context)
		a.logger.Debug("answering in demo mode", "rule", rule)
		pause(ctx, s.DemoDelay)
		return Response{Text: reply, Mode: ModeDemo}, nil
	}

	prompt := composer.Assemble(composer.SystemPrompt, composer.BuildContext(req.Context), req.History, req.Message)
	a.logger.Debug("calling generation endpoint", "model", s.Model, "prompt_tokens", composer.EstimateTokens(prompt))

	start := time.Now()
	text, err := a.gen.GenerateContent(ctx, s.Model, prompt, GenerationConfig)
	if err != nil {
		ae := newError(err, req.Context.Locale())
		a.logger.Error("generation failed",
			"kind", ae.Kind,
			"provider_status", ae.ProviderStatus,
			"elapsed", time.Since(start),
			"error", err,
		)
		return Response{Mode: ModeLive, Model: s.Model}, ae
	}

	a.logger.Debug("generation completed", "model", s.Model, "elapsed", time.Since(start))
	return Response{Text: text, Mode: ModeLive, Model: s.Model}, nil
}

// pause waits for d. Cancellation only shortens the wait.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

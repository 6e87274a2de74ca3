package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/model"
	"golang.org/x/time/rate"
)

// Generator sends a prompt to a text-generation model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Client turns free text into extraction results.
type Client struct {
	gen     Generator
	limiter *rate.Limiter
	log     *slog.Logger
}

type Option func(*Client)

// WithLimiter paces outbound requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// PerMinute builds a limiter allowing n requests per minute with a burst of one.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// New creates a client around gen. A nil gen yields a client whose calls
// fail with ErrNotConfigured.
func New(gen Generator, opts ...Option) *Client {
	c := &Client{gen: gen, log: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract asks the model for every expense in freeText. An empty slice is a
// valid return here; deciding that it is a failure is up to the caller.
func (c *Client) Extract(ctx context.Context, freeText string, today time.Time) ([]model.ExtractionResult, error) {
	if c.gen == nil {
		return nil, ErrNotConfigured
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for request slot: %w", err)
		}
	}

	prompt := BuildPrompt(freeText, today)
	c.log.Debug("requesting extraction", "chars", len(freeText), "today", today.Format(model.DateLayout))

	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		c.log.Error("extraction request failed", "error", err)
		return nil, err
	}

	results, err := Parse(text)
	if err != nil {
		c.log.Warn("could not parse extraction", "error", err)
		return nil, err
	}
	c.log.Debug("extraction parsed", "records", len(results))
	return results, nil
}

// Package generation adapts generative-model backends into an HTML producer.
package generation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

// Model is a backend that turns a prompt into raw text.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

func (f ModelFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Generator produces sanitized HTML for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client wraps a Model. Every failure is a CodeGeneration error and nothing is
// retried. A result that arrives after ctx is done is dropped.
type Client struct {
	model   Model
	timeout time.Duration
}

func NewClient(model Model, timeout time.Duration) *Client {
	return &Client{model: model, timeout: timeout}
}

var _ Generator = (*Client)(nil)

type result struct {
	text string
	err  error
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	ch := make(chan result, 1)
	go func() {
		text, err := c.model.GenerateContent(ctx, prompt)
		ch <- result{text: text, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		logger.Ctx(ctx).Warn("generation abandoned", zap.Duration("elapsed", time.Since(start)), zap.Error(ctx.Err()))
		return "", appErr.Wrap(ctx.Err(), appErr.CodeGeneration, "generation abandoned")
	case r = <-ch:
	}

	if r.err != nil {
		logger.Ctx(ctx).Error("model call failed", zap.Duration("elapsed", time.Since(start)), zap.Error(r.err))
		return "", appErr.Wrap(r.err, appErr.CodeGeneration, "model call failed")
	}
	html := StripFences(r.text)
	if strings.TrimSpace(html) == "" {
		return "", appErr.New(appErr.CodeGeneration, "model returned empty output")
	}
	logger.Ctx(ctx).Info("generation completed", zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(html)))
	return html, nil
}

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:html?\\s*\\n?|\\s*\\n)")
	trailingFence = regexp.MustCompile("\\r?\\n?```\\s*$")
)

// StripFences removes one leading ```html (or ```htm, or bare ```) fence and one
// trailing ``` fence. Anything else is returned unchanged.
func StripFences(raw string) string {
	out := leadingFence.ReplaceAllString(raw, "")
	return trailingFence.ReplaceAllString(out, "")
}

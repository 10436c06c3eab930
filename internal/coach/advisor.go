// ABOUTME: Advisor boundary between the conversation and a text generator.
// ABOUTME: Any generator failure is logged and replaced with a fallback reply.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fit/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// FallbackReply is what the coach says when the generator fails.
	FallbackReply = "I'm having trouble connecting to the FitWithFaisal server. Please ensure your API key is correctly configured in the environment."

	// EmptyReply is used when the generator succeeds with no text.
	EmptyReply = "Let's crush this workout! (I couldn't generate a specific response right now)."

	// DefaultRequestTimeout bounds a single advice request.
	DefaultRequestTimeout = 60 * time.Second
)

// Advisor answers a query given the prior conversation. It never fails;
// problems surface only as reply text.
type Advisor interface {
	Advise(ctx context.Context, query string, history []models.Turn) string
}

// Generator produces a reply and may fail.
type Generator interface {
	Generate(ctx context.Context, query string, history []models.Turn) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, query string, history []models.Turn) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, query string, history []models.Turn) (string, error) {
	return f(ctx, query, history)
}

// SafeAdvisor wraps a Generator so that errors, panics, timeouts, and
// empty replies all become plain text.
type SafeAdvisor struct {
	gen     Generator
	timeout time.Duration
	log     logrus.FieldLogger
}

// AdvisorOption configures a SafeAdvisor.
type AdvisorOption func(*SafeAdvisor)

// WithTimeout bounds each request. Zero or negative disables the bound.
func WithTimeout(d time.Duration) AdvisorOption {
	return func(a *SafeAdvisor) { a.timeout = d }
}

// WithAdvisorLogger sets the logger used for absorbed failures.
func WithAdvisorLogger(l logrus.FieldLogger) AdvisorOption {
	return func(a *SafeAdvisor) { a.log = l }
}

// NewAdvisor wraps gen. A nil gen yields an advisor that always falls back.
func NewAdvisor(gen Generator, opts ...AdvisorOption) *SafeAdvisor {
	a := &SafeAdvisor{
		gen:     gen,
		timeout: DefaultRequestTimeout,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Unavailable returns an advisor that always falls back, logging reason
// on every request.
func Unavailable(reason error, opts ...AdvisorOption) *SafeAdvisor {
	return NewAdvisor(GeneratorFunc(func(context.Context, string, []models.Turn) (string, error) {
		return "", reason
	}), opts...)
}

// Advise implements Advisor.
func (a *SafeAdvisor) Advise(ctx context.Context, query string, history []models.Turn) (reply string) {
	if a.gen == nil {
		a.log.Warn("coach: no generator configured")
		return FallbackReply
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("panic", r).Error("coach: generator panicked")
			reply = FallbackReply
		}
	}()

	start := time.Now()
	text, err := a.gen.Generate(ctx, query, history)
	entry := a.log.WithFields(logrus.Fields{
		"history": len(history),
		"elapsed": time.Since(start).Round(time.Millisecond),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("request timed out after %s: %w", a.timeout, err)
		}
		entry.WithError(err).Warn("coach: advice request failed")
		return FallbackReply
	}
	if strings.TrimSpace(text) == "" {
		entry.Info("coach: empty reply")
		return EmptyReply
	}
	entry.Debug("coach: advice received")
	return text
}

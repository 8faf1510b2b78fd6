package ai

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// Verify interface implementations at compile time.
var (
	_ driven.EmbeddingService  = (*ResilientEmbedding)(nil)
	_ driven.CompletionService = (*ResilientCompletion)(nil)
)

// policy bounds each call: a token bucket, a per-attempt timeout, and one
// retry after a backoff when the failure is transient.
type policy struct {
	timeout time.Duration
	backoff time.Duration
	limiter *rate.Limiter
}

func newPolicy(s domain.ResilienceSettings) *policy {
	p := &policy{
		timeout: s.Timeout,
		backoff: s.RetryBackoff,
	}
	if s.RequestsPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(s.RequestsPerSecond), max(s.Burst, 1))
	}
	return p
}

// do runs fn at most twice. Parent cancellation is never retried.
func (p *policy) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := p.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt > 1 || !domain.IsTransient(err) {
			return err
		}

		logger.Warn("%s failed (%v), retrying in %s", op, err, p.backoff)
		timer := time.NewTimer(p.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Join(domain.ErrRateLimited, err)
		}
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return Classify(fn(callCtx))
}

// ResilientEmbedding decorates an EmbeddingService with throttling, a timeout
// per attempt and a single retry on transient failures.
type ResilientEmbedding struct {
	driven.EmbeddingService
	policy *policy
}

// NewResilientEmbedding wraps svc with the given settings.
func NewResilientEmbedding(svc driven.EmbeddingService, settings domain.ResilienceSettings) *ResilientEmbedding {
	return &ResilientEmbedding{EmbeddingService: svc, policy: newPolicy(settings)}
}

// Embed generates a vector embedding for the given text.
func (r *ResilientEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := r.policy.do(ctx, "embed", func(ctx context.Context) error {
		var err error
		out, err = r.EmbeddingService.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings for multiple texts.
func (r *ResilientEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := r.policy.do(ctx, "embed batch", func(ctx context.Context) error {
		var err error
		out, err = r.EmbeddingService.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// ResilientCompletion decorates a CompletionService like ResilientEmbedding.
type ResilientCompletion struct {
	driven.CompletionService
	policy *policy
}

// NewResilientCompletion wraps svc with the given settings.
func NewResilientCompletion(svc driven.CompletionService, settings domain.ResilienceSettings) *ResilientCompletion {
	return &ResilientCompletion{CompletionService: svc, policy: newPolicy(settings)}
}

// Complete runs one completion.
func (r *ResilientCompletion) Complete(
	ctx context.Context,
	system string,
	history []domain.ConversationTurn,
	prompt string,
) (string, error) {
	var out string
	err := r.policy.do(ctx, "completion", func(ctx context.Context) error {
		var err error
		out, err = r.CompletionService.Complete(ctx, system, history, prompt)
		return err
	})
	return out, err
}

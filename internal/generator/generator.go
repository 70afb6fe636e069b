// Package generator runs the game generation pipeline: prompt building,
// provider invocation, the defensive parse cascade, and structural
// validation, with exactly one simplified-prompt retry for recoverable
// failures.
package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jwebster45206/crawl-engine/internal/services"
	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	"github.com/jwebster45206/crawl-engine/pkg/prompts"
)

// Generator orchestrates one generation attempt end to end.
type Generator struct {
	llm    services.LLMService
	logger *slog.Logger
}

// New creates a Generator bound to one provider.
func New(llm services.LLMService, logger *slog.Logger) *Generator {
	return &Generator{
		llm:    llm,
		logger: logger,
	}
}

// GenerateGame runs the pipeline for one request. Provider availability
// failures are terminal; parse and validation failures earn exactly one
// retry with the simplified prompt. At most two provider calls are ever
// made for one request.
func (g *Generator) GenerateGame(ctx context.Context, req crawl.GenerationRequest, referenceStops []crawl.ReferenceStop) (*crawl.GeneratedResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &GenerationError{Kind: KindUnknown, Message: "invalid request", Err: err}
	}

	log := g.logger.With(
		"theme", req.Theme,
		"city", req.City,
		"stop_count", req.StopCount,
		"puzzles_per_stop", req.PuzzlesPerStop,
	)

	log.Debug("Generation started", "reference_stops", len(referenceStops))

	prompt := prompts.BuildGenerationPrompt(req, referenceStops)
	resp, err := g.attempt(ctx, prompt, req)
	if err == nil {
		g.logSoftWarnings(log, resp, req)
		log.Info("Generation succeeded on first attempt")
		return resp, nil
	}

	kind, retryable := classify(ctx, err)
	if !retryable {
		log.Warn("Generation failed terminally", "kind", kind, "error", err)
		return nil, &GenerationError{Kind: kind, Message: "generation failed", Err: err}
	}

	// Recoverable failure. One retry with the simplified prompt, unless
	// the caller has already gone away.
	if ctx.Err() != nil {
		return nil, &GenerationError{Kind: KindCancelled, Message: "cancelled before retry", Err: ctx.Err()}
	}

	log.Info("Retrying with simplified prompt", "first_attempt_error", err)

	resp, retryErr := g.attempt(ctx, prompts.BuildSimplifiedPrompt(req, referenceStops), req)
	if retryErr == nil {
		log.Info("Generation succeeded on simplified retry")
		return resp, nil
	}

	kind, _ = classify(ctx, retryErr)
	log.Warn("Generation failed after retry", "kind", kind, "error", retryErr)
	return nil, &GenerationError{Kind: kind, Message: "generation failed after simplified retry", Err: retryErr}
}

// attempt runs one provider call through parse and validation.
func (g *Generator) attempt(ctx context.Context, prompt prompts.Prompt, req crawl.GenerationRequest) (*crawl.GeneratedResponse, error) {
	raw, err := g.llm.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Provider responded", "response_bytes", len(raw))

	resp, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	if err := Validate(resp, req); err != nil {
		return nil, err
	}
	return resp, nil
}

// classify maps an attempt error to its terminal kind, and reports
// whether the failure earns the simplified retry. Only parse and
// validation failures are retryable; the provider itself is never
// retried when it reports trouble.
func classify(ctx context.Context, err error) (ErrorKind, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return KindCancelled, false
	}

	var provErr *services.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Kind {
		case services.ProviderOverloaded, services.ProviderRateLimited, services.ProviderUnavailable:
			return KindProviderUnavailable, false
		default:
			return KindUnknown, false
		}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParseFailed, true
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindValidationFailed, true
	}

	return KindUnknown, false
}

// logSoftWarnings surfaces advisory quality findings without failing
// the generation.
func (g *Generator) logSoftWarnings(log *slog.Logger, resp *crawl.GeneratedResponse, req crawl.GenerationRequest) {
	for _, w := range SoftWarnings(resp, req) {
		log.Warn("Generation quality warning", "warning", w)
	}
}

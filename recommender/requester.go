package recommender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	Temperature = 0.7
	MaxTokens   = 2000

	DefaultTimeout         = 60 * time.Second
	DefaultMaxRetries      = 2
	DefaultInitialInterval = 500 * time.Millisecond
)

var (
	errEmptyCompletion = errors.New("empty completion")
	// errCallerGone marks a failure caused by the caller's context ending, not
	// by the generation service. The breaker does not count it.
	errCallerGone = errors.New("caller context done")
)

// Generator is the part of a langchaingo model the requester needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Requester struct {
	llm             Generator
	timeout         time.Duration
	maxRetries      int
	initialInterval time.Duration
	breaker         *gobreaker.CircuitBreaker[string]
}

type RequesterOption func(r *Requester)

func WithTimeout(d time.Duration) RequesterOption {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithMaxRetries(n int) RequesterOption {
	return func(r *Requester) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

func WithInitialBackoff(d time.Duration) RequesterOption {
	return func(r *Requester) {
		if d > 0 {
			r.initialInterval = d
		}
	}
}

func NewRequester(llm Generator, opts ...RequesterOption) *Requester {
	r := &Requester{
		llm:             llm,
		timeout:         DefaultTimeout,
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialInterval,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "generation-service",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return r
}

// RequestCompletion sends prompt to the generation service and returns the raw
// generated text. Transient transport failures are retried with jittered
// exponential backoff; everything else fails on the first attempt.
func (r *Requester) RequestCompletion(ctx context.Context, prompt string) (string, error) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval
	policy.RandomizationFactor = 0.5
	policy.Multiplier = 2
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 0

	var (
		text    string
		attempt int
	)
	err := backoff.Retry(func() error {
		attempt++

		out, err := r.breaker.Execute(func() (string, error) {
			out, err := r.generate(ctx, prompt)
			if err != nil && parent.Err() != nil {
				return "", fmt.Errorf("%w: %w", errCallerGone, err)
			}

			return out, err
		})
		if err == nil {
			text = out
			return nil
		}

		upstreamErr := classify(ctx, err)
		if !upstreamErr.Retryable() {
			return backoff.Permanent(upstreamErr)
		}

		slog.Warn("generation request failed, retrying", "attempt", attempt, "error", err)

		return upstreamErr
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxRetries)), ctx))
	if err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) && ctx.Err() == nil {
			return "", upstreamErr
		}

		return "", classify(ctx, err)
	}

	return text, nil
}

func (r *Requester) generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(SystemPrompt),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	content, err := r.llm.GenerateContent(
		ctx,
		messages,
		llms.WithTemperature(Temperature),
		llms.WithMaxTokens(MaxTokens),
	)
	if err != nil {
		return "", err
	}

	if content == nil || len(content.Choices) == 0 {
		return "", errEmptyCompletion
	}

	text := content.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", errEmptyCompletion
	}

	return text, nil
}

var statusCodePattern = regexp.MustCompile(`status code:? (\d{3})`)

// classify maps a provider error onto an UpstreamKind. Providers report HTTP
// failures as plain error strings, so status codes are recovered from the text.
func classify(ctx context.Context, err error) *UpstreamError {
	var upstreamErr *UpstreamError

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return &UpstreamError{Kind: UpstreamTimeout, Err: err}
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return &UpstreamError{Kind: UpstreamCanceled, Err: err}
	case errors.As(err, &upstreamErr):
		return upstreamErr
	case errors.Is(err, errEmptyCompletion):
		return &UpstreamError{Kind: UpstreamEmpty, Err: err}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &UpstreamError{Kind: UpstreamUnavailable, Err: err}
	}

	msg := strings.ToLower(err.Error())

	if m := statusCodePattern.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch {
		case code == 429:
			return &UpstreamError{Kind: UpstreamRateLimit, Err: err}
		case code == 401 || code == 403:
			return &UpstreamError{Kind: UpstreamAuth, Err: err}
		case code >= 500:
			return &UpstreamError{Kind: UpstreamTransport, Err: err}
		}
	}

	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		return &UpstreamError{Kind: UpstreamRateLimit, Err: err}
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"):
		return &UpstreamError{Kind: UpstreamAuth, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") {
		return &UpstreamError{Kind: UpstreamTransport, Err: err}
	}

	return &UpstreamError{Kind: UpstreamProvider, Err: err}
}

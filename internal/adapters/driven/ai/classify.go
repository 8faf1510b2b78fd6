package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// statusCoder is implemented by the Ollama adapters' StatusError.
type statusCoder interface {
	HTTPStatus() int
}

// Classify maps a provider failure onto the domain sentinels so callers can
// decide on retries with errors.Is. Cancellation and already classified errors
// are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrTimeout) ||
		errors.Is(err, domain.ErrInvalidResponse) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	if sentinel := sentinelForStatus(statusOf(err)); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// statusOf extracts the HTTP status from the provider SDK error types.
func statusOf(err error) int {
	var openaiAPIErr *openai.APIError
	if errors.As(err, &openaiAPIErr) {
		return openaiAPIErr.HTTPStatusCode
	}
	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) {
		return openaiReqErr.HTTPStatusCode
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code
	}
	var coder statusCoder
	if errors.As(err, &coder) {
		return coder.HTTPStatus()
	}
	return 0
}

func sentinelForStatus(status int) error {
	switch {
	case status == 0:
		return nil
	case status == http.StatusTooManyRequests, status == 529: // 529: Anthropic overloaded
		return domain.ErrRateLimited
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return domain.ErrTimeout
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case status >= http.StatusInternalServerError:
		return domain.ErrInvalidResponse
	default:
		return nil
	}
}

package intelligence

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRateLimited marks a generation call the provider throttled. It is retried.
	ErrRateLimited = errors.New("generation rate limited")
	// ErrInvalidRequest marks a generation call the provider rejected. It is never retried.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrEmptyResponse is returned when the provider answered without any text.
	ErrEmptyResponse = errors.New("empty generation response")
)

// IsRetryable is the retry classifier for generation errors.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func classifyStatus(code int, err error) error {
	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return err
}

func classifyOpenAI(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}
	return err
}

func classifyGemini(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyStatus(gErr.Code, err)
	}

	switch status.Code(err) {
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return err
}

package intelligence

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		wantRate    bool
		wantInvalid bool
	}{
		{"openai 429", classifyOpenAI(&openai.APIError{HTTPStatusCode: 429, Message: "slow down"}), true, false},
		{"openai 400", classifyOpenAI(&openai.APIError{HTTPStatusCode: 400, Message: "bad"}), false, true},
		{"openai request error 429", classifyOpenAI(&openai.RequestError{HTTPStatusCode: 429, Err: plain}), true, false},
		{"openai 500", classifyOpenAI(&openai.APIError{HTTPStatusCode: 500}), false, false},
		{"googleapi 429", classifyGemini(&googleapi.Error{Code: 429}), true, false},
		{"googleapi 400", classifyGemini(&googleapi.Error{Code: 400}), false, true},
		{"grpc resource exhausted", classifyGemini(status.Error(codes.ResourceExhausted, "quota")), true, false},
		{"grpc invalid argument", classifyGemini(status.Error(codes.InvalidArgument, "bad")), false, true},
		{"grpc unavailable", classifyGemini(status.Error(codes.Unavailable, "down")), false, false},
		{"plain", classifyGemini(plain), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrRateLimited); got != tt.wantRate {
				t.Errorf("is rate limited = %v, want %v (%v)", got, tt.wantRate, tt.err)
			}
			if got := errors.Is(tt.err, ErrInvalidRequest); got != tt.wantInvalid {
				t.Errorf("is invalid = %v, want %v (%v)", got, tt.wantInvalid, tt.err)
			}
			if got := IsRetryable(tt.err); got != tt.wantRate {
				t.Errorf("IsRetryable = %v, want %v", got, tt.wantRate)
			}
		})
	}
}

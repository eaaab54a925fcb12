package intelligence

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"bookingagent/models"
)

const (
	DefaultOpenAIModel   = openai.GPT4oMini
	defaultOpenAITimeout = 30 * time.Second
	maxCompletionTokens  = 500
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(token, baseURL, model string, timeout time.Duration) *OpenAIClient {
	clientConfig := openai.DefaultConfig(token)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientConfig), model: model}
}

func toOpenAIRole(role string) string {
	switch role {
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func (o *OpenAIClient) Generate(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages", ErrInvalidRequest)
	}

	req := openai.ChatCompletionRequest{
		Model:               o.model,
		Messages:            make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxCompletionTokens: maxCompletionTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", classifyOpenAI(err))
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

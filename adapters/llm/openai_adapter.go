package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type gatewayLLMAdapter struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewGatewayLLMAdapter talks to any OpenAI-compatible chat completions gateway.
func NewGatewayLLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.LLM.BaseURL == "" {
		return nil, fmt.Errorf("LLM base url is not configured")
	}
	if cfg.LLM.Model == "" {
		return nil, fmt.Errorf("LLM model is not configured")
	}

	config := openai.DefaultConfig(cfg.LLM.APIKey)
	config.BaseURL = cfg.LLM.BaseURL

	client := openai.NewClientWithConfig(config)

	log.Info("AI gateway adapter initialized", zap.String("base_url", cfg.LLM.BaseURL), zap.String("model", cfg.LLM.Model))
	return &gatewayLLMAdapter{client: client, model: cfg.LLM.Model, log: log}, nil
}

func (a *gatewayLLMAdapter) Complete(ctx context.Context, messages []service.Message) (*service.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
		Stream:   false,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, a.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperror.NewInternal("AI request failed, please try again", errors.New("gateway returned no choices"))
	}

	model := resp.Model
	if model == "" {
		model = a.model
	}
	return &service.Completion{Content: resp.Choices[0].Message.Content, Model: model}, nil
}

func (a *gatewayLLMAdapter) mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		a.log.Warn("AI gateway rate limited the request")
		return apperror.NewRateLimited("AI gateway returned 429", err)
	case http.StatusPaymentRequired:
		a.log.Warn("AI gateway credits exhausted")
		return apperror.NewPaymentRequired("AI gateway returned 402", err)
	}
	a.log.Error("AI gateway request failed", err, zap.Int("status", status))
	return apperror.NewInternal("AI request failed, please try again", err)
}

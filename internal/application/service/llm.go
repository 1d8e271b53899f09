package service

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Completion struct {
	Content string
	Model   string
}

// LLMService forwards role-tagged prompts to the AI gateway. Implementations map gateway
// rate limiting and exhausted credits to apperror.ErrRateLimited and apperror.ErrPaymentRequired.
type LLMService interface {
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}

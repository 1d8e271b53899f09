package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var tracer = otel.Tracer("assistant_usecase")

// maxHistory caps how many prior messages are forwarded to the gateway.
const maxHistory = 20

const trainerPrompt = "You are PawPal's dog trainer assistant. Use positive reinforcement only. " +
	"Keep answers short and give concrete steps the owner can practice today."

type AssistantUseCase struct {
	dogRepo   dog.Repository
	skillRepo training.SkillRepository
	repo      training.Repository
	llm       service.LLMService
	logger    logger.Logger
}

func NewAssistantUseCase(
	dr dog.Repository,
	sr training.SkillRepository,
	tr training.Repository,
	llm service.LLMService,
	log logger.Logger,
) *AssistantUseCase {
	return &AssistantUseCase{dogRepo: dr, skillRepo: sr, repo: tr, llm: llm, logger: log}
}

type ChatInput struct {
	OwnerID  uuid.UUID
	DogID    *uuid.UUID
	Messages []service.Message
}

type ChatOutput struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

func (uc *AssistantUseCase) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	ctx, span := tracer.Start(ctx, "AssistantChat")
	defer span.End()

	history, err := validateHistory(input.Messages)
	if err != nil {
		return nil, err
	}

	system := trainerPrompt
	if input.DogID != nil {
		grounding, err := uc.describeDog(ctx, input.OwnerID, *input.DogID)
		if err != nil {
			return nil, err
		}
		system += "\n\n" + grounding
	}

	prompt := make([]service.Message, 0, len(history)+1)
	prompt = append(prompt, service.Message{Role: service.RoleSystem, Content: system})
	prompt = append(prompt, history...)

	completion, err := uc.llm.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Debug("Assistant replied", zap.String("owner_id", input.OwnerID.String()), zap.Int("history", len(history)))
	return &ChatOutput{Reply: completion.Content, Model: completion.Model}, nil
}

// validateHistory keeps the newest maxHistory messages. Only user and assistant turns are
// accepted and the last one must come from the user.
func validateHistory(msgs []service.Message) ([]service.Message, error) {
	if len(msgs) == 0 {
		return nil, apperror.NewInvalidInput("messages are required", nil)
	}
	for _, m := range msgs {
		if m.Role != service.RoleUser && m.Role != service.RoleAssistant {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("unsupported message role %q", m.Role), nil)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, apperror.NewInvalidInput("message content cannot be empty", nil)
		}
	}
	if msgs[len(msgs)-1].Role != service.RoleUser {
		return nil, apperror.NewInvalidInput("last message must be from the user", nil)
	}
	if len(msgs) > maxHistory {
		msgs = msgs[len(msgs)-maxHistory:]
	}
	return msgs, nil
}

func (uc *AssistantUseCase) describeDog(ctx context.Context, ownerID, dogID uuid.UUID) (string, error) {
	d, err := uc.dogRepo.FindByID(ctx, dogID, ownerID)
	if err != nil {
		return "", err
	}
	skills, err := uc.repo.ListDogSkills(ctx, dogID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The owner is asking about %s", d.Name)
	if d.Breed != "" {
		fmt.Fprintf(&b, ", a %s", d.Breed)
	}
	if d.BirthDate != nil {
		fmt.Fprintf(&b, ", %d weeks old", d.AgeInWeeks(time.Now()))
	}
	b.WriteString(".")
	if len(skills) == 0 {
		return b.String(), nil
	}

	b.WriteString(" Current skills:")
	for _, ds := range skills {
		name := ds.SkillID.String()
		if s, err := uc.skillRepo.FindSkillByID(ctx, ds.SkillID); err == nil {
			name = s.Name
		}
		fmt.Fprintf(&b, " %s (%s);", name, ds.Level)
	}
	return b.String(), nil
}

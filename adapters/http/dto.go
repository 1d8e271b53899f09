package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/pawpal/internal/application/service"
	trainingUC "github.com/khoahotran/pawpal/internal/application/usecase/training"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/internal/domain/user"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

const dateLayout = "2006-01-02"

// Auth DTOs

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// Dog DTOs

type DogRequest struct {
	Name          string         `json:"name" binding:"required"`
	Breed         string         `json:"breed"`
	Sex           string         `json:"sex"`
	BirthDate     *string        `json:"birth_date"`
	WeightKg      *float64       `json:"weight_kg"`
	ActivityLevel string         `json:"activity_level"`
	Neutered      bool           `json:"neutered"`
	PhotoURL      *string        `json:"photo_url"`
	Metadata      map[string]any `json:"metadata"`
}

type SelectDogRequest struct {
	DogID uuid.UUID `json:"dog_id" binding:"required"`
}

// parseDate reads an optional YYYY-MM-DD date.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, apperror.NewInvalidInput(field+" must be YYYY-MM-DD", err)
	}
	return &t, nil
}

// Training DTOs

type SkillDTO struct {
	*training.Skill
	Requirements []training.Requirement `json:"requirements"`
}

func ToSkillDTO(s trainingUC.SkillWithRequirements) SkillDTO {
	return SkillDTO{Skill: s.Skill, Requirements: s.Requirements}
}

type StartSkillRequest struct {
	SkillID uuid.UUID `json:"skill_id" binding:"required"`
}

type LogSessionRequest struct {
	Context     string     `json:"context" binding:"required"`
	SuccessRate *float64   `json:"success_rate" binding:"required"`
	Notes       string     `json:"notes"`
	PracticedAt *time.Time `json:"practiced_at"`
}

type ProgressDTO struct {
	DogSkill   *training.DogSkill  `json:"dog_skill"`
	Skill      *training.Skill     `json:"skill"`
	Evaluation training.Evaluation `json:"evaluation"`
}

func ToProgressDTO(p *trainingUC.Progress) ProgressDTO {
	return ProgressDTO{DogSkill: p.DogSkill, Skill: p.Skill, Evaluation: p.Evaluation}
}

type LogSessionResponse struct {
	Session  *training.Session  `json:"session"`
	DogSkill *training.DogSkill `json:"dog_skill"`
}

// Health DTOs

type HealthRecordRequest struct {
	RecordType string         `json:"record_type" binding:"required"`
	Title      string         `json:"title" binding:"required"`
	Notes      string         `json:"notes"`
	RecordedAt *time.Time     `json:"recorded_at"`
	NextDueAt  *time.Time     `json:"next_due_at"`
	WeightKg   *float64       `json:"weight_kg"`
	Metadata   map[string]any `json:"metadata"`
}

// Nutrition DTOs

type MealRequest struct {
	MealType    string     `json:"meal_type" binding:"required"`
	FoodName    string     `json:"food_name" binding:"required"`
	AmountGrams float64    `json:"amount_grams"`
	Calories    float64    `json:"calories"`
	Notes       string     `json:"notes"`
	FedAt       *time.Time `json:"fed_at"`
}

// Marketplace DTOs

type ListingRequest struct {
	Category    string         `json:"category" binding:"required"`
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price_cents"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata"`
	IsPublic    bool           `json:"is_public"`
}

// Lifestyle DTOs

type LifestyleRequest struct {
	HomeType      string         `json:"home_type"`
	HasYard       bool           `json:"has_yard"`
	HoursAlone    int            `json:"hours_alone"`
	ActivityLevel string         `json:"activity_level"`
	Experience    string         `json:"experience"`
	HasChildren   bool           `json:"has_children"`
	OtherPets     []string       `json:"other_pets"`
	Answers       map[string]any `json:"answers"`
}

// Assistant DTOs

type ChatRequest struct {
	Messages []service.Message `json:"messages" binding:"required"`
	DogID    *uuid.UUID        `json:"dog_id"`
}

package dog

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/pawpal/internal/domain/roadmap"
)

type RoadmapOutput struct {
	DogID       uuid.UUID             `json:"dog_id"`
	AgeWeeks    int                   `json:"age_weeks"`
	BirthKnown  bool                  `json:"birth_date_known"`
	ActiveStage *roadmap.Stage        `json:"active_stage"`
	Stages      []roadmap.StageStatus `json:"stages"`
}

func (uc *DogUseCase) GetRoadmap(ctx context.Context, id, ownerID uuid.UUID) (*RoadmapOutput, error) {
	d, err := uc.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	age := d.AgeInWeeks(uc.now())
	statuses := roadmap.Evaluate(age, roadmap.DefaultStages())

	out := &RoadmapOutput{
		DogID:      d.ID,
		AgeWeeks:   age,
		BirthKnown: d.BirthDate != nil,
		Stages:     statuses,
	}
	if active, ok := roadmap.ActiveStage(statuses); ok {
		out.ActiveStage = &active
	}
	return out, nil
}

// Stages is the static roadmap, served without a dog.
func Stages() []roadmap.Stage {
	return roadmap.DefaultStages()
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/internal/domain/user"
	"github.com/khoahotran/pawpal/pkg/auth"
)

// skillNamespace keeps skill ids stable across reseeds.
var skillNamespace = uuid.MustParse("6f1c8a52-2f0e-4d6b-9a57-5d3f0c7e9b11")

type seedSkill struct {
	slug, name, category, description string
	generalized                       []training.PracticeContext
	proofed                           []training.PracticeContext
}

var skills = []seedSkill{
	{
		slug: "name_recognition", name: "Name recognition", category: "foundation",
		description: "Turns to the handler when hearing its name.",
		generalized: []training.PracticeContext{training.ContextIndoorControlled, training.ContextOutdoorQuiet},
		proofed:     []training.PracticeContext{training.ContextIndoorDistractions, training.ContextOutdoorBusy, training.ContextWithPeople},
	},
	{
		slug: "sit", name: "Sit", category: "foundation",
		description: "Sits on cue and holds until released.",
		generalized: []training.PracticeContext{training.ContextIndoorControlled, training.ContextOutdoorQuiet},
		proofed:     []training.PracticeContext{training.ContextOutdoorBusy, training.ContextNovelLocation, training.ContextWithDogs},
	},
	{
		slug: "down", name: "Down", category: "foundation",
		description: "Lies down on cue.",
		generalized: []training.PracticeContext{training.ContextIndoorControlled, training.ContextIndoorDistractions},
		proofed:     []training.PracticeContext{training.ContextOutdoorBusy, training.ContextNovelLocation, training.ContextWithPeople},
	},
	{
		slug: "stay", name: "Stay", category: "impulse_control",
		description: "Holds position while the handler moves away.",
		generalized: []training.PracticeContext{training.ContextIndoorControlled, training.ContextOutdoorQuiet},
		proofed:     []training.PracticeContext{training.ContextOutdoorBusy, training.ContextWithDogs, training.ContextWithPeople},
	},
	{
		slug: "recall", name: "Recall", category: "safety",
		description: "Comes back to the handler when called.",
		generalized: []training.PracticeContext{training.ContextIndoorControlled, training.ContextOutdoorQuiet, training.ContextIndoorDistractions},
		proofed:     []training.PracticeContext{training.ContextOutdoorBusy, training.ContextNovelLocation, training.ContextWithDogs, training.ContextWithPeople},
	},
	{
		slug: "loose_leash_walking", name: "Loose leash walking", category: "walking",
		description: "Walks beside the handler without pulling.",
		generalized: []training.PracticeContext{training.ContextOutdoorQuiet, training.ContextNovelLocation},
		proofed:     []training.PracticeContext{training.ContextOutdoorBusy, training.ContextWithDogs, training.ContextWithPeople},
	},
}

func main() {
	fmt.Println("seeding reference data into database...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, os.Getenv("DB_DSN"))
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, s := range skills {
			if err := seedSkillRows(ctx, tx, s); err != nil {
				return fmt.Errorf("skill %s: %w", s.slug, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("cannot seed skills: %v", err)
	}
	fmt.Printf("seeded %d skills with progression requirements\n", len(skills))

	if email := os.Getenv("DEMO_EMAIL"); email != "" {
		if err := seedDemoUser(ctx, pool, email, os.Getenv("DEMO_PASSWORD")); err != nil {
			log.Fatalf("cannot add demo user: %v", err)
		}
		fmt.Printf("added or updated demo user '%s' successfully!\n", email)
	}
}

func seedSkillRows(ctx context.Context, tx pgx.Tx, s seedSkill) error {
	id := uuid.NewSHA1(skillNamespace, []byte(s.slug))
	_, err := tx.Exec(ctx, `
		INSERT INTO skills (id, slug, name, category, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET name = $3, category = $4, description = $5
	`, id, s.slug, s.name, s.category, s.description)
	if err != nil {
		return err
	}

	reqs := []training.Requirement{
		{SkillID: id, Level: training.LevelGeneralized, MinSessions: 5, RequiredContexts: s.generalized,
			Description: "Reliable in a couple of calm settings."},
		{SkillID: id, Level: training.LevelProofed, MinSessions: 12, RequiredContexts: s.proofed,
			Description: "Reliable around real-world distractions."},
	}
	for _, r := range reqs {
		contexts := make([]string, len(r.RequiredContexts))
		for i, c := range r.RequiredContexts {
			contexts[i] = string(c)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO skill_progression_requirements (skill_id, level, min_sessions, required_contexts, description)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (skill_id, level) DO UPDATE SET min_sessions = $3, required_contexts = $4, description = $5
		`, r.SkillID, string(r.Level), r.MinSessions, contexts, r.Description)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("cannot hash password: %w", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = $3
	`, uuid.New(), user.NormalizeEmail(email), hash)
	return err
}

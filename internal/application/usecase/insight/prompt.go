package insight

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
)

const systemPrompt = "You are PawPal, a friendly assistant for dog owners. " +
	"Give short, practical advice in plain language. Recommend a veterinarian for anything medical."

var focus = map[insight.Kind]string{
	insight.KindNutrition: "Review this dog's feeding over the last week against its calorie target and suggest adjustments.",
	insight.KindActivity:  "Suggest the next training and exercise steps based on the dog's skill progress and age.",
	insight.KindHealth:    "Summarize the dog's health history and point out upcoming or overdue care.",
}

func dogPrompt(k insight.Kind, s *dogSnapshot, now time.Time) []service.Message {
	var b strings.Builder
	d := s.dog
	age := d.AgeInWeeks(now)

	fmt.Fprintf(&b, "Dog: %s", d.Name)
	if d.Breed != "" {
		fmt.Fprintf(&b, " (%s)", d.Breed)
	}
	fmt.Fprintf(&b, ", sex %s, activity %s", d.Sex, d.ActivityLevel)
	if d.BirthDate != nil {
		fmt.Fprintf(&b, ", %d weeks old", age)
	}
	if d.WeightKg != nil {
		fmt.Fprintf(&b, ", %.1f kg", *d.WeightKg)
	}
	b.WriteString("\n")

	switch k {
	case insight.KindNutrition:
		target := nutrition.DailyTarget(d.NutritionProfile(now))
		if target > 0 {
			fmt.Fprintf(&b, "Daily calorie target: %.0f kcal\n", target)
		}
		b.WriteString("Meals in the last 7 days:\n")
		for _, m := range s.meals {
			fmt.Fprintf(&b, "- %s %s: %s, %.0f g, %.0f kcal\n", m.FedAt.Format("2006-01-02"), m.MealType, m.FoodName, m.AmountGrams, m.Calories)
		}
		if len(s.meals) == 0 {
			b.WriteString("- none logged\n")
		}
	case insight.KindActivity:
		b.WriteString("Skills in training:\n")
		for _, ds := range s.skills {
			name := s.skillName[ds.SkillID]
			if name == "" {
				name = ds.SkillID.String()
			}
			fmt.Fprintf(&b, "- %s: level %s, practiced in %d contexts\n", name, ds.Level, len(ds.ContextsSeen))
		}
		if len(s.skills) == 0 {
			b.WriteString("- none yet\n")
		}
	case insight.KindHealth:
		b.WriteString("Health records, newest first:\n")
		for _, r := range s.records {
			fmt.Fprintf(&b, "- %s %s: %s", r.RecordedAt.Format("2006-01-02"), r.RecordType, r.Title)
			if r.NextDueAt != nil {
				fmt.Fprintf(&b, " (next due %s)", r.NextDueAt.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
		if len(s.records) == 0 {
			b.WriteString("- none recorded\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(focus[k])

	return []service.Message{
		{Role: service.RoleSystem, Content: systemPrompt},
		{Role: service.RoleUser, Content: b.String()},
	}
}

func lifestylePrompt(p *lifestyle.Profile) []service.Message {
	var b strings.Builder
	b.WriteString("A prospective dog owner answered a lifestyle questionnaire:\n")
	fmt.Fprintf(&b, "- Home: %s, yard: %t\n", p.HomeType, p.HasYard)
	fmt.Fprintf(&b, "- Hours the dog would be alone per day: %d\n", p.HoursAlone)
	fmt.Fprintf(&b, "- Owner activity level: %s, experience: %s\n", p.ActivityLevel, p.Experience)
	fmt.Fprintf(&b, "- Children at home: %t\n", p.HasChildren)
	if len(p.OtherPets) > 0 {
		fmt.Fprintf(&b, "- Other pets: %s\n", strings.Join(p.OtherPets, ", "))
	}
	for _, q := range slices.Sorted(maps.Keys(p.Answers)) {
		fmt.Fprintf(&b, "- %s: %v\n", q, p.Answers[q])
	}
	b.WriteString("\nSuggest suitable breeds or types of dog, what to prepare before adoption, and any concerns.")

	return []service.Message{
		{Role: service.RoleSystem, Content: systemPrompt},
		{Role: service.RoleUser, Content: b.String()},
	}
}

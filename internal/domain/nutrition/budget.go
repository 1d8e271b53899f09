package nutrition

import "math"

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
	ActivityWorking  ActivityLevel = "working"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityModerate, ActivityHigh, ActivityWorking:
		return true
	}
	return false
}

// TreatBudgetShare is the fraction of the daily target allowed for treats.
const TreatBudgetShare = 0.10

// Profile is the subset of a dog needed to size its daily intake.
type Profile struct {
	WeightKg *float64
	AgeWeeks int
	Activity ActivityLevel
	Neutered bool
}

// RestingEnergy is RER = 70 * kg^0.75 in kcal/day.
func RestingEnergy(weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	return 70 * math.Pow(weightKg, 0.75)
}

func multiplier(p Profile) float64 {
	switch {
	case p.AgeWeeks > 0 && p.AgeWeeks < 17:
		return 3.0
	case p.AgeWeeks > 0 && p.AgeWeeks <= 52:
		return 2.0
	}
	switch p.Activity {
	case ActivityLow:
		return 1.4
	case ActivityHigh:
		return 2.0
	case ActivityWorking:
		return 3.0
	default:
		if p.Neutered {
			return 1.6
		}
		return 1.8
	}
}

// DailyTarget returns kcal/day, or 0 when the weight is unknown.
func DailyTarget(p Profile) float64 {
	if p.WeightKg == nil {
		return 0
	}
	return RestingEnergy(*p.WeightKg) * multiplier(p)
}

type DailySummary struct {
	Date                 string  `json:"date"`
	TargetCalories       float64 `json:"target_calories"`
	ConsumedCalories     float64 `json:"consumed_calories"`
	TreatCalories        float64 `json:"treat_calories"`
	TreatBudget          float64 `json:"treat_budget"`
	TreatBudgetRemaining float64 `json:"treat_budget_remaining"`
	PercentOfTarget      float64 `json:"percent_of_target"`
	OverTreatBudget      bool    `json:"over_treat_budget"`
	UnknownWeight        bool    `json:"unknown_weight"`
	MealCount            int     `json:"meal_count"`
}

// Summarize totals one day of meals against the dog's target.
func Summarize(date string, p Profile, meals []*MealRecord) DailySummary {
	target := DailyTarget(p)
	s := DailySummary{
		Date:           date,
		TargetCalories: round1(target),
		TreatBudget:    round1(target * TreatBudgetShare),
		UnknownWeight:  p.WeightKg == nil,
		MealCount:      len(meals),
	}
	for _, m := range meals {
		s.ConsumedCalories += m.Calories
		if m.MealType.IsTreat() {
			s.TreatCalories += m.Calories
		}
	}
	s.ConsumedCalories = round1(s.ConsumedCalories)
	s.TreatCalories = round1(s.TreatCalories)
	s.TreatBudgetRemaining = round1(s.TreatBudget - s.TreatCalories)
	s.OverTreatBudget = !s.UnknownWeight && s.TreatCalories > s.TreatBudget
	if target > 0 {
		s.PercentOfTarget = round1(s.ConsumedCalories / target * 100)
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package roadmap

import "time"

// AgeRange bounds a stage in weeks since birth. A nil Max is open-ended.
type AgeRange struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

type Stage struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AgeRange    AgeRange `json:"age_range_weeks"`
	Topics      []string `json:"topics"`
}

type StageStatus struct {
	Stage    Stage `json:"stage"`
	Unlocked bool  `json:"unlocked"`
	Active   bool  `json:"active"`
}

// AgeInWeeks returns whole weeks between birthDate and now. A missing or future birth date is 0.
func AgeInWeeks(birthDate *time.Time, now time.Time) int {
	if birthDate == nil {
		return 0
	}
	d := now.Sub(*birthDate)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24 / 7)
}

// Evaluate gates every stage on age alone. The first stage is always unlocked and is active
// only at age 0; stages do not depend on each other.
func Evaluate(ageWeeks int, stages []Stage) []StageStatus {
	if ageWeeks < 0 {
		ageWeeks = 0
	}
	out := make([]StageStatus, len(stages))
	for i, st := range stages {
		out[i].Stage = st
		if i == 0 {
			out[i].Unlocked = true
			out[i].Active = ageWeeks == 0
			continue
		}
		out[i].Unlocked = ageWeeks >= st.AgeRange.Min
		out[i].Active = out[i].Unlocked && (st.AgeRange.Max == nil || ageWeeks <= *st.AgeRange.Max)
	}
	return out
}

// ActiveStage returns the first active stage, if any.
func ActiveStage(statuses []StageStatus) (Stage, bool) {
	for _, s := range statuses {
		if s.Active {
			return s.Stage, true
		}
	}
	return Stage{}, false
}

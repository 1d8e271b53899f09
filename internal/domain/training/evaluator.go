package training

// SuccessRateThreshold is the minimum average success rate (inclusive) needed to level up.
const SuccessRateThreshold = 70.0

// Evaluation reports whether a dog-skill may advance to the next level.
type Evaluation struct {
	CurrentLevel       ProficiencyLevel  `json:"current_level"`
	NextLevel          *ProficiencyLevel `json:"next_level"`
	NextRequirement    *Requirement      `json:"next_requirement"`
	SessionCount       int               `json:"session_count"`
	DistinctContexts   []PracticeContext `json:"distinct_contexts"`
	AverageSuccessRate float64           `json:"average_success_rate"`
	MissingContexts    []PracticeContext `json:"missing_contexts"`
	SessionsRemaining  int               `json:"sessions_remaining"`
	Eligible           bool              `json:"eligible"`
}

// Evaluate checks sessions against the requirement for the level above current.
// It is a pure function of its inputs and never changes the stored level.
func Evaluate(current ProficiencyLevel, sessions []Session, reqs RequirementSet) Evaluation {
	ev := Evaluation{
		CurrentLevel:     current,
		SessionCount:     len(sessions),
		DistinctContexts: []PracticeContext{},
		MissingContexts:  []PracticeContext{},
	}

	seen := make(map[PracticeContext]struct{}, len(sessions))
	var total float64
	for _, s := range sessions {
		total += s.SuccessRate
		if _, ok := seen[s.Context]; !ok {
			seen[s.Context] = struct{}{}
			ev.DistinctContexts = append(ev.DistinctContexts, s.Context)
		}
	}
	if len(sessions) > 0 {
		ev.AverageSuccessRate = total / float64(len(sessions))
	}

	next, ok := current.Next()
	if !ok {
		return ev
	}
	ev.NextLevel = &next

	req, ok := reqs[next]
	if !ok {
		return ev
	}
	ev.NextRequirement = &req

	checked := make(map[PracticeContext]struct{}, len(req.RequiredContexts))
	for _, c := range req.RequiredContexts {
		if _, dup := checked[c]; dup {
			continue
		}
		checked[c] = struct{}{}
		if _, ok := seen[c]; !ok {
			ev.MissingContexts = append(ev.MissingContexts, c)
		}
	}
	if remaining := req.MinSessions - ev.SessionCount; remaining > 0 {
		ev.SessionsRemaining = remaining
	}

	ev.Eligible = ev.SessionCount >= req.MinSessions &&
		len(ev.MissingContexts) == 0 &&
		ev.AverageSuccessRate >= SuccessRateThreshold
	return ev
}

package roadmap

import "slices"

func weeks(n int) *int { return &n }

var defaultStages = []Stage{
	{
		ID:          "arrival",
		Title:       "Getting ready",
		Description: "Prepare the home, pick a vet and plan the first days before the puppy arrives.",
		AgeRange:    AgeRange{Min: 0, Max: weeks(0)},
		Topics:      []string{"puppy_proofing", "vet_selection", "crate_setup", "supplies"},
	},
	{
		ID:          "socialization",
		Title:       "Socialization window",
		Description: "Gentle exposure to people, sounds and surfaces while the puppy is most receptive.",
		AgeRange:    AgeRange{Min: 1, Max: weeks(16)},
		Topics:      []string{"name_recognition", "sit", "crate_training", "house_training", "handling"},
	},
	{
		ID:          "junior",
		Title:       "Junior foundations",
		Description: "Build reliable basics and start short sessions in new places.",
		AgeRange:    AgeRange{Min: 17, Max: weeks(26)},
		Topics:      []string{"down", "stay", "recall", "loose_leash_walking"},
	},
	{
		ID:          "adolescence",
		Title:       "Adolescence",
		Description: "Proof behaviours against distractions while hormones test every rule.",
		AgeRange:    AgeRange{Min: 27, Max: weeks(52)},
		Topics:      []string{"recall", "leave_it", "impulse_control", "stay"},
	},
	{
		ID:          "young_adult",
		Title:       "Young adult",
		Description: "Generalize skills everywhere and pick a sport or job.",
		AgeRange:    AgeRange{Min: 53, Max: weeks(104)},
		Topics:      []string{"off_leash_recall", "place", "canine_good_citizen"},
	},
	{
		ID:          "adult",
		Title:       "Adult maintenance",
		Description: "Keep skills sharp with regular practice and enrichment.",
		AgeRange:    AgeRange{Min: 105},
		Topics:      []string{"enrichment", "tricks", "maintenance_training"},
	},
}

// DefaultStages returns a deep copy of the built-in roadmap.
func DefaultStages() []Stage {
	out := make([]Stage, len(defaultStages))
	for i, st := range defaultStages {
		out[i] = st
		if st.AgeRange.Max != nil {
			upper := *st.AgeRange.Max
			out[i].AgeRange.Max = &upper
		}
		out[i].Topics = slices.Clone(st.Topics)
	}
	return out
}

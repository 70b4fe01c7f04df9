package models

// ExplicitPreference holds the attributes an adopter declared on their profile
type ExplicitPreference struct {
	UserID              string   `dynamodbav:"userId" json:"user_id"`
	Species             []string `dynamodbav:"species,omitempty" json:"species,omitempty"`
	Sizes               []string `dynamodbav:"sizes,omitempty" json:"sizes,omitempty"`
	AgeClasses          []string `dynamodbav:"ageClasses,omitempty" json:"age_classes,omitempty"`
	Sexes               []string `dynamodbav:"sexes,omitempty" json:"sexes,omitempty"`
	CompatibilityTags   []string `dynamodbav:"compatibilityTags,omitempty" json:"compatibility_tags,omitempty"`
	HealthTags          []string `dynamodbav:"healthTags,omitempty" json:"health_tags,omitempty"`
	AcceptsSpecialNeeds bool     `dynamodbav:"acceptsSpecialNeeds" json:"accepts_special_needs"`
}

// PreferencesTable is the DynamoDB table name for explicit preferences
const PreferencesTable = "Preferences"

// HasSignal reports whether at least one set-valued field is populated.
// AcceptsSpecialNeeds alone is not a signal.
func (p *ExplicitPreference) HasSignal() bool {
	if p == nil {
		return false
	}
	return len(p.Species) > 0 ||
		len(p.Sizes) > 0 ||
		len(p.AgeClasses) > 0 ||
		len(p.Sexes) > 0 ||
		len(p.CompatibilityTags) > 0 ||
		len(p.HealthTags) > 0
}

// ImplicitPreference is the like-frequency distribution derived from a user's history.
// It is computed per request and never stored.
type ImplicitPreference struct {
	Species           map[string]int `json:"species"`
	Sizes             map[string]int `json:"sizes"`
	AgeClasses        map[string]int `json:"age_classes"`
	Sexes             map[string]int `json:"sexes"`
	CompatibilityTags map[string]int `json:"compatibility_tags"`
	HealthTags        map[string]int `json:"health_tags"`
	TotalLikes        int            `json:"total_likes"`
}

// NewImplicitPreference returns an empty distribution
func NewImplicitPreference() *ImplicitPreference {
	return &ImplicitPreference{
		Species:           map[string]int{},
		Sizes:             map[string]int{},
		AgeClasses:        map[string]int{},
		Sexes:             map[string]int{},
		CompatibilityTags: map[string]int{},
		HealthTags:        map[string]int{},
	}
}

// Add counts one liked candidate into the distribution
func (p *ImplicitPreference) Add(c *Candidate) {
	p.Species[c.SpeciesOrUnknown()]++
	p.Sizes[c.SizeOrUnknown()]++
	p.AgeClasses[c.AgeClassOrUnknown()]++
	p.Sexes[c.SexOrUnknown()]++
	for _, tag := range c.CompatibilityTags {
		p.CompatibilityTags[tag]++
	}
	for _, tag := range c.HealthTags {
		p.HealthTags[tag]++
	}
	p.TotalLikes++
}

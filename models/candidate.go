package models

import "time"

// Candidate is an adoptable animal listed by an owning party (shelter or individual).
// Categorical attributes left empty are read as UnknownValue.
type Candidate struct {
	ID                string    `dynamodbav:"id" json:"id"`
	Name              string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Description       string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Species           string    `dynamodbav:"species,omitempty" json:"species,omitempty"`
	Size              string    `dynamodbav:"size,omitempty" json:"size,omitempty"`
	AgeClass          string    `dynamodbav:"ageClass,omitempty" json:"age_class,omitempty"`
	Sex               string    `dynamodbav:"sex,omitempty" json:"sex,omitempty"`
	CompatibilityTags []string  `dynamodbav:"compatibilityTags,omitempty" json:"compatibility_tags,omitempty"`
	HealthTags        []string  `dynamodbav:"healthTags,omitempty" json:"health_tags,omitempty"`
	SpecialConditions []string  `dynamodbav:"specialConditions,omitempty" json:"special_conditions,omitempty"`
	PhotoKeys         []string  `dynamodbav:"photoKeys,omitempty" json:"photo_keys,omitempty"`
	Adopted           bool      `dynamodbav:"adopted" json:"adopted"`
	Hidden            bool      `dynamodbav:"hidden" json:"hidden"`
	OwnerID           string    `dynamodbav:"ownerId,omitempty" json:"owner_id,omitempty"`
	CreatedAt         time.Time `dynamodbav:"createdAt" json:"created_at"`
}

// CandidatesTable is the DynamoDB table name for candidates
const CandidatesTable = "Candidates"

// Available reports whether the candidate can be shown to adopters at all
func (c *Candidate) Available() bool {
	return !c.Adopted && !c.Hidden
}

// HasSpecialCondition reports whether any special care condition is flagged
func (c *Candidate) HasSpecialCondition() bool {
	return len(c.SpecialConditions) > 0
}

// SpeciesOrUnknown returns the species, or UnknownValue when unset
func (c *Candidate) SpeciesOrUnknown() string { return orUnknown(c.Species) }

// SizeOrUnknown returns the size class, or UnknownValue when unset
func (c *Candidate) SizeOrUnknown() string { return orUnknown(c.Size) }

// AgeClassOrUnknown returns the age class, or UnknownValue when unset
func (c *Candidate) AgeClassOrUnknown() string { return orUnknown(c.AgeClass) }

// SexOrUnknown returns the sex, or UnknownValue when unset
func (c *Candidate) SexOrUnknown() string { return orUnknown(c.Sex) }

func orUnknown(v string) string {
	if v == "" {
		return UnknownValue
	}
	return v
}

// CandidateCard is the serialized form of a candidate served to adopters
type CandidateCard struct {
	Candidate
	Photos []string `json:"photos"`
}

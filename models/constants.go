package models

// Judgment outcomes
const (
	OutcomeLike    = "like"
	OutcomeDislike = "dislike"
)

// UnknownValue buckets a categorical attribute the candidate does not carry
const UnknownValue = "UNKNOWN"

// Species
const (
	SpeciesDog = "DOG"
	SpeciesCat = "CAT"
)

// Size classes
const (
	SizeSmall  = "SMALL"
	SizeMedium = "MEDIUM"
	SizeLarge  = "LARGE"
	SizeGiant  = "GIANT"
)

// Age classes
const (
	AgeUnder1 = "UNDER_1"
	Age1To2   = "1_2"
	Age3To6   = "3_6"
	Age7To10  = "7_10"
	Age11To14 = "11_14"
	Age15Plus = "15_PLUS"
)

// Sexes
const (
	SexMale   = "MALE"
	SexFemale = "FEMALE"
)

// Compatibility tags
const (
	CompatChildren         = "CHILDREN"
	CompatAdultsOnly       = "ADULTS_ONLY"
	CompatDogs             = "DOGS"
	CompatCats             = "CATS"
	CompatOnlyPet          = "ONLY_PET"
	CompatNeedsCompanion   = "NEEDS_COMPANION"
	CompatFirstTimeOwners  = "FIRST_TIME_OWNERS"
	CompatExperiencedOwner = "EXPERIENCED_OWNERS"
	CompatPPPLicense       = "PPP_LICENSE"
)

// Health and legal status tags
const (
	HealthDewormed     = "DEWORMED"
	HealthSterilized   = "STERILIZED"
	HealthVaccinated   = "VACCINATED"
	HealthMicrochipped = "MICROCHIPPED"
)

// IsValidOutcome reports whether outcome is one of the two judgment outcomes
func IsValidOutcome(outcome string) bool {
	return outcome == OutcomeLike || outcome == OutcomeDislike
}

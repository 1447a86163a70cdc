package domain

import "strings"

// Gender is the target audience of a perfume and, on surveys, the
// preference a user picked. Unrecognized values map to GenderUnknown so
// callers can route them explicitly instead of comparing raw strings.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnisex  Gender = "unisex"
	GenderUnknown Gender = "unknown"
)

func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	case "unisex":
		return GenderUnisex
	default:
		return GenderUnknown
	}
}

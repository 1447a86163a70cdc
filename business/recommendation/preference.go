package recommendation

import (
	"sille/domain"
	"sille/pkg/logger"
)

const (
	surveyRatingMin = 0
	surveyRatingMax = 5
	// survey ratings are centered so the midpoint of the 0-5 scale
	// becomes neutral 0
	surveyRatingMidpoint = 2.5
)

// BuildPreference turns a survey payload into a preference vector aligned
// with the vocabulary, plus the user's gender preference. Each rated
// accord is centered (value - 2.5); the -1 "don't know" sentinel, invalid
// values and un-surveyed accords all stay 0 (neutral). ok is false only
// when the gender key is missing or blank, since the gender filter cannot
// run without it.
func BuildPreference(survey map[string]any, vocabulary []string) ([]float64, domain.Gender, bool) {
	if survey == nil {
		return nil, domain.GenderUnknown, false
	}

	rawGender, exists := survey[domain.SurveyGenderKey]
	genderStr, _ := rawGender.(string)
	if !exists || genderStr == "" {
		return nil, domain.GenderUnknown, false
	}
	gender := domain.ParseGender(genderStr)

	// normalize survey keys once so lookups match vocabulary casing
	ratings := make(map[string]any, len(survey))
	for key, value := range survey {
		if key == domain.SurveyGenderKey {
			continue
		}
		ratings[normalizeAccordName(key)] = value
	}

	vector := make([]float64, len(vocabulary))
	for i, accord := range vocabulary {
		raw, ok := ratings[accord]
		if !ok {
			continue
		}

		rating, ok := numericValue(raw)
		if !ok {
			logger.Debug("non-numeric survey rating, using neutral",
				"accord", accord, "value", raw)
			continue
		}
		if rating == domain.SurveyUnknownRating {
			continue
		}
		if rating < surveyRatingMin || rating > surveyRatingMax {
			logger.Debug("out-of-range survey rating, using neutral",
				"accord", accord, "value", rating)
			continue
		}

		vector[i] = rating - surveyRatingMidpoint
	}

	return vector, gender, true
}

// numericValue tolerates the numeric types a jsonb payload can surface.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

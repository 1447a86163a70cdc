package recommendation

import "time"

type Config struct {
	// Alpha scales the popularity boost added on top of accord similarity.
	Alpha float64

	// Independent expiries per cached artifact. The vocabulary barely
	// changes, the matrix follows catalog edits, user vectors are stable
	// once a survey is in, and final lists go stale the fastest.
	VocabularyTTL time.Duration
	MatrixTTL     time.Duration
	PreferenceTTL time.Duration
	ResultTTL     time.Duration
}

const (
	defaultAlpha         = 0.7
	defaultVocabularyTTL = 7 * 24 * time.Hour
	defaultMatrixTTL     = 6 * time.Hour
	defaultPreferenceTTL = 30 * 24 * time.Hour
	defaultResultTTL     = 1 * time.Hour
)

func DefaultConfig() Config {
	return Config{
		Alpha:         defaultAlpha,
		VocabularyTTL: defaultVocabularyTTL,
		MatrixTTL:     defaultMatrixTTL,
		PreferenceTTL: defaultPreferenceTTL,
		ResultTTL:     defaultResultTTL,
	}
}

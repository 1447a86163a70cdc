package occasion

import (
	"sort"
	"strings"

	"sille/domain"
)

const (
	defaultMinOccasions   = 1
	defaultMaxOccasions   = 3
	defaultScoreThreshold = 4.0

	// backfill accepts occasions down to this fraction of the threshold
	// when the primary pass selected too few
	backfillFactor = 0.6

	// Travel requires the third-best occasion score to reach this
	// fraction of the best, i.e. no single occasion dominates
	travelBalanceRatio = 0.5
)

// Classifier assigns occasion labels to a perfume from its ordered
// accords using the static weight tables.
type Classifier struct {
	MinOccasions   int
	MaxOccasions   int
	ScoreThreshold float64
}

func NewClassifier() *Classifier {
	return &Classifier{
		MinOccasions:   defaultMinOccasions,
		MaxOccasions:   defaultMaxOccasions,
		ScoreThreshold: defaultScoreThreshold,
	}
}

type scoredOccasion struct {
	name  string
	score float64
}

// Classify maps ranked accords (rank 0 = most predominant, callers pass
// the top few) to between MinOccasions and MaxOccasions labels. Perfumes
// with no accords, and accord sets matching nothing even at the backfill
// threshold, default to Casual.
func (c *Classifier) Classify(accords []domain.RankedAccord) []string {
	if len(accords) == 0 {
		return []string{LabelCasual}
	}

	ranked := c.scoreOccasions(accords)

	selected := make([]string, 0, c.MaxOccasions)
	for _, so := range ranked {
		if so.score >= c.ScoreThreshold && len(selected) < c.MaxOccasions {
			selected = append(selected, so.name)
		}
	}

	// backfill from the ranked list at a lower bar until the minimum is
	// met or candidates run out
	if len(selected) < c.MinOccasions {
		lower := c.ScoreThreshold * backfillFactor
		for _, so := range ranked {
			if len(selected) >= c.MinOccasions {
				break
			}
			if so.score < lower || contains(selected, so.name) {
				continue
			}
			selected = append(selected, so.name)
		}
	}

	if len(selected) == 0 {
		selected = []string{LabelCasual}
	}

	if len(selected) < c.MaxOccasions && c.travelSuitable(accords, ranked, selected) {
		selected = append(selected, LabelTravel)
	}

	return selected
}

// scoreOccasions accumulates base_weight * position_weight per occasion
// and returns them sorted by score descending. Equal scores keep the
// occasion table's order (sort is stable over the table-ordered slice).
func (c *Classifier) scoreOccasions(accords []domain.RankedAccord) []scoredOccasion {
	scores := make([]scoredOccasion, 0, len(occasionTable))

	for _, entry := range occasionTable {
		total := 0.0
		for _, ra := range accords {
			weight, ok := entry.accords[strings.ToLower(ra.Name)]
			if !ok {
				continue
			}
			total += weight * positionWeight(ra.Rank)
		}
		if total > 0 {
			scores = append(scores, scoredOccasion{name: entry.name, score: total})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	return scores
}

// positionWeight decays an accord's influence by predominance rank:
// rank 0 -> 3, rank 1 -> 2, everything deeper -> 1.
func positionWeight(rank int) float64 {
	w := 3 - rank
	if w < 1 {
		w = 1
	}
	return float64(w)
}

// travelSuitable is the conjunctive gate for the Travel overlay: at least
// two occasions already selected, two of the top-three accords versatile,
// the top accord not polarizing, and balanced occasion scores.
func (c *Classifier) travelSuitable(accords []domain.RankedAccord, ranked []scoredOccasion, selected []string) bool {
	if len(accords) == 0 || len(selected) < 2 {
		return false
	}

	if _, polarizing := polarizingAccords[strings.ToLower(accords[0].Name)]; polarizing {
		return false
	}

	versatile := 0
	for i, ra := range accords {
		if i >= 3 {
			break
		}
		if _, ok := versatileAccords[strings.ToLower(ra.Name)]; ok {
			versatile++
		}
	}
	if versatile < 2 {
		return false
	}

	if len(ranked) < 3 {
		return false
	}
	top := ranked[0].score
	if top <= 0 {
		return false
	}
	return ranked[2].score/top >= travelBalanceRatio
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package occasion

// Occasion label names. Travel is never scored through the table; it is
// appended by the versatility overlay in the classifier.
const (
	LabelSport   = "Sport"
	LabelOffice  = "Office"
	LabelCasual  = "Casual"
	LabelParty   = "Party"
	LabelSexy    = "Sexy"
	LabelFormal  = "Formal"
	LabelSpecial = "Special"
	LabelTravel  = "Travel"
)

type occasionWeights struct {
	name    string
	accords map[string]float64
}

// occasionTable maps each occasion to its accord base weights. Slice
// order is the tie-break for equal scores, so the order here is part of
// the contract.
var occasionTable = []occasionWeights{
	{
		// fresh, clean, energetic
		name: LabelSport,
		accords: map[string]float64{
			"fresh":    3.0,
			"citrus":   3.0,
			"aquatic":  3.0,
			"aromatic": 2.5,
			"green":    2.5,
			"herbal":   2.5,
			"marine":   3.0,
			"ozonic":   2.5,
			"fruity":   1.5,
			"woody":    1.0,
		},
	},
	{
		// professional, clean, not overpowering
		name: LabelOffice,
		accords: map[string]float64{
			"powdery":     3.0,
			"woody":       2.5,
			"iris":        2.5,
			"soft spicy":  2.5,
			"musky":       2.0,
			"fresh spicy": 2.0,
			"fresh":       2.0,
			"aromatic":    2.0,
			"citrus":      1.5,
			"amber":       1.5,
			"floral":      1.5,
			"violet":      2.0,
		},
	},
	{
		// easy-going, versatile, everyday
		name: LabelCasual,
		accords: map[string]float64{
			"fruity":   3.0,
			"sweet":    2.5,
			"vanilla":  2.5,
			"citrus":   2.5,
			"fresh":    2.5,
			"aromatic": 2.0,
			"floral":   2.0,
			"green":    2.0,
			"lavender": 2.0,
			"coconut":  2.5,
		},
	},
	{
		// sweet, gourmand, festive
		name: LabelParty,
		accords: map[string]float64{
			"sweet":      3.0,
			"fruity":     2.5,
			"caramel":    3.0,
			"cacao":      3.0,
			"rum":        3.0,
			"warm spicy": 2.5,
			"amber":      2.0,
			"vanilla":    2.5,
			"chocolate":  3.0,
			"coffee":     2.5,
			"honey":      2.5,
			"almond":     2.5,
		},
	},
	{
		// intense, warm, sensual
		name: LabelSexy,
		accords: map[string]float64{
			"animalic":   3.0,
			"leather":    3.0,
			"oud":        2.5,
			"amber":      2.5,
			"warm spicy": 2.5,
			"musky":      2.5,
			"sweet":      2.0,
			"vanilla":    2.0,
			"oriental":   2.5,
			"spicy":      2.5,
			"smoky":      2.0,
			"patchouli":  2.0,
		},
	},
	{
		// sophisticated, elegant, refined
		name: LabelFormal,
		accords: map[string]float64{
			"woody":   3.0,
			"oud":     3.0,
			"leather": 2.5,
			"powdery": 2.5,
			"iris":    3.0,
			"smoky":   2.5,
			"tobacco": 3.0,
			"amber":   2.0,
			"rose":    2.0,
			"incense": 2.5,
			"vetiver": 2.5,
			"cedar":   2.5,
		},
	},
	{
		// unique, floral, distinctive
		name: LabelSpecial,
		accords: map[string]float64{
			"rose":           3.0,
			"white floral":   3.0,
			"iris":           2.5,
			"violet":         2.5,
			"jasmine":        3.0,
			"tuberose":       3.0,
			"ylang-ylang":    2.5,
			"narcissus":      2.5,
			"orange blossom": 2.5,
			"orchid":         2.5,
			"gardenia":       2.5,
		},
	},
}

// versatileAccords qualify a perfume for the Travel overlay when at least
// two sit in its top three accords.
var versatileAccords = map[string]struct{}{
	"fresh":    {},
	"citrus":   {},
	"aromatic": {},
	"woody":    {},
}

// polarizingAccords veto Travel when one is the top-ranked accord.
var polarizingAccords = map[string]struct{}{
	"oud":      {},
	"leather":  {},
	"animalic": {},
	"tobacco":  {},
	"smoky":    {},
}

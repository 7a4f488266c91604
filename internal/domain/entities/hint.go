package entities

// HintCategory identifies what kind of clue a hint reveals.
type HintCategory string

const (
	HintFlag      HintCategory = "flag"
	HintContinent HintCategory = "continent"
	HintNeighbors HintCategory = "neighbors"
	HintLanguage  HintCategory = "language"
)

// HintCategories lists every category in display order.
var HintCategories = []HintCategory{HintFlag, HintContinent, HintNeighbors, HintLanguage}

// Hint is a revealed clue for the active question.
type Hint struct {
	Category HintCategory `json:"category"`
	Text     string       `json:"text"`
	ImageURL string       `json:"imageUrl,omitempty"` // only set for flag hints
}

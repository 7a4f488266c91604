package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

// HintCandidates lists the categories the landmark has data for, minus those already shown.
func HintCandidates(l *entities.Landmark, shown map[entities.HintCategory]struct{}) []entities.HintCategory {
	if l == nil {
		return nil
	}

	out := make([]entities.HintCategory, 0, len(entities.HintCategories))
	for _, c := range entities.HintCategories {
		if _, ok := shown[c]; ok {
			continue
		}
		if available(l, c) {
			out = append(out, c)
		}
	}
	return out
}

// PickHint chooses one candidate category uniformly at random and renders it.
func PickHint(l *entities.Landmark, shown map[entities.HintCategory]struct{}, rng *rand.Rand) (entities.Hint, bool) {
	candidates := HintCandidates(l, shown)
	if len(candidates) == 0 {
		return entities.Hint{}, false
	}
	return RenderHint(l, candidates[rng.Intn(len(candidates))]), true
}

// RenderHint builds the clue text for a category.
func RenderHint(l *entities.Landmark, c entities.HintCategory) entities.Hint {
	h := entities.Hint{Category: c}

	switch c {
	case entities.HintFlag:
		h.Text = "This is the country's flag."
		h.ImageURL = fmt.Sprintf(flagImageURL, strings.ToLower(strings.TrimSpace(l.CountryCode)))
	case entities.HintContinent:
		h.Text = fmt.Sprintf("This country is in %s.", l.Continent)
	case entities.HintNeighbors:
		h.Text = fmt.Sprintf("This country borders %s.", joinList(nonEmpty(l.Neighbors)))
	case entities.HintLanguage:
		h.Text = fmt.Sprintf("People here speak %s.", joinList(nonEmpty(l.Languages)))
	}

	return h
}

func available(l *entities.Landmark, c entities.HintCategory) bool {
	switch c {
	case entities.HintFlag:
		return strings.TrimSpace(l.CountryCode) != ""
	case entities.HintContinent:
		return strings.TrimSpace(l.Continent) != ""
	case entities.HintNeighbors:
		return len(nonEmpty(l.Neighbors)) > 0
	case entities.HintLanguage:
		return len(nonEmpty(l.Languages)) > 0
	}
	return false
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

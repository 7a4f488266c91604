package quiz

import (
	"math/rand"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

func TestHintCandidates(t *testing.T) {
	full := &entities.Landmark{
		CountryCode: "FR",
		Continent:   "Europe",
		Neighbors:   []string{"Spain"},
		Languages:   []string{"French"},
	}

	tests := []struct {
		name     string
		landmark *entities.Landmark
		shown    map[entities.HintCategory]struct{}
		want     []entities.HintCategory
	}{
		{"all available", full, nil, entities.HintCategories},
		{
			"shown excluded", full,
			map[entities.HintCategory]struct{}{entities.HintFlag: {}, entities.HintLanguage: {}},
			[]entities.HintCategory{entities.HintContinent, entities.HintNeighbors},
		},
		{"only continent", &entities.Landmark{Continent: "Asia"}, nil, []entities.HintCategory{entities.HintContinent}},
		{"blank fields", &entities.Landmark{CountryCode: " ", Neighbors: []string{""}, Languages: []string{}}, nil, []entities.HintCategory{}},
		{"nil landmark", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.DeepEqual(t, HintCandidates(tt.landmark, tt.shown), tt.want)
		})
	}
}

func TestRenderHint(t *testing.T) {
	l := &entities.Landmark{
		CountryCode: "FR",
		Continent:   "Europe",
		Neighbors:   []string{"Spain", "Belgium", "Germany"},
		Languages:   []string{"French"},
	}

	flag := RenderHint(l, entities.HintFlag)
	assert.Equal(t, flag.Text, "This is the country's flag.")
	assert.Equal(t, flag.ImageURL, "https://flagcdn.com/w160/fr.png")

	assert.Equal(t, RenderHint(l, entities.HintContinent).Text, "This country is in Europe.")
	assert.Equal(t, RenderHint(l, entities.HintNeighbors).Text, "This country borders Spain, Belgium and Germany.")
	assert.Equal(t, RenderHint(l, entities.HintLanguage).Text, "People here speak French.")
	assert.Equal(t, RenderHint(l, entities.HintLanguage).ImageURL, "")
}

func TestPickHint(t *testing.T) {
	l := &entities.Landmark{Continent: "Oceania", Languages: []string{"English", "Maori"}}
	rng := rand.New(rand.NewSource(5))

	counts := map[entities.HintCategory]int{}
	for i := 0; i < 1000; i++ {
		h, ok := PickHint(l, nil, rng)
		assert.Assert(t, ok)
		counts[h.Category]++
	}
	assert.Equal(t, len(counts), 2)
	assert.Assert(t, counts[entities.HintContinent] > 400)
	assert.Assert(t, counts[entities.HintLanguage] > 400)

	_, ok := PickHint(l, map[entities.HintCategory]struct{}{
		entities.HintContinent: {},
		entities.HintLanguage:  {},
	}, rng)
	assert.Assert(t, !ok)
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, joinList(nil), "")
	assert.Equal(t, joinList([]string{"a"}), "a")
	assert.Equal(t, joinList([]string{"a", "b"}), "a and b")
	assert.Equal(t, joinList([]string{"a", "b", "c"}), "a, b and c")
}

package service

import (
	"math/rand"
	"strings"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

// DefaultOptionCount is the number of answer options offered per question.
const DefaultOptionCount = 4

// OptionGenerator builds multiple choice country options for clients without a map.
type OptionGenerator struct {
	countries []string
	count     int
}

// NewOptionGenerator collects the distinct countries of the dataset.
func NewOptionGenerator(landmarks []entities.Landmark, count int) *OptionGenerator {
	if count <= 0 {
		count = DefaultOptionCount
	}

	seen := make(map[string]struct{}, len(landmarks))
	countries := make([]string, 0, len(landmarks))
	for _, l := range landmarks {
		name := strings.TrimSpace(l.Country)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		countries = append(countries, name)
	}

	return &OptionGenerator{countries: countries, count: count}
}

// GenerateOptions returns up to count countries including the correct one. The
// result depends only on the question and the game generation, so re-rendering the
// same question keeps the options in place. Neighbours of the correct country are
// preferred as wrong options; revealed countries are never offered.
func (g *OptionGenerator) GenerateOptions(snap entities.Snapshot) []string {
	q := snap.Question
	if q == nil || snap.Phase != entities.PhasePlaying {
		return nil
	}

	rng := rand.New(rand.NewSource(int64(q.ID)*1_000_003 + int64(snap.Generation)))

	excluded := make(map[string]struct{}, len(snap.RevealedCountries)+1)
	excluded[strings.ToLower(q.Country)] = struct{}{}
	for _, c := range snap.RevealedCountries {
		excluded[strings.ToLower(c)] = struct{}{}
	}

	wrong := g.pickWrong(q.Neighbors, excluded, g.count-1, rng)
	if len(wrong) < g.count-1 {
		wrong = append(wrong, g.pickWrong(g.countries, excluded, g.count-1-len(wrong), rng)...)
	}

	options := append(wrong, q.Country)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// pickWrong draws up to n candidates not in excluded and marks them as used.
func (g *OptionGenerator) pickWrong(candidates []string, excluded map[string]struct{}, n int, rng *rand.Rand) []string {
	if n <= 0 {
		return nil
	}

	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := excluded[strings.ToLower(c)]; !skip {
			pool = append(pool, c)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	out := make([]string, 0, n)
	for _, c := range pool {
		if len(out) == n {
			break
		}
		key := strings.ToLower(c)
		if _, skip := excluded[key]; skip {
			continue
		}
		excluded[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/repository"
)

// MemoryResults keeps finished games in process memory.
type MemoryResults struct {
	mu      sync.RWMutex
	results []entities.GameResult
	stats   map[string]*entities.PlayerStats
}

func NewMemoryResults() *MemoryResults {
	return &MemoryResults{
		stats: make(map[string]*entities.PlayerStats),
	}
}

func (s *MemoryResults) Save(_ context.Context, r *entities.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, *r)

	st, ok := s.stats[r.PlayerID]
	if !ok {
		st = &entities.PlayerStats{PlayerID: r.PlayerID}
		s.stats[r.PlayerID] = st
	}
	st.Apply(*r)

	return nil
}

func (s *MemoryResults) Stats(_ context.Context, playerID string) (*entities.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[playerID]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	cp := *st
	return &cp, nil
}

// Top ranks players by best score. Ties keep the player who reached it first.
func (s *MemoryResults) Top(_ context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	firstBest := make(map[string]int, len(s.stats))
	for i, r := range s.results {
		if st := s.stats[r.PlayerID]; st != nil && r.Score == st.BestScore {
			if _, ok := firstBest[r.PlayerID]; !ok {
				firstBest[r.PlayerID] = i
			}
		}
	}

	all := make([]*entities.PlayerStats, 0, len(s.stats))
	for _, st := range s.stats {
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].BestScore != all[j].BestScore {
			return all[i].BestScore > all[j].BestScore
		}
		return firstBest[all[i].PlayerID] < firstBest[all[j].PlayerID]
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]entities.LeaderboardEntry, len(all))
	for i, st := range all {
		out[i] = entities.LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   st.PlayerID,
			PlayerName: st.PlayerName,
			BestScore:  st.BestScore,
		}
	}
	return out, nil
}

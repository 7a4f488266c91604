package entities

import "time"

// GameResult is a finished game as recorded for the leaderboard.
type GameResult struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"playerId"`
	PlayerName   string    `json:"playerName"`
	Score        int       `json:"score"`
	LevelReached int       `json:"levelReached"` // one-based
	LevelName    string    `json:"levelName"`
	Answered     int       `json:"answered"` // questions presented before the game ended
	FinishedAt   time.Time `json:"finishedAt"`
}

// PlayerStats aggregates all recorded games of one player.
type PlayerStats struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	GamesPlayed int    `json:"gamesPlayed"`
	TotalScore  int    `json:"totalScore"`
	BestScore   int    `json:"bestScore"`
}

// Apply folds a finished game into the stats.
func (s *PlayerStats) Apply(r GameResult) {
	s.GamesPlayed++
	s.TotalScore += r.Score
	if r.Score > s.BestScore {
		s.BestScore = r.Score
	}
	if r.PlayerName != "" {
		s.PlayerName = r.PlayerName
	}
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	BestScore  int    `json:"bestScore"`
}

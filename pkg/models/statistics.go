package models

// Statistics summarizes the score history
type Statistics struct {
	BestScore            float64 `json:"best_score"`
	MeanScore            float64 `json:"mean_score"`
	GamesPlayed          int     `json:"games_played"`
	MaxPerfectStreak     int     `json:"max_perfect_streak"`     // Longest run of 100% scores
	CurrentPerfectStreak int     `json:"current_perfect_streak"` // Run of 100% scores ending with the latest game
}

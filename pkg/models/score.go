package models

import "time"

// ScoreEvent records the result of one graded quiz
type ScoreEvent struct {
	Timestamp      time.Time `json:"timestamp" db:"date"`
	ScorePercent   float64   `json:"score_percent" db:"score_percent"` // 0-100
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
}

// Perfect reports whether every question of the quiz was answered correctly
func (e ScoreEvent) Perfect() bool {
	return e.ScorePercent == 100
}

// Achievement is a milestone unlocked once and never removed
type Achievement struct {
	Name       string    `json:"name" db:"achievement"`
	DateEarned time.Time `json:"date_earned" db:"date_earned"`
}

package score

import (
	"fmt"
	"strings"

	"github.com/example/vocabdiary/pkg/models"
)

// FormatAchievements lists earned achievements with the day they were earned
func FormatAchievements(achievements []models.Achievement) string {
	if len(achievements) == 0 {
		return "No achievements earned yet."
	}
	var b strings.Builder
	b.WriteString("Your Achievements:")
	for _, ach := range achievements {
		fmt.Fprintf(&b, "\n🏆 %s (%s)", ach.Name, ach.DateEarned.Format("2006-01-02"))
	}
	return b.String()
}

// FormatStatistics renders the score statistics
func FormatStatistics(stats models.Statistics) string {
	return fmt.Sprintf("Games played: %d\nBest score: %.1f%%\nAverage score: %.1f%%\nLongest perfect streak: %d\nCurrent perfect streak: %d",
		stats.GamesPlayed, stats.BestScore, stats.MeanScore, stats.MaxPerfectStreak, stats.CurrentPerfectStreak)
}

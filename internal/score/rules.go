package score

import "github.com/example/vocabdiary/pkg/models"

// Achievement names
const (
	AchievementPerfectStreak = "Perfect 5 games in a row!"
	AchievementFirstPerfect  = "First 100% score!"
)

// PerfectStreakLength is the number of consecutive perfect games for the streak achievement
const PerfectStreakLength = 5

// Rule unlocks the named achievement when Met holds for the score history.
// The history is ordered oldest first and includes the event just recorded.
type Rule struct {
	Name string
	Met  func(history []models.ScoreEvent) bool
}

// DefaultRules are evaluated in order after every recorded score
var DefaultRules = []Rule{
	{Name: AchievementPerfectStreak, Met: PerfectStreak(PerfectStreakLength)},
	{Name: AchievementFirstPerfect, Met: LatestPerfect},
}

// PerfectStreak holds when the last n games were all perfect
func PerfectStreak(n int) func([]models.ScoreEvent) bool {
	return func(history []models.ScoreEvent) bool {
		if n <= 0 || len(history) < n {
			return false
		}
		for _, e := range history[len(history)-n:] {
			if !e.Perfect() {
				return false
			}
		}
		return true
	}
}

// LatestPerfect holds when the most recent game was perfect
func LatestPerfect(history []models.ScoreEvent) bool {
	return len(history) > 0 && history[len(history)-1].Perfect()
}

package progression

import (
	"math"

	"github.com/teachquest/backend/internal/models"
)

// Levels is the static level table, ordered ascending by MinXP. Level 1 starts
// at 0 and MinXP is strictly increasing; reaching a threshold exactly counts
// as reaching that level.
var Levels = []models.LevelDefinition{
	{Level: 1, Name: "Code Cadet", MinXP: 0, Icon: "🌱"},
	{Level: 2, Name: "Bug Hunter", MinXP: 100, Icon: "🐛"},
	{Level: 3, Name: "Digital Creator", MinXP: 225, Icon: "🎨"},
	{Level: 4, Name: "Tech Explorer", MinXP: 400, Icon: "🧭"},
	{Level: 5, Name: "Code Master", MinXP: 650, Icon: "⚡"},
	{Level: 6, Name: "Innovation Guru", MinXP: 975, Icon: "💡"},
	{Level: 7, Name: "Digital Mentor", MinXP: 1400, Icon: "🎓"},
	{Level: 8, Name: "Tech Visionary", MinXP: 2000, Icon: "🚀"},
}

// LevelInfo is the resolver output: the current level, the next one (nil at
// the terminal level) and the rounded progress percentage toward it.
type LevelInfo struct {
	Current               models.LevelDefinition
	Next                  *models.LevelDefinition
	ProgressToNextPercent int
}

// ResolveLevel maps a total XP value to its level band. Negative input is a
// caller error and is clamped to 0.
func ResolveLevel(totalXP int64) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	info := LevelInfo{Current: Levels[0]}
	for i := len(Levels) - 1; i >= 0; i-- {
		if totalXP >= Levels[i].MinXP {
			info.Current = Levels[i]
			if i+1 < len(Levels) {
				next := Levels[i+1]
				info.Next = &next
			}
			break
		}
	}

	if info.Next != nil {
		span := info.Next.MinXP - info.Current.MinXP
		info.ProgressToNextPercent = int(math.Round(float64(totalXP-info.Current.MinXP) / float64(span) * 100))
	}

	return info
}

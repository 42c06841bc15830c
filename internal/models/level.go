package models

// LevelDefinition is one row of the static level table. MinXP is the inclusive
// lower bound of the level band; the table is ordered ascending and immutable
// at runtime.
type LevelDefinition struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	MinXP int64  `json:"min_xp"`
	Icon  string `json:"icon"`
}

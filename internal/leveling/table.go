// Package leveling converts accumulated experience points into dashboard levels
// and keeps a stored (total_xp, level) pair consistent when either side changes.
package leveling

import (
	"fmt"
	"sync"
)

// DefaultIncrements is the XP cost of each level-up: L1->2 costs 100, L2->3 costs 125,
// and so on up to L9->10.
var DefaultIncrements = []int{100, 125, 175, 225, 275, 325, 375, 425, 475}

// Table is an immutable cumulative threshold table. thresholds[i] is the minimum
// total XP for level i+1, so thresholds[0] is always 0.
type Table struct {
	thresholds []int
}

// NewTable builds a threshold table from per-level increments.
// Every increment must be positive so the thresholds stay strictly increasing.
func NewTable(increments []int) (*Table, error) {
	if len(increments) == 0 {
		return nil, fmt.Errorf("leveling: at least one increment is required")
	}

	thresholds := make([]int, 1, len(increments)+1)
	for i, inc := range increments {
		if inc <= 0 {
			return nil, fmt.Errorf("leveling: increment %d must be positive, got %d", i, inc)
		}
		thresholds = append(thresholds, thresholds[len(thresholds)-1]+inc)
	}

	return &Table{thresholds: thresholds}, nil
}

// MustTable is like NewTable but panics on invalid increments.
func MustTable(increments []int) *Table {
	t, err := NewTable(increments)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from DefaultIncrements.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = MustTable(DefaultIncrements)
	})
	return defaultTable
}

// MaxLevel is the highest level the table can represent.
func (t *Table) MaxLevel() int {
	return len(t.thresholds)
}

// Thresholds returns a copy of the cumulative thresholds, indexed by level-1.
func (t *Table) Thresholds() []int {
	out := make([]int, len(t.thresholds))
	copy(out, t.thresholds)
	return out
}

// LevelFromXP returns the highest level whose threshold does not exceed xp.
// Negative xp counts as 0 and xp past the last threshold caps at MaxLevel.
func (t *Table) LevelFromXP(xp int) int {
	if xp < 0 {
		xp = 0
	}

	level := 1
	for i := 1; i < len(t.thresholds); i++ {
		if xp < t.thresholds[i] {
			break
		}
		level = i + 1
	}
	return level
}

// MinXPForLevel returns the threshold for level, clamped into [1, MaxLevel].
func (t *Table) MinXPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > t.MaxLevel() {
		level = t.MaxLevel()
	}
	return t.thresholds[level-1]
}

// Progress describes where an XP total sits inside its level.
type Progress struct {
	Level       int  `json:"level"`
	TotalXP     int  `json:"total_xp"`
	LevelFloor  int  `json:"level_floor"`
	XPIntoLevel int  `json:"xp_into_level"`
	XPToNext    int  `json:"xp_to_next"`
	MaxLevel    bool `json:"max_level"`
}

// Progress reports the level for xp along with the distance to the next level.
// XPToNext is 0 once the table's last level is reached.
func (t *Table) Progress(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	level := t.LevelFromXP(xp)
	floor := t.MinXPForLevel(level)

	p := Progress{
		Level:       level,
		TotalXP:     xp,
		LevelFloor:  floor,
		XPIntoLevel: xp - floor,
		MaxLevel:    level == t.MaxLevel(),
	}
	if !p.MaxLevel {
		p.XPToNext = t.thresholds[level] - xp
	}
	return p
}

// LevelFromXP looks up xp in the default table.
func LevelFromXP(xp int) int {
	return Default().LevelFromXP(xp)
}

// MinXPForLevel looks up level in the default table.
func MinXPForLevel(level int) int {
	return Default().MinXPForLevel(level)
}

package leveling

// State is the cached (total_xp, level) pair stored on a dashboard.
type State struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

// Outcome names which reconciliation branch Reconcile took.
type Outcome int

const (
	// Unchanged means neither field moved; the proposal is kept as given.
	Unchanged Outcome = iota
	// Created means there was no persisted state; level was derived from XP.
	Created
	// XPWins means only XP was edited; level was recomputed from it.
	XPWins
	// LevelWins means only level was edited; XP snapped to that level's floor.
	LevelWins
	// Conflict means both fields were edited at once. The proposal is kept
	// as given and callers should surface it rather than guess a winner.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Created:
		return "created"
	case XPWins:
		return "xp_wins"
	case LevelWins:
		return "level_wins"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Consistent reports whether Level is the level derived from TotalXP.
func (t *Table) Consistent(s State) bool {
	return s.Level == t.LevelFromXP(s.TotalXP)
}

// Recompute derives the state from the XP of every achievement on a dashboard.
// It ignores whatever was stored before and is idempotent for the same input.
func (t *Table) Recompute(xps []int) State {
	total := 0
	for _, xp := range xps {
		if xp > 0 {
			total += xp
		}
	}
	return State{TotalXP: total, Level: t.LevelFromXP(total)}
}

// Reconcile resolves a direct edit of a dashboard. old is the persisted state,
// or nil when the dashboard is being created.
func (t *Table) Reconcile(old *State, proposed State) (State, Outcome) {
	if old == nil {
		proposed.Level = t.LevelFromXP(proposed.TotalXP)
		return proposed, Created
	}

	xpChanged := proposed.TotalXP != old.TotalXP
	levelChanged := proposed.Level != old.Level

	switch {
	case xpChanged && !levelChanged:
		proposed.Level = t.LevelFromXP(proposed.TotalXP)
		return proposed, XPWins
	case levelChanged && !xpChanged:
		proposed.TotalXP = t.MinXPForLevel(proposed.Level)
		return proposed, LevelWins
	case xpChanged && levelChanged:
		return proposed, Conflict
	default:
		return proposed, Unchanged
	}
}

// Recompute uses the default table.
func Recompute(xps []int) State {
	return Default().Recompute(xps)
}

// Reconcile uses the default table.
func Reconcile(old *State, proposed State) (State, Outcome) {
	return Default().Reconcile(old, proposed)
}

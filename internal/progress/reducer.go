package progress

// State is an in-memory snapshot of a user's gamified progression. It is a
// value type: Apply never mutates its input.
type State struct {
	XP       int
	Level    int
	Unlocked map[string]bool
}

// NewState returns the seed state for a first-time user: zero XP, level one,
// default-unlocked badges already granted.
func NewState() State {
	unlocked := make(map[string]bool, len(badgeCatalog))
	for _, badge := range badgeCatalog {
		if badge.DefaultUnlocked {
			unlocked[badge.ID] = true
		}
	}
	return State{
		XP:       0,
		Level:    1,
		Unlocked: unlocked,
	}
}

// Action is a tagged state transition request.
type Action interface{ isAction() }

// AddXP grants experience points. Non-positive amounts are ignored.
type AddXP struct {
	Amount int
	Reason string
}

// RecordAction reports a user action tag. When the tag maps to a locked
// badge, the unlock and its XP reward are applied as part of the same
// transition.
type RecordAction struct {
	Action string
}

func (AddXP) isAction()        {}
func (RecordAction) isAction() {}

// Event describes a side effect the caller must surface after a transition.
type Event interface{ isEvent() }

// XPGained is emitted for every effective XP grant. Callers surface it as a
// transient acknowledgment unless a LevelUp accompanies it.
type XPGained struct {
	Amount int
	Reason string
}

// LevelUp is emitted when a transition crosses a level boundary.
type LevelUp struct {
	Level int
}

// BadgeUnlocked is emitted exactly once per badge, at the moment of unlock.
type BadgeUnlocked struct {
	Badge Badge
}

func (XPGained) isEvent()      {}
func (LevelUp) isEvent()       {}
func (BadgeUnlocked) isEvent() {}

// Apply computes the next state and the events the transition produced.
//
// Every transition is computed in one pass: a badge unlock folds its XP
// reward and any resulting level-up into the same application, so callers
// never nest a second transition inside the first.
func Apply(state State, action Action) (State, []Event) {
	next := clone(state)

	switch a := action.(type) {
	case AddXP:
		if a.Amount <= 0 {
			return next, nil
		}
		return grantXP(next, a.Amount, a.Reason)

	case RecordAction:
		badge, ok := BadgeByAction(a.Action)
		if !ok || next.Unlocked[badge.ID] {
			return next, nil
		}

		next.Unlocked[badge.ID] = true
		events := []Event{BadgeUnlocked{Badge: badge}}

		if badge.XPValue > 0 {
			var xpEvents []Event
			next, xpEvents = grantXP(next, badge.XPValue, "badge:"+badge.ID)
			events = append(events, xpEvents...)
		}
		return next, events

	default:
		return next, nil
	}
}

func grantXP(state State, amount int, reason string) (State, []Event) {
	state.XP += amount
	events := []Event{XPGained{Amount: amount, Reason: reason}}

	newLevel := LevelForXP(state.XP)
	if newLevel > state.Level {
		events = append(events, LevelUp{Level: newLevel})
	}
	state.Level = newLevel

	return state, events
}

func clone(state State) State {
	unlocked := make(map[string]bool, len(state.Unlocked))
	for id, ok := range state.Unlocked {
		unlocked[id] = ok
	}
	state.Unlocked = unlocked

	if state.Level < 1 {
		state.Level = LevelForXP(state.XP)
	}
	return state
}

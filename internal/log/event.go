package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventPhaseChange
	EventDraw
	EventDiscard
	EventMill
	EventShuffle
	EventFatigue
	EventPlayCard
	EventDiscardForEnergy
	EventEnergyChange
	EventDamage
	EventHeal
	EventShield
	EventStatusApplied
	EventStatusRemoved
	EventStatusTick
	EventGodDeath
	EventCardsRemoved
	EventZombie
	EventZombiePing
	EventReveal
	EventSkipped
	EventWin
	EventDrawGame
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDraw:
		return "Draw"
	case EventDiscard:
		return "Discard"
	case EventMill:
		return "Mill"
	case EventShuffle:
		return "Shuffle"
	case EventFatigue:
		return "Fatigue"
	case EventPlayCard:
		return "PlayCard"
	case EventDiscardForEnergy:
		return "DiscardForEnergy"
	case EventEnergyChange:
		return "EnergyChange"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventShield:
		return "Shield"
	case EventStatusApplied:
		return "StatusApplied"
	case EventStatusRemoved:
		return "StatusRemoved"
	case EventStatusTick:
		return "StatusTick"
	case EventGodDeath:
		return "GodDeath"
	case EventCardsRemoved:
		return "CardsRemoved"
	case EventZombie:
		return "Zombie"
	case EventZombiePing:
		return "ZombiePing"
	case EventReveal:
		return "Reveal"
	case EventSkipped:
		return "Skipped"
	case EventWin:
		return "Win"
	case EventDrawGame:
		return "Draw(tie)"
	default:
		return "Unknown"
	}
}

// MarshalText lets event types travel as readable strings in snapshots and advisory messages.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (e *EventType) UnmarshalText(b []byte) error {
	for t := EventNewTurn; t <= EventDrawGame; t++ {
		if t.String() == string(b) {
			*e = t
			return nil
		}
	}
	*e = EventSkipped
	return nil
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       `json:"seq"`              // monotonic sequence number
	Turn    int       `json:"turn"`             // which turn (1-based)
	Phase   string    `json:"phase"`            // current phase name
	Player  string    `json:"player"`           // acting player id
	Type    EventType `json:"type"`             // event type
	Card    string    `json:"card,omitempty"`   // card name (if applicable)
	Target  string    `json:"target,omitempty"` // god name (if applicable)
	Amount  int       `json:"amount,omitempty"` // concrete amount (damage, heal, stacks...)
	Details string    `json:"details"`          // human-readable detail string
}

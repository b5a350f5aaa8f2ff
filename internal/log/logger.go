package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions and history ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 6 chars for alignment
	for len(phase) < 6 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn int, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "draw",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, player),
	}
}

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewDrawEvent(turn int, phase string, player string, cardName string, hidden bool) GameEvent {
	details := fmt.Sprintf("%s draws %s", player, cardName)
	if hidden {
		details = fmt.Sprintf("%s receives a hidden card", player)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: details,
	}
}

func NewDiscardEvent(turn int, phase string, player string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", player, cardName),
	}
}

func NewMillEvent(turn int, phase string, player string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventMill,
		Amount:  count,
		Details: fmt.Sprintf("%s mills %d card(s)", player, count),
	}
}

func NewShuffleEvent(turn int, phase string, player string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShuffle,
		Amount:  count,
		Details: fmt.Sprintf("%s reshuffles %d card(s) from the discard pile", player, count),
	}
}

func NewFatigueEvent(turn int, phase string, player string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventFatigue,
		Amount:  damage,
		Details: fmt.Sprintf("%s suffers fatigue: %d damage to every living god", player, damage),
	}
}

func NewPlayCardEvent(turn int, phase string, player string, cardName string, cost, gain int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayCard,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s (cost %d, +%d energy)", player, cardName, cost, gain),
	}
}

func NewDiscardForEnergyEvent(turn int, phase string, player string, cardName string, energy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscardForEnergy,
		Card:    cardName,
		Amount:  energy,
		Details: fmt.Sprintf("%s discards %s for energy (now %d)", player, cardName, energy),
	}
}

func NewEnergyChangeEvent(turn int, phase string, player string, oldEnergy, newEnergy int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEnergyChange,
		Amount:  newEnergy - oldEnergy,
		Details: fmt.Sprintf("%s energy: %d → %d (%s)", player, oldEnergy, newEnergy, reason),
	}
}

func NewDamageEvent(turn int, phase string, player string, cardName string, target string, dealt, absorbed int, weak bool) GameEvent {
	details := fmt.Sprintf("%s deals %d damage to %s", cardName, dealt, target)
	if absorbed > 0 {
		details += fmt.Sprintf(" (%d absorbed by shield)", absorbed)
	}
	if weak {
		details += " (weakness x2)"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Card:    cardName,
		Target:  target,
		Amount:  dealt,
		Details: details,
	}
}

func NewHealEvent(turn int, phase string, player string, cardName string, target string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Card:    cardName,
		Target:  target,
		Amount:  newHP - oldHP,
		Details: fmt.Sprintf("%s heals %s: %d → %d", cardName, target, oldHP, newHP),
	}
}

func NewStatusAppliedEvent(turn int, phase string, player string, cardName string, target string, status string, amount int) GameEvent {
	t := EventStatusApplied
	if status == "shield" {
		t = EventShield
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    t,
		Card:    cardName,
		Target:  target,
		Amount:  amount,
		Details: fmt.Sprintf("%s gives %s %d %s", cardName, target, amount, status),
	}
}

func NewStatusRemovedEvent(turn int, phase string, player string, cardName string, target string, status string, removed int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatusRemoved,
		Card:    cardName,
		Target:  target,
		Amount:  removed,
		Details: fmt.Sprintf("%s removes %d %s from %s", cardName, removed, status, target),
	}
}

func NewStatusTickEvent(turn int, player string, target string, poison int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "end",
		Player:  player,
		Type:    EventStatusTick,
		Target:  target,
		Amount:  poison,
		Details: fmt.Sprintf("%s takes %d poison damage", target, poison),
	}
}

func NewGodDeathEvent(turn int, phase string, player string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGodDeath,
		Target:  target,
		Details: fmt.Sprintf("%s's %s has fallen", player, target),
	}
}

func NewCardsRemovedEvent(turn int, phase string, player string, target string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCardsRemoved,
		Target:  target,
		Amount:  count,
		Details: fmt.Sprintf("%d card(s) of %s are removed from the game", count, target),
	}
}

func NewZombieEvent(turn int, phase string, player string, target string, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventZombie,
		Target:  target,
		Amount:  hp,
		Details: fmt.Sprintf("%s rises as a zombie with %d health", target, hp),
	}
}

func NewZombiePingEvent(turn int, player string, zombie string, target string, dealt int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "end",
		Player:  player,
		Type:    EventZombiePing,
		Card:    zombie,
		Target:  target,
		Amount:  dealt,
		Details: fmt.Sprintf("Zombie %s bites %s for %d", zombie, target, dealt),
	}
}

func NewRevealEvent(turn int, phase string, player string, opponent string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReveal,
		Amount:  count,
		Details: fmt.Sprintf("%s reveals %d card(s) in %s's hand", player, count, opponent),
	}
}

func NewSkippedEvent(turn int, phase string, player string, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSkipped,
		Card:    cardName,
		Details: fmt.Sprintf("%s: effect skipped (%s)", cardName, reason),
	}
}

func NewWinEvent(turn int, phase string, winner string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", winner, reason),
	}
}

func NewDrawGameEvent(turn int, phase string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDrawGame,
		Details: fmt.Sprintf("Draw (%s)", reason),
	}
}

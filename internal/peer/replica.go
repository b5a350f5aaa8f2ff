package peer

import "github.com/peterkuimelis/pantheon/internal/game"

// Replica is a peer's local copy of the match. Snapshots replace it
// wholesale; an older or equal seq never does, except when the relay
// rolls the peer back.
type Replica struct {
	state *game.GameState
}

// State returns the current snapshot, or nil before the match starts.
func (r *Replica) State() *game.GameState {
	return r.state
}

// Seq is the sequence number of the current snapshot, 0 when empty.
func (r *Replica) Seq() int64 {
	if r.state == nil {
		return 0
	}
	return r.state.Seq
}

// Adopt replaces the local state with gs when gs is strictly newer.
func (r *Replica) Adopt(gs *game.GameState) bool {
	if gs == nil || gs.Seq <= r.Seq() {
		return false
	}
	r.state = gs
	return true
}

// Replace installs gs regardless of seq.
func (r *Replica) Replace(gs *game.GameState) {
	r.state = gs
}

// Reset forgets the current match.
func (r *Replica) Reset() {
	r.state = nil
}

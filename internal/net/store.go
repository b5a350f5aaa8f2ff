package net

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MatchStatus is the lobby lifecycle of a match on the relay.
type MatchStatus string

const (
	MatchWaiting   MatchStatus = "waiting"
	MatchSelecting MatchStatus = "selecting"
	MatchRPS       MatchStatus = "rps"
	MatchPlaying   MatchStatus = "playing"
	MatchFinished  MatchStatus = "finished"
)

// Role identifies a seat in a match.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Other returns the opposite seat.
func (r Role) Other() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

// ErrMatchExists is returned by MatchStore.Create on an id collision.
var ErrMatchExists = errors.New("match already exists")

// Seat is one player's place in a match.
type Seat struct {
	Name      string
	SessionID string
	Gods      []string
	Throw     string

	conn  *Conn
	gen   uint64 // bumped on every detach/attach; stale grace callbacks compare it
	grace clockwork.Timer
	// epoch counts snapshots rejected from this connection. Snapshots
	// tagged with an older epoch were sent before the rollback landed.
	epoch int64
}

// Connected reports whether a live transport is attached to the seat.
func (s *Seat) Connected() bool { return s != nil && s.conn != nil }

func (s *Seat) stopGrace() {
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
}

// Match is the relay's record of one game.
type Match struct {
	ID        string
	Status    MatchStatus
	Host      *Seat
	Guest     *Seat
	RPSWinner Role
	// FirstPlayer is the name of the player who takes turn 1.
	FirstPlayer string
	// Snapshot is the latest sync_state accepted from a peer.
	Snapshot    json.RawMessage
	SnapshotSeq int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Seat returns the seat for the role.
func (m *Match) Seat(r Role) *Seat {
	if r == RoleHost {
		return m.Host
	}
	return m.Guest
}

// Summary is the listing entry for the match.
func (m *Match) Summary() GameSummary {
	return GameSummary{
		ID:        m.ID,
		HostName:  m.Host.Name,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt.Unix(),
	}
}

// MatchStore holds the relay's matches. Implementations need not be safe
// for concurrent use; the Coordinator serializes access.
type MatchStore interface {
	Create(m *Match) error
	Get(id string) (*Match, bool)
	Delete(id string)
	List() []*Match
}

// MemoryStore is an in-process MatchStore.
type MemoryStore struct {
	mu      sync.Mutex
	matches map[string]*Match
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{matches: make(map[string]*Match)}
}

func (s *MemoryStore) Create(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; ok {
		return ErrMatchExists
	}
	s.matches[m.ID] = m
	return nil
}

func (s *MemoryStore) Get(id string) (*Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	return m, ok
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

// List returns the matches oldest first.
func (s *MemoryStore) List() []*Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

package store

import (
	"sync"

	"github.com/quizwire/quizwire/internal/protocol"
)

// Phase is a session's lifecycle phase.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseCountdown Phase = "countdown"
	PhaseQuestion  Phase = "question"
	PhaseEnded     Phase = "ended"
)

// Participant is a named player within a session.
type Participant struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Score int    `json:"score"`
}

// Session is the local view of one game session. Invariants maintained by
// the store: CurrentQuestion is set iff Phase is PhaseQuestion, HasEnded is
// true iff Phase is PhaseEnded, participant names are unique, and
// RemainingSeconds never goes negative.
type Session struct {
	ID               string             `json:"id"`
	Participants     []Participant      `json:"participants"`
	Phase            Phase              `json:"phase"`
	RemainingSeconds int                `json:"remaining_seconds"`
	CurrentQuestion  *protocol.Question `json:"current_question,omitempty"`
	HasEnded         bool               `json:"has_ended"`
}

// Snapshot is an immutable copy of every session, keyed by session id.
type Snapshot map[string]Session

// Listener is invoked with a fresh snapshot after each applied mutation.
// It runs on the mutating goroutine and must not call back into the store.
type Listener func(Snapshot)

// Store is the single source of truth for session state. All writes go
// through the named mutation methods below; the reconciliation engine is
// the only writer, so writes are serialized, while snapshots may be taken
// from any goroutine.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners []Listener
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Subscribe registers a listener notified after every applied mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	if len(listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, l := range listeners {
		l(snap)
	}
}

// ensureSession returns the session for id, creating an empty lobby-phase
// session when the id is unknown. Callers must hold the write lock.
func (s *Store) ensureSession(id string) *Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := &Session{
		ID:           id,
		Participants: []Participant{},
		Phase:        PhaseLobby,
	}
	s.sessions[id] = sess
	return sess
}

// UpsertParticipants replaces a session's participant roster verbatim.
// Used on full-roster sync when entering a session.
func (s *Store) UpsertParticipants(id string, participants []Participant) {
	s.mu.Lock()
	sess := s.ensureSession(id)
	sess.Participants = make([]Participant, len(participants))
	copy(sess.Participants, participants)
	s.mu.Unlock()
	s.notify()
}

// PatchParticipant merges a partial update into the named participant.
// Unknown sessions or participants are a no-op.
func (s *Store) PatchParticipant(id, name string, patch ParticipantPatch) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	changed := false
	for i := range sess.Participants {
		if sess.Participants[i].Name != name {
			continue
		}
		if patch.Ready != nil {
			sess.Participants[i].Ready = *patch.Ready
		}
		if patch.Score != nil {
			sess.Participants[i].Score = *patch.Score
		}
		changed = true
		break
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// AddParticipant appends a new participant with ready=false and score=0,
// creating the session in lobby phase when the id is unknown. Adding a
// name that is already present is a no-op, keeping names unique.
func (s *Store) AddParticipant(id, name string) {
	s.mu.Lock()
	sess := s.ensureSession(id)
	for _, p := range sess.Participants {
		if p.Name == name {
			s.mu.Unlock()
			return
		}
	}
	sess.Participants = append(sess.Participants, Participant{Name: name})
	s.mu.Unlock()
	s.notify()
}

// RemoveParticipantEverywhere removes the named participant from every
// known session. Disconnect events are not session-scoped.
func (s *Store) RemoveParticipantEverywhere(name string) {
	s.mu.Lock()
	for _, sess := range s.sessions {
		kept := sess.Participants[:0]
		for _, p := range sess.Participants {
			if p.Name != name {
				kept = append(kept, p)
			}
		}
		sess.Participants = kept
	}
	s.mu.Unlock()
	s.notify()
}

// RemoveSession deletes the session entirely. Unknown ids are a no-op.
func (s *Store) RemoveSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	s.notify()
}

// PhasePatch carries the optional fields of a phase transition.
type PhasePatch struct {
	RemainingSeconds *int
	Question         *protocol.Question
}

// ParticipantPatch carries the optional fields of a participant update.
type ParticipantPatch struct {
	Ready *bool
	Score *int
}

// ApplyPhaseTransition sets the session's lifecycle phase plus whichever
// fields the transition carries, enforcing the session invariants. The
// session is created when the id is unknown.
func (s *Store) ApplyPhaseTransition(id string, phase Phase, patch PhasePatch) {
	s.mu.Lock()
	sess := s.ensureSession(id)
	sess.Phase = phase
	sess.HasEnded = phase == PhaseEnded
	if patch.RemainingSeconds != nil {
		sess.RemainingSeconds = max(*patch.RemainingSeconds, 0)
	}
	if phase == PhaseQuestion {
		if patch.Question != nil {
			q := *patch.Question
			sess.CurrentQuestion = &q
		}
	} else {
		sess.CurrentQuestion = nil
	}
	s.mu.Unlock()
	s.notify()
}

// MergeScores sets each named participant's score from the final
// scoreboard. Participants absent from scores keep their prior value.
func (s *Store) MergeScores(id string, scores map[string]int) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	for i := range sess.Participants {
		if score, ok := scores[sess.Participants[i].Name]; ok {
			sess.Participants[i].Score = score
		}
	}
	s.mu.Unlock()
	s.notify()
}

// DecrementRemaining ticks a session's countdown down by one second,
// stopping exactly at zero. It reports the new value and whether the
// session still exists with a positive countdown before the call.
func (s *Store) DecrementRemaining(id string) (int, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.RemainingSeconds <= 0 {
		s.mu.Unlock()
		return 0, false
	}
	sess.RemainingSeconds--
	remaining := sess.RemainingSeconds
	s.mu.Unlock()
	s.notify()
	return remaining, true
}

// ResetAll empties the store, returning the system to its pre-connection
// state.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a deep copy of all sessions for read-only consumption.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(Snapshot, len(s.sessions))
	for id, sess := range s.sessions {
		snap[id] = copySession(sess)
	}
	return snap
}

// Session returns a deep copy of a single session.
func (s *Store) Session(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return copySession(sess), true
}

func copySession(sess *Session) Session {
	cp := *sess
	cp.Participants = make([]Participant, len(sess.Participants))
	copy(cp.Participants, sess.Participants)
	if sess.CurrentQuestion != nil {
		q := *sess.CurrentQuestion
		q.Options = append([]string(nil), sess.CurrentQuestion.Options...)
		cp.CurrentQuestion = &q
	}
	return cp
}

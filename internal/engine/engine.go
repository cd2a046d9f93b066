// Package engine reconciles inbound world-server events into the session
// store under the lifecycle state machine, one event at a time in arrival
// order.
package engine

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quizwire/quizwire/internal/protocol"
	"github.com/quizwire/quizwire/internal/store"
	"github.com/quizwire/quizwire/internal/transport"
)

// EffectHandler receives side-effect instructions as events are applied.
type EffectHandler func(Effect)

// Engine applies decoded inbound events to the session store. It is the
// store's only writer: the transport delivers messages sequentially, and
// Apply never suspends mid-mutation.
type Engine struct {
	store   *store.Store
	clock   clockwork.Clock
	effects EffectHandler
	logger  zerolog.Logger

	mu        sync.Mutex
	tickers   map[string]chan struct{}
	connected bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for countdown tickers. Tests inject a fake
// clock here.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithEffectHandler sets the handler invoked for each derived effect when
// events arrive through the transport callbacks.
func WithEffectHandler(h EffectHandler) Option {
	return func(e *Engine) {
		e.effects = h
	}
}

// WithLogger overrides the default global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine writing to st.
func New(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		clock:   clockwork.NewRealClock(),
		effects: func(Effect) {},
		logger:  log.Logger,
		tickers: make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Callbacks returns the transport callbacks that feed this engine. Wire
// them into a transport.Channel's Start.
func (e *Engine) Callbacks() transport.Callbacks {
	return transport.Callbacks{
		OnOpen:    e.handleOpen,
		OnMessage: e.HandleMessage,
		OnClose:   e.handleTeardown,
		OnError: func(err error) {
			e.logger.Error().Err(err).Msg("transport error")
			e.handleTeardown()
		},
	}
}

func (e *Engine) handleOpen() {
	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()
	e.logger.Info().Msg("connected to world server")
}

// HandleMessage decodes one raw frame and applies it. Malformed frames are
// logged and dropped; engine state is unaffected.
func (e *Engine) HandleMessage(raw []byte) {
	ev, err := protocol.DecodeEvent(raw)
	if err != nil {
		e.logger.Warn().Err(err).Msg("dropping malformed message")
		return
	}
	for _, effect := range e.Apply(ev) {
		e.effects(effect)
	}
}

// handleTeardown resets all local state after the transport closed or
// errored. The reset runs on every teardown; messages racing in behind an
// error must not leave repopulated sessions when the close lands. Only the
// Disconnected effect is limited to once per established connection.
func (e *Engine) handleTeardown() {
	e.mu.Lock()
	wasConnected := e.connected
	e.connected = false
	for id, stop := range e.tickers {
		close(stop)
		delete(e.tickers, id)
	}
	e.mu.Unlock()

	e.store.ResetAll()

	if !wasConnected {
		return
	}
	e.logger.Info().Msg("disconnected from world server, local state reset")
	e.effects(Disconnected{})
}

// Apply mutates the session store per the event and returns the derived
// side effects. Events referencing unknown sessions or participants
// resolve through the store's no-op semantics and are never an error.
func (e *Engine) Apply(ev protocol.Event) []Effect {
	switch ev := ev.(type) {
	case protocol.ParticipantDisconnected:
		e.store.RemoveParticipantEverywhere(ev.Player)
		return nil

	case protocol.SessionCreated:
		return []Effect{RefreshSessionList{}}

	case protocol.ParticipantEntered:
		participants := make([]store.Participant, len(ev.Players))
		for i, name := range ev.Players {
			participants[i] = store.Participant{
				Name:  name,
				Ready: ev.PlayersReady[name],
			}
		}
		e.store.UpsertParticipants(ev.ID, participants)
		return []Effect{RefreshSessionList{}, NavigateToSession{ID: ev.ID}}

	case protocol.ParticipantJoined:
		e.store.AddParticipant(ev.ID, ev.Player)
		return nil

	case protocol.SessionDestroyed:
		e.stopTicker(ev.ID)
		e.store.RemoveSession(ev.ID)
		return []Effect{RefreshSessionList{}, NavigateToLobby{}}

	case protocol.ParticipantReady:
		ready := true
		e.store.PatchParticipant(ev.ID, ev.Player, store.ParticipantPatch{Ready: &ready})
		return nil

	case protocol.SessionStarted:
		// No local mutation; the server follows up with countdown or
		// question events carrying the phase data.
		return nil

	case protocol.CountdownTick:
		seconds := ev.Seconds
		e.store.ApplyPhaseTransition(ev.ID, store.PhaseCountdown, store.PhasePatch{
			RemainingSeconds: &seconds,
		})
		e.startTicker(ev.ID, seconds)
		return nil

	case protocol.QuestionPosted:
		seconds := ev.Question.DurationSeconds
		question := ev.Question
		e.store.ApplyPhaseTransition(ev.ID, store.PhaseQuestion, store.PhasePatch{
			RemainingSeconds: &seconds,
			Question:         &question,
		})
		e.startTicker(ev.ID, seconds)
		return nil

	case protocol.SessionEnded:
		e.stopTicker(ev.ID)
		scores := make(map[string]int, len(ev.Scores))
		for _, s := range ev.Scores {
			scores[s.Name] = s.Score
		}
		e.store.MergeScores(ev.ID, scores)
		zero := 0
		e.store.ApplyPhaseTransition(ev.ID, store.PhaseEnded, store.PhasePatch{
			RemainingSeconds: &zero,
		})
		return nil

	case protocol.UnknownEvent:
		e.logger.Warn().Str("type", ev.Type).Msg("ignoring unknown event type")
		return nil

	default:
		return nil
	}
}

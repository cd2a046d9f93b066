package engine

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/quizwire/internal/protocol"
	"github.com/quizwire/quizwire/internal/store"
)

func remainingSeconds(t *testing.T, st *store.Store, id string) int {
	t.Helper()
	sess, ok := st.Session(id)
	require.True(t, ok)
	return sess.RemainingSeconds
}

func requireRemainingEventually(t *testing.T, st *store.Store, id string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return remainingSeconds(t, st, id) == want
	}, time.Second, time.Millisecond)
}

func TestCountdownTicksDownToZeroAndStops(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 3})
	require.Equal(t, 3, remainingSeconds(t, st, "g1"))

	fc.BlockUntil(1)
	for want := 2; want >= 0; want-- {
		fc.Advance(time.Second)
		requireRemainingEventually(t, st, "g1", want)
	}

	// Further ticks must not push the value below zero.
	fc.Advance(time.Second)
	fc.Advance(time.Second)
	require.Equal(t, 0, remainingSeconds(t, st, "g1"))
}

func TestAuthoritativeEventOverridesLocalTick(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 5})
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	requireRemainingEventually(t, st, "g1", 4)

	// A fresh countdown event replaces the ticked-down value, even when
	// larger.
	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 10})
	require.Equal(t, 10, remainingSeconds(t, st, "g1"))

	fc.BlockUntil(1)
	fc.Advance(time.Second)
	requireRemainingEventually(t, st, "g1", 9)
}

func TestQuestionEventRestartsCountdown(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 5})
	fc.BlockUntil(1)

	eng.Apply(protocol.QuestionPosted{ID: "g1", Question: protocol.Question{
		ID:              "q1",
		Prompt:          "?",
		Options:         []string{"a", "b"},
		DurationSeconds: 15,
	}})
	sess, _ := st.Session("g1")
	require.Equal(t, store.PhaseQuestion, sess.Phase)
	require.Equal(t, 15, sess.RemainingSeconds)

	fc.BlockUntil(1)
	fc.Advance(time.Second)
	requireRemainingEventually(t, st, "g1", 14)
}

func TestSessionEndCancelsTicker(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 5})
	fc.BlockUntil(1)

	eng.Apply(protocol.SessionEnded{ID: "g1", Scores: nil})

	eng.mu.Lock()
	require.Empty(t, eng.tickers)
	eng.mu.Unlock()
	require.Equal(t, 0, remainingSeconds(t, st, "g1"))
}

func TestReplacedTickerCannotDecrementFreshValue(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 10})
	eng.mu.Lock()
	stale := eng.tickers["g1"]
	eng.mu.Unlock()

	// The replacement lands in the window between the old ticker's wakeup
	// and its store write.
	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 3})

	require.False(t, eng.tick("g1", stale))
	require.Equal(t, 3, remainingSeconds(t, st, "g1"))
}

func TestZeroSecondEventStartsNoTicker(t *testing.T) {
	fc := clockwork.NewFakeClock()
	st := store.New()
	eng := New(st, WithClock(fc))

	eng.Apply(protocol.CountdownTick{ID: "g1", Seconds: 0})

	eng.mu.Lock()
	require.Empty(t, eng.tickers)
	eng.mu.Unlock()
}

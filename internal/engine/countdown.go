package engine

import "time"

// startTicker begins the local one-second display countdown for a session,
// replacing any existing ticker. The authoritative value from the latest
// countdown or question event is already in the store; the ticker only
// decrements it toward zero and stops exactly there.
func (e *Engine) startTicker(sessionID string, seconds int) {
	e.stopTicker(sessionID)
	if seconds <= 0 {
		return
	}

	stop := make(chan struct{})
	e.mu.Lock()
	e.tickers[sessionID] = stop
	e.mu.Unlock()

	go func() {
		ticker := e.clock.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				if !e.tick(sessionID, stop) {
					return
				}
			}
		}
	}()
}

// tick decrements the session's remaining seconds once. The ownership check
// and the store write happen under the same lock so a cancelled ticker can
// never overwrite a value the replacing event just installed.
func (e *Engine) tick(sessionID string, stop chan struct{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tickers[sessionID] != stop {
		return false
	}
	_, ok := e.store.DecrementRemaining(sessionID)
	return ok
}

// stopTicker cancels the countdown ticker for a session, if any.
func (e *Engine) stopTicker(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if stop, ok := e.tickers[sessionID]; ok {
		close(stop)
		delete(e.tickers, sessionID)
	}
}

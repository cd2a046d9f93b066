package engine

// Effect is a side-effect instruction for the host application, derived
// while applying inbound events. The engine never performs navigation or
// listing fetches itself.
type Effect interface {
	isEffect()
}

// RefreshSessionList tells the host to re-fetch the lobby game listing.
type RefreshSessionList struct{}

// NavigateToSession tells the host to show the named session.
type NavigateToSession struct {
	ID string
}

// NavigateToLobby tells the host to return to the lobby listing.
type NavigateToLobby struct{}

// Disconnected signals that the transport channel closed or errored and
// all local state was reset. It is emitted at most once per connection.
type Disconnected struct{}

func (RefreshSessionList) isEffect() {}
func (NavigateToSession) isEffect()  {}
func (NavigateToLobby) isEffect()    {}
func (Disconnected) isEffect()       {}

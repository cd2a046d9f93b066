package protocol

// Event is a typed message pushed from the world server. The set of
// implementations is closed; decoding an unrecognized tag yields
// UnknownEvent rather than an error so new server-side message types
// never break older clients.
type Event interface {
	isEvent()
}

// EventType tags inbound wire messages.
type EventType string

const (
	EventPlayerDisconnect EventType = "player_disconnect"
	EventGameCreate       EventType = "game_create"
	EventGamePlayerEnter  EventType = "game_player_enter"
	EventGamePlayerJoin   EventType = "game_player_join"
	EventGameDestroy      EventType = "game_destroy"
	EventGamePlayerReady  EventType = "game_player_ready"
	EventGameStart        EventType = "game_start"
	EventGameCountdown    EventType = "game_countdown"
	EventGameQuestion     EventType = "game_question"
	EventGameEnd          EventType = "game_end"
)

// Question is a single trivia question as posted by the server.
type Question struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"question"`
	Options         []string `json:"options"`
	DurationSeconds int      `json:"seconds"`
}

// PlayerScore is one entry of a final scoreboard.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ParticipantDisconnected reports that a player left the world server
// entirely. The event is not scoped to a session.
type ParticipantDisconnected struct {
	Player string
}

// SessionCreated announces a new game session somewhere in the lobby.
type SessionCreated struct {
	ID            string
	Name          string
	QuestionCount int
}

// ParticipantEntered is the full-roster sync the server sends to a player
// entering a session.
type ParticipantEntered struct {
	ID            string
	Name          string
	Players       []string
	PlayersReady  map[string]bool
	QuestionCount int
}

// ParticipantJoined reports a single player joining a session.
type ParticipantJoined struct {
	ID     string
	Player string
}

// SessionDestroyed reports that a session was torn down server-side.
type SessionDestroyed struct {
	ID string
}

// ParticipantReady reports a player marking themselves ready.
type ParticipantReady struct {
	ID     string
	Player string
}

// SessionStarted reports that a session left the lobby. The server follows
// up with countdown and question events carrying the actual phase data.
type SessionStarted struct {
	ID string
}

// CountdownTick carries the authoritative remaining seconds before the
// next question.
type CountdownTick struct {
	ID      string
	Seconds int
}

// QuestionPosted carries a new question and its answer window.
type QuestionPosted struct {
	ID       string
	Question Question
}

// SessionEnded carries the final scoreboard for a session.
type SessionEnded struct {
	ID     string
	Scores []PlayerScore
}

// UnknownEvent is the fallback for well-formed messages with a tag this
// client does not understand.
type UnknownEvent struct {
	Type string
}

func (ParticipantDisconnected) isEvent() {}
func (SessionCreated) isEvent()          {}
func (ParticipantEntered) isEvent()      {}
func (ParticipantJoined) isEvent()       {}
func (SessionDestroyed) isEvent()        {}
func (ParticipantReady) isEvent()        {}
func (SessionStarted) isEvent()          {}
func (CountdownTick) isEvent()           {}
func (QuestionPosted) isEvent()          {}
func (SessionEnded) isEvent()            {}
func (UnknownEvent) isEvent()            {}

package protocol

import "encoding/json"

// Command is a typed outbound message requesting a state change on the
// world server. Content validation happens in the dispatch package before
// a command reaches EncodeCommand.
type Command interface {
	isCommand()
	tag() string
}

// CreateSession asks the server to open a new game session.
type CreateSession struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// JoinSession asks the server to add the local player to a session.
type JoinSession struct {
	SessionID string `json:"game_id"`
}

// StartSession asks the server to begin the game.
type StartSession struct {
	SessionID string `json:"game_id"`
}

// MarkReady flags the local player as ready in a session lobby.
type MarkReady struct {
	SessionID string `json:"game_id"`
}

// SubmitAnswer submits the chosen option for the current question.
type SubmitAnswer struct {
	SessionID   string `json:"game_id"`
	OptionIndex int    `json:"index"`
	QuestionID  string `json:"question_id"`
}

func (CreateSession) isCommand() {}
func (JoinSession) isCommand()   {}
func (StartSession) isCommand()  {}
func (MarkReady) isCommand()     {}
func (SubmitAnswer) isCommand()  {}

func (CreateSession) tag() string { return "create" }
func (JoinSession) tag() string   { return "join" }
func (StartSession) tag() string  { return "start" }
func (MarkReady) tag() string     { return "ready" }
func (SubmitAnswer) tag() string  { return "answer" }

type commandEnvelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// EncodeCommand serializes a command to its wire form. Encoding is total
// over well-formed command values.
func EncodeCommand(cmd Command) []byte {
	data, err := json.Marshal(commandEnvelope{Type: cmd.tag(), Payload: cmd})
	if err != nil {
		// Command types are plain data; marshalling them cannot fail.
		panic(err)
	}
	return data
}

// Package dispatch validates user intents and turns them into outbound
// protocol commands.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quizwire/quizwire/internal/protocol"
)

// ValidationError reports a command input that violates a precondition.
// The command is not sent; the caller surfaces the message to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Sender transmits encoded commands. Implemented by transport channels.
type Sender interface {
	Send(data []byte) error
}

// Dispatcher validates intents, encodes them, and hands the wire bytes to
// the sender. It performs no deduplication; the server remains
// authoritative on command legality.
type Dispatcher struct {
	sender Sender
	logger zerolog.Logger
}

// New creates a Dispatcher sending through sender.
func New(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender, logger: log.Logger}
}

// CreateSession requests a new game session. The name must be non-blank
// and questionCount positive.
func (d *Dispatcher) CreateSession(name string, questionCount int) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if questionCount <= 0 {
		return &ValidationError{Field: "question_count", Reason: "must be positive"}
	}
	return d.send(protocol.CreateSession{Name: name, QuestionCount: questionCount})
}

// JoinSession requests joining an existing session.
func (d *Dispatcher) JoinSession(sessionID string) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	return d.send(protocol.JoinSession{SessionID: sessionID})
}

// StartSession requests starting the game. Whether the caller may start it
// is the server's decision.
func (d *Dispatcher) StartSession(sessionID string) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	return d.send(protocol.StartSession{SessionID: sessionID})
}

// MarkReady flags the local player ready in the session lobby.
func (d *Dispatcher) MarkReady(sessionID string) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	return d.send(protocol.MarkReady{SessionID: sessionID})
}

// SubmitAnswer submits the chosen option index for a question. The host is
// responsible for disabling repeat submission once an answer is recorded
// or the timer reaches zero.
func (d *Dispatcher) SubmitAnswer(sessionID string, optionIndex int, questionID string) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	if questionID == "" {
		return &ValidationError{Field: "question_id", Reason: "must not be empty"}
	}
	if optionIndex < 0 {
		return &ValidationError{Field: "index", Reason: "must not be negative"}
	}
	return d.send(protocol.SubmitAnswer{
		SessionID:   sessionID,
		OptionIndex: optionIndex,
		QuestionID:  questionID,
	})
}

func requireSessionID(sessionID string) error {
	if sessionID == "" {
		return &ValidationError{Field: "game_id", Reason: "must not be empty"}
	}
	return nil
}

func (d *Dispatcher) send(cmd protocol.Command) error {
	data := protocol.EncodeCommand(cmd)
	if err := d.sender.Send(data); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	d.logger.Debug().RawJSON("command", data).Msg("command sent")
	return nil
}

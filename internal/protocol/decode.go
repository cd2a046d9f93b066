package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a malformed inbound message. A DecodeError means the
// frame was dropped; it never corrupts engine state.
type DecodeError struct {
	Tag    string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("decode inbound message: %s", e.Reason)
	}
	return fmt.Sprintf("decode %q message: %s", e.Tag, e.Reason)
}

func decodeErrf(tag, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Tag: tag, Reason: fmt.Sprintf(format, args...)}
}

// envelope is the outer wire shape of every inbound message.
type envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Player  string          `json:"player"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEvent parses a raw inbound frame into a typed Event. Unrecognized
// tags decode to UnknownEvent; malformed frames (bad JSON, missing type,
// missing or mistyped payload fields) return a *DecodeError.
func DecodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, decodeErrf("", "unmarshal envelope: %v", err)
	}
	if env.Type == "" {
		return nil, decodeErrf("", "missing type tag")
	}

	switch EventType(env.Type) {
	case EventPlayerDisconnect:
		if env.Player == "" {
			return nil, decodeErrf(env.Type, "missing player")
		}
		return ParticipantDisconnected{Player: env.Player}, nil

	case EventGameCreate:
		var p struct {
			Name          *string `json:"name"`
			QuestionCount *int    `json:"question_count"`
		}
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if p.Name == nil || p.QuestionCount == nil {
			return nil, decodeErrf(env.Type, "missing name or question_count")
		}
		return SessionCreated{ID: env.ID, Name: *p.Name, QuestionCount: *p.QuestionCount}, nil

	case EventGamePlayerEnter:
		var p struct {
			Name          string          `json:"name"`
			Players       *[]string       `json:"players"`
			PlayersReady  map[string]bool `json:"players_ready"`
			QuestionCount int             `json:"question_count"`
		}
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		if p.Players == nil {
			return nil, decodeErrf(env.Type, "missing players")
		}
		return ParticipantEntered{
			ID:            env.ID,
			Name:          p.Name,
			Players:       *p.Players,
			PlayersReady:  p.PlayersReady,
			QuestionCount: p.QuestionCount,
		}, nil

	case EventGamePlayerJoin:
		player, err := payloadPlayer(env)
		if err != nil {
			return nil, err
		}
		return ParticipantJoined{ID: env.ID, Player: player}, nil

	case EventGameDestroy:
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		return SessionDestroyed{ID: env.ID}, nil

	case EventGamePlayerReady:
		player, err := payloadPlayer(env)
		if err != nil {
			return nil, err
		}
		return ParticipantReady{ID: env.ID, Player: player}, nil

	case EventGameStart:
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		return SessionStarted{ID: env.ID}, nil

	case EventGameCountdown:
		var p struct {
			Seconds *int `json:"seconds"`
		}
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		if p.Seconds == nil {
			return nil, decodeErrf(env.Type, "missing seconds")
		}
		if *p.Seconds < 0 {
			return nil, decodeErrf(env.Type, "negative seconds %d", *p.Seconds)
		}
		return CountdownTick{ID: env.ID, Seconds: *p.Seconds}, nil

	case EventGameQuestion:
		var p struct {
			ID       string    `json:"id"`
			Question *string   `json:"question"`
			Options  *[]string `json:"options"`
			Seconds  *int      `json:"seconds"`
		}
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		if p.ID == "" || p.Question == nil || p.Options == nil || p.Seconds == nil {
			return nil, decodeErrf(env.Type, "missing question fields")
		}
		if len(*p.Options) < 2 {
			return nil, decodeErrf(env.Type, "question needs at least 2 options, got %d", len(*p.Options))
		}
		if *p.Seconds < 0 {
			return nil, decodeErrf(env.Type, "negative seconds %d", *p.Seconds)
		}
		return QuestionPosted{
			ID: env.ID,
			Question: Question{
				ID:              p.ID,
				Prompt:          *p.Question,
				Options:         *p.Options,
				DurationSeconds: *p.Seconds,
			},
		}, nil

	case EventGameEnd:
		var p struct {
			Scores *[]PlayerScore `json:"scores"`
		}
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if env.ID == "" {
			return nil, decodeErrf(env.Type, "missing id")
		}
		if p.Scores == nil {
			return nil, decodeErrf(env.Type, "missing scores")
		}
		return SessionEnded{ID: env.ID, Scores: *p.Scores}, nil

	default:
		return UnknownEvent{Type: env.Type}, nil
	}
}

func unmarshalPayload(env envelope, dst interface{}) error {
	if len(env.Payload) == 0 {
		return decodeErrf(env.Type, "missing payload")
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return decodeErrf(env.Type, "unmarshal payload: %v", err)
	}
	return nil
}

// payloadPlayer extracts the common {"player": "..."} payload shape.
func payloadPlayer(env envelope) (string, error) {
	var p struct {
		Player string `json:"player"`
	}
	if err := unmarshalPayload(env, &p); err != nil {
		return "", err
	}
	if env.ID == "" {
		return "", decodeErrf(env.Type, "missing id")
	}
	if p.Player == "" {
		return "", decodeErrf(env.Type, "missing player")
	}
	return p.Player, nil
}

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "create",
			cmd:  CreateSession{Name: "friday trivia", QuestionCount: 5},
			want: `{"type":"create","payload":{"name":"friday trivia","question_count":5}}`,
		},
		{
			name: "join",
			cmd:  JoinSession{SessionID: "g1"},
			want: `{"type":"join","payload":{"game_id":"g1"}}`,
		},
		{
			name: "start",
			cmd:  StartSession{SessionID: "g1"},
			want: `{"type":"start","payload":{"game_id":"g1"}}`,
		},
		{
			name: "ready",
			cmd:  MarkReady{SessionID: "g1"},
			want: `{"type":"ready","payload":{"game_id":"g1"}}`,
		},
		{
			name: "answer",
			cmd:  SubmitAnswer{SessionID: "g1", OptionIndex: 2, QuestionID: "q7"},
			want: `{"type":"answer","payload":{"game_id":"g1","index":2,"question_id":"q7"}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.JSONEq(t, tc.want, string(EncodeCommand(tc.cmd)))
		})
	}
}

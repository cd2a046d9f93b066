package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Event
	}{
		{
			name: "player disconnect",
			raw:  `{"type":"player_disconnect","player":"alice","payload":{}}`,
			want: ParticipantDisconnected{Player: "alice"},
		},
		{
			name: "game create",
			raw:  `{"type":"game_create","id":"g1","payload":{"name":"friday trivia","question_count":5}}`,
			want: SessionCreated{ID: "g1", Name: "friday trivia", QuestionCount: 5},
		},
		{
			name: "player enter with ready map",
			raw:  `{"type":"game_player_enter","id":"g1","payload":{"name":"friday trivia","players":["alice","bob"],"players_ready":{"alice":true},"question_count":5}}`,
			want: ParticipantEntered{
				ID:            "g1",
				Name:          "friday trivia",
				Players:       []string{"alice", "bob"},
				PlayersReady:  map[string]bool{"alice": true},
				QuestionCount: 5,
			},
		},
		{
			name: "player join",
			raw:  `{"type":"game_player_join","id":"g1","payload":{"player":"carol"}}`,
			want: ParticipantJoined{ID: "g1", Player: "carol"},
		},
		{
			name: "game destroy",
			raw:  `{"type":"game_destroy","id":"g1","payload":{}}`,
			want: SessionDestroyed{ID: "g1"},
		},
		{
			name: "player ready",
			raw:  `{"type":"game_player_ready","id":"g1","payload":{"player":"bob"}}`,
			want: ParticipantReady{ID: "g1", Player: "bob"},
		},
		{
			name: "game start",
			raw:  `{"type":"game_start","id":"g1","payload":{}}`,
			want: SessionStarted{ID: "g1"},
		},
		{
			name: "countdown",
			raw:  `{"type":"game_countdown","id":"g1","payload":{"seconds":3}}`,
			want: CountdownTick{ID: "g1", Seconds: 3},
		},
		{
			name: "countdown zero seconds",
			raw:  `{"type":"game_countdown","id":"g1","payload":{"seconds":0}}`,
			want: CountdownTick{ID: "g1", Seconds: 0},
		},
		{
			name: "question",
			raw:  `{"type":"game_question","id":"g1","payload":{"id":"q7","question":"Largest planet?","options":["Mars","Jupiter"],"seconds":20}}`,
			want: QuestionPosted{
				ID: "g1",
				Question: Question{
					ID:              "q7",
					Prompt:          "Largest planet?",
					Options:         []string{"Mars", "Jupiter"},
					DurationSeconds: 20,
				},
			},
		},
		{
			name: "game end",
			raw:  `{"type":"game_end","id":"g1","payload":{"scores":[{"name":"alice","score":30}]}}`,
			want: SessionEnded{ID: "g1", Scores: []PlayerScore{{Name: "alice", Score: 30}}},
		},
		{
			name: "unknown tag is not an error",
			raw:  `{"type":"game_confetti","id":"g1","payload":{}}`,
			want: UnknownEvent{Type: "game_confetti"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tc.raw))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeEventErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing type", `{"id":"g1","payload":{}}`},
		{"disconnect without player", `{"type":"player_disconnect","payload":{}}`},
		{"create without question_count", `{"type":"game_create","id":"g1","payload":{"name":"x"}}`},
		{"enter without players", `{"type":"game_player_enter","id":"g1","payload":{"name":"x","question_count":3}}`},
		{"enter without id", `{"type":"game_player_enter","payload":{"name":"x","players":[],"question_count":3}}`},
		{"join without player", `{"type":"game_player_join","id":"g1","payload":{}}`},
		{"destroy without id", `{"type":"game_destroy","payload":{}}`},
		{"ready without id", `{"type":"game_player_ready","payload":{"player":"bob"}}`},
		{"countdown without seconds", `{"type":"game_countdown","id":"g1","payload":{}}`},
		{"countdown negative seconds", `{"type":"game_countdown","id":"g1","payload":{"seconds":-1}}`},
		{"countdown seconds wrong type", `{"type":"game_countdown","id":"g1","payload":{"seconds":"ten"}}`},
		{"question with one option", `{"type":"game_question","id":"g1","payload":{"id":"q1","question":"?","options":["only"],"seconds":5}}`},
		{"question options wrong type", `{"type":"game_question","id":"g1","payload":{"id":"q1","question":"?","options":[1,2],"seconds":5}}`},
		{"question without prompt", `{"type":"game_question","id":"g1","payload":{"id":"q1","options":["a","b"],"seconds":5}}`},
		{"end without scores", `{"type":"game_end","id":"g1","payload":{}}`},
		{"missing payload", `{"type":"game_countdown","id":"g1"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tc.raw))
			require.Error(t, err)
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
		})
	}
}

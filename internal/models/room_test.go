package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeTokenSet(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "empty string", raw: "", want: []string{}},
		{name: "blank string", raw: "   ", want: []string{}},
		{name: "empty array", raw: "[]", want: []string{}},
		{name: "json array", raw: `["a","b"]`, want: []string{"a", "b"}},
		{name: "garbage recovers as empty", raw: "{not json", want: []string{}, wantErr: true},
		{name: "wrong json type recovers as empty", raw: `{"a":1}`, want: []string{}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := DecodeTokenSet(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, tokens)
		})
	}
}

func TestEncodeTokenSet(t *testing.T) {
	require.Equal(t, "[]", EncodeTokenSet(nil))
	require.Equal(t, "[]", EncodeTokenSet([]string{}))
	require.Equal(t, `["a","b"]`, EncodeTokenSet([]string{"a", "b"}))
}

func TestMessagePublicStripsToken(t *testing.T) {
	msg := Message{ID: "m1", Sender: "alice", Text: "hi", Timestamp: 42, Token: "secret"}

	view := msg.Public()

	require.Equal(t, "m1", view.ID)
	require.Equal(t, "alice", view.Sender)
	require.Equal(t, "hi", view.Text)
	require.Equal(t, int64(42), view.Timestamp)
}

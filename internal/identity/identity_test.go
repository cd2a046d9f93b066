package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSelf(t *testing.T) {
	self := New("  alice ")
	require.Equal(t, "alice", self.Name())
	require.True(t, self.IsSelf("alice"))
	require.False(t, self.IsSelf("bob"))

	anon := New("")
	require.False(t, anon.IsSelf(""))
}

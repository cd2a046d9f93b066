// Package identity holds the local participant's identity. It is an
// explicit value passed at construction time rather than ambient global
// state.
package identity

import "strings"

// Identity identifies the local player by display name.
type Identity struct {
	name string
}

// New creates an Identity. The name is trimmed; an empty name is allowed
// here and rejected later by command validation.
func New(name string) Identity {
	return Identity{name: strings.TrimSpace(name)}
}

// Name returns the local display name.
func (i Identity) Name() string {
	return i.name
}

// IsSelf reports whether an event subject names the local player.
func (i Identity) IsSelf(name string) bool {
	return i.name != "" && i.name == name
}

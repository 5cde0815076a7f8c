package models

// Identity is the user's display name and optional avatar. Avatar is an
// opaque payload (normally a data URI) and is never interpreted.
type Identity struct {
	Username string `yaml:"username" json:"username"`
	Avatar   string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
}

// HasAvatar reports whether an avatar payload is present.
func (i Identity) HasAvatar() bool {
	return i.Avatar != ""
}

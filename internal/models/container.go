package models

// StorageMode indicates where the encrypted payload lives
type StorageMode string

const (
	// StorageModeClient means the container is a downloadable offline artifact
	StorageModeClient StorageMode = "client"
	// StorageModeServer means the container is retained server-side and reachable by token
	StorageModeServer StorageMode = "server"
)

// ContainerMetadata is the metadata block embedded in an offline container.
// It is readable without any decryption key. Timestamps are carried as the
// server's ISO-8601 strings so a parse/serialize round trip is lossless.
type ContainerMetadata struct {
	Filename          string      `json:"filename"`
	CreatedAt         string      `json:"created_at"`
	ExpiresAt         string      `json:"expires_at,omitempty"`
	MaxViews          int         `json:"max_views,omitempty"`
	CurrentViews      int         `json:"current_views"`
	PasswordProtected bool        `json:"password_protected"`
	StorageMode       StorageMode `json:"storage_mode,omitempty"`
	ViewOnly          bool        `json:"view_only,omitempty"`
}

// ViewsRemaining returns the number of successful retrievals left, or -1
// when the container is not view-limited.
func (m *ContainerMetadata) ViewsRemaining() int {
	if m.MaxViews <= 0 {
		return -1
	}
	remaining := m.MaxViews - m.CurrentViews
	if remaining < 0 {
		return 0
	}
	return remaining
}

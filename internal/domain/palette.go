// Package domain contains the persisted entities of the Colored In service:
// user palettes, subscriptions and feed items.
package domain

import "time"

// Palette is a user-created palette persisted by the palette store.
// Generated catalog palettes live in package palette and are never stored.
type Palette struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Colors    []string  `json:"colors"` // Uppercase "#RRGGBB"
	Tags      []string  `json:"tags"`   // Lowercase, deduplicated
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (p *Palette) Touch() {
	p.UpdatedAt = time.Now()
}

// OwnedBy reports whether userID owns the palette.
func (p *Palette) OwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

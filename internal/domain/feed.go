package domain

// FeedSource tells clients where a feed item came from.
type FeedSource string

// Feed sources.
const (
	FeedSourceUser    FeedSource = "user"
	FeedSourceCatalog FeedSource = "catalog"
)

// FeedItem is one entry of the merged palette feed. User palettes are listed
// ahead of generated catalog palettes.
type FeedItem struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Colors  []string   `json:"colors"`
	Tags    []string   `json:"tags"`
	Source  FeedSource `json:"source"`
	IsFree  bool       `json:"is_free"`
	OwnerID string     `json:"owner_id,omitempty"`
}

package redis

// GuestImagePool mirrors the Postgres image pool for guest sessions. Kept as
// a JSON blob with a TTL; a guest who walks away loses nothing worth keeping.
type GuestImagePool struct {
	PlayerKey    string   `json:"player_key"`
	AvailableIDs []string `json:"available_ids"`
	UsedIDs      []string `json:"used_ids"`
	TotalImages  int      `json:"total_images"`
	Version      int      `json:"version"` // bumped on every write, draws CAS on it
	CreatedAt    int64    `json:"created_at"`
}

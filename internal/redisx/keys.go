package redisx

import "time"

const (
	// Admin session record: session:{jti} -> username. Deleted on logout,
	// expires with the token.
	KeySession = "session:%s"

	// Cached admin_settings map (all keys, JSON object).
	KeySettings = "settings:all"

	// Cached activity ticker lines per language: activity:{lang} -> JSON array.
	KeyActivity = "activity:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSettings = 30 * time.Second
	TTLActivity = 30 * time.Second
	TTLDedup    = 48 * time.Hour
)

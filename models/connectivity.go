package models

import "time"

// ConnectivityState is the monitor's current belief about network
// reachability. It is derived state: recomputed from the link probe and the
// health check on every evaluation, never persisted.
type ConnectivityState struct {
	Online        bool      `json:"isOnline"`
	LastCheckedAt time.Time `json:"lastCheckedAt"`
}

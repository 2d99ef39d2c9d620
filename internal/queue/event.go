// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notification log lines.
package queue

// ArtistFollowedEvent is published when a user starts following an artist
// (not on unfollow). Downstream consumers can notify the artist without
// querying the primary database.
type ArtistFollowedEvent struct {
	ArtistID         uint64 `json:"artist_id"`
	FollowerID       uint64 `json:"follower_id"`
	FollowerUsername string `json:"follower_username"`
	FollowerCount    int64  `json:"follower_count"`
	FollowedAt       string `json:"followed_at"`
}

// ProfileUpdatedEvent is published after a successful profile
// reconciliation so search/feed consumers can refresh their copies.
type ProfileUpdatedEvent struct {
	ArtistID  uint64   `json:"artist_id"`
	Username  string   `json:"username"`
	Styles    []string `json:"styles"`
	Languages []string `json:"languages"`
	NewImages int      `json:"new_images"`
	UpdatedAt string   `json:"updated_at"`
}

package model

// artist.go defines the denormalized shapes returned by the profile
// aggregation queries.  A Profile always carries the base user fields;
// the Artist pointer is populated only for artist accounts, so clients
// never see half-filled artist fields on a plain user.

// PortfolioImage is one uploaded portfolio piece, newest first in listings.
type PortfolioImage struct {
	ID        uint64 `json:"id"`
	ImagePath string `json:"image_path"`
}

// ArtistInfo groups the artist-only part of an aggregated profile.
type ArtistInfo struct {
	Bio          string           `json:"bio"`
	Availability bool             `json:"availability"`
	PricePolicy  string           `json:"price_policy"`
	StyleIDs     []uint64         `json:"style_ids"`
	Styles       []string         `json:"styles"`
	LanguageIDs  []uint64         `json:"language_ids"`
	Languages    []string         `json:"languages"`
	Portfolio    []PortfolioImage `json:"portfolio"`
	Sales        int64            `json:"sales"`
	Reviews      int64            `json:"reviews"`
	Rating       float64          `json:"rating"`
}

// Profile is the full aggregate assembled for GET /profile and
// GET /artist/:id.
type Profile struct {
	ID           uint64      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	ProfileImage string      `json:"profile_image"`
	RegisteredAt string      `json:"registered_at"`
	IsArtist     bool        `json:"is_artist"`
	Role         string      `json:"role"`
	Followers    int64       `json:"followers"`
	Following    int64       `json:"following"`
	Favorites    int64       `json:"favorites"`
	Purchases    int64       `json:"purchases"`
	Artist       *ArtistInfo `json:"artist,omitempty"`
}

// ArtistCard is the compact row used by the bulk artist listing.  Styles
// arrive from MySQL as a single GROUP_CONCAT string and are split into a
// slice before the card is serialized.
type ArtistCard struct {
	ID           uint64   `json:"id"`
	Username     string   `json:"username"`
	ProfileImage string   `json:"profile_image"`
	Bio          string   `json:"bio"`
	Availability bool     `json:"availability"`
	Styles       []string `json:"styles"`
	Rating       float64  `json:"rating"`
}

package model

// Style is a seeded reference entity describing an art style (e.g. chibi,
// realism).  Artists attach styles through the artist_styles join table.
type Style struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Language is a seeded reference entity for the languages an artist can
// work in, joined through artist_languages.
type Language struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

package model

// Movie is the catalog entry a room screens and a booking refers to.
type Movie struct {
    ID          uint64 // movies.id
    Title       string // movies.title
    Synopsis    string // movies.synopsis
    DurationMin uint32 // movies.duration_min
    PosterURL   string // movies.poster_url
}

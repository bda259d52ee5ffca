package model

import "time"

// Movie is a film that can be scheduled into screenings.  This struct
// corresponds to a row in the `movies` table.
//
// Fields:
//
//	ID              – primary key identifier.
//	Title           – display title.
//	DurationMinutes – running time in minutes.
//	CreatedAt       – timestamp when the movie was created.
type Movie struct {
	ID              uint64    `json:"id"`               // movies.id
	Title           string    `json:"title"`            // movies.title
	DurationMinutes uint32    `json:"duration_minutes"` // movies.duration_minutes
	CreatedAt       time.Time `json:"-"`                // movies.created_at
}

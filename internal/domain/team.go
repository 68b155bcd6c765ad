package domain

import "time"

// Team is a handling team in the routing directory. The directory is
// read-only for this service; rows are seeded by migration.
type Team struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

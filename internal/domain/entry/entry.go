package entry

import "time"

// DataEntry is a row in the free-form data section of the back office.
type DataEntry struct {
	ID           string
	Name         string
	RandomNumber int
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package recordstore

import "github.com/rosterops/rosterctl/rosterctl/roster"

// RecordStore owns roster persistence. The whole roster is the unit of
// read and write: callers load, mutate in memory, and save the full
// roster back.
type RecordStore interface {
	// Load reads the entire roster. A store that has never been written
	// loads as an empty roster, not an error.
	Load() (roster.Roster, error)

	// Save overwrites the stored roster with the one given.
	Save(r roster.Roster) error
}

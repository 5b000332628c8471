package roster

import (
	"fmt"
	"time"
)

// Position is the role a user holds in the organisation.
type Position string

const (
	PositionTTP       Position = "TTP"
	PositionSecretary Position = "Secretary"
	PositionAdmin     Position = "Admin"
)

// ParsePosition maps a stored string onto a Position, rejecting anything
// outside the three recognized values.
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionTTP, PositionSecretary, PositionAdmin:
		return Position(s), nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Status is the account lifecycle state.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusLocked   Status = "Locked"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusLocked:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// UserRecord is one roster entry. Handle is unique across the roster after
// any successful write; Credential is stored as entered unless credential
// hashing is enabled on the account service.
type UserRecord struct {
	Surname    string
	GivenName  string
	Position   Position
	Handle     string
	Credential string
	Status     Status
	LastLogin  time.Time
}

// FullName returns the display name used for directory provisioning.
func (u UserRecord) FullName() string {
	return u.GivenName + " " + u.Surname
}

// Roster is the full ordered collection of user records. The whole roster
// is the unit of read and write; there is no partial-update primitive.
type Roster []UserRecord

// Handles returns the set of handles currently in the roster.
func (r Roster) Handles() map[string]struct{} {
	handles := make(map[string]struct{}, len(r))
	for _, rec := range r {
		handles[rec.Handle] = struct{}{}
	}
	return handles
}

// FindByHandle returns the index of the record with the given handle, or -1.
func (r Roster) FindByHandle(handle string) int {
	for i, rec := range r {
		if rec.Handle == handle {
			return i
		}
	}
	return -1
}

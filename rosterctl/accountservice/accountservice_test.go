package accountservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rosterops/rosterctl/rosterctl/roster"
)

var fixedTime = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, options ...Option) *AccountService {
	t.Helper()
	options = append(options, WithClock(func() time.Time { return fixedTime }))
	return New(nil, options...)
}

func seedRoster() roster.Roster {
	return roster.Roster{
		{Surname: "Dupont", GivenName: "Jean", Position: roster.PositionTTP, Handle: "jdupont", Credential: "Abcdefg!", Status: roster.StatusActive},
		{Surname: "Martin", GivenName: "Paul", Position: roster.PositionAdmin, Handle: "pmartin", Credential: "Qwerty$1", Status: roster.StatusLocked},
		{Surname: "Durand", GivenName: "Anne", Position: roster.PositionSecretary, Handle: "adurand", Credential: "Zxcvbn?2", Status: roster.StatusInactive},
	}
}

func TestListActive(t *testing.T) {
	s := newService(t)

	active := s.ListActive(seedRoster())
	require.Len(t, active, 1)
	assert.Equal(t, "jdupont", active[0].Handle)
}

func TestListActiveEmpty(t *testing.T) {
	s := newService(t)

	active := s.ListActive(roster.Roster{})
	assert.NotNil(t, active)
	assert.Empty(t, active)
}

func TestCreate(t *testing.T) {
	s := newService(t)
	r := seedRoster()

	rec, updated, err := s.Create(r, "Petit", "Marie", roster.PositionSecretary, "Strong!Pw")
	require.NoError(t, err)

	assert.Equal(t, "mpetit", rec.Handle)
	assert.Equal(t, roster.StatusActive, rec.Status)
	assert.Equal(t, fixedTime, rec.LastLogin)
	assert.Len(t, updated, 4)
	assert.Equal(t, rec, updated[3], "new record is appended, not inserted")
	assert.Len(t, r, 3, "input roster is not modified")
}

func TestCreateDuplicateHandle(t *testing.T) {
	s := newService(t)

	rec, updated, err := s.Create(seedRoster(), "Dupont", "Jacques", roster.PositionTTP, "Strong!Pw")
	require.NoError(t, err)
	assert.Equal(t, "jdupont1", rec.Handle)

	rec2, _, err := s.Create(updated, "Dupont", "Jeanne", roster.PositionTTP, "Strong!Pw")
	require.NoError(t, err)
	assert.Equal(t, "jdupont2", rec2.Handle)
}

func TestCreateBlankSurname(t *testing.T) {
	s := newService(t)
	r := seedRoster()

	_, updated, err := s.Create(r, "  ", "Marie", roster.PositionTTP, "Strong!Pw")
	assert.True(t, IsValidation(err))
	assert.Equal(t, r, updated, "roster unchanged on validation failure")
}

func TestCreateBlankGivenName(t *testing.T) {
	s := newService(t)

	_, _, err := s.Create(seedRoster(), "Petit", "", roster.PositionTTP, "Strong!Pw")
	assert.True(t, IsValidation(err))
}

func TestCreateUnknownPosition(t *testing.T) {
	s := newService(t)

	_, _, err := s.Create(seedRoster(), "Petit", "Marie", roster.Position("Janitor"), "Strong!Pw")
	assert.True(t, IsValidation(err))
}

func TestCreateWeakCredential(t *testing.T) {
	s := newService(t)
	r := seedRoster()

	_, updated, err := s.Create(r, "Petit", "Marie", roster.PositionTTP, "weak")
	assert.True(t, IsValidation(err))
	assert.Equal(t, r, updated)
}

func TestAuthenticate(t *testing.T) {
	s := newService(t)
	r := seedRoster()

	rec, updated, err := s.Authenticate(r, "jdupont", "Abcdefg!")
	require.NoError(t, err)
	assert.Equal(t, fixedTime, rec.LastLogin)

	// Only LastLogin on the matched record changes; everything else is
	// identical before and after.
	require.Len(t, updated, len(r))
	for i := range r {
		if r[i].Handle == "jdupont" {
			want := r[i]
			want.LastLogin = fixedTime
			assert.Equal(t, want, updated[i])
			continue
		}
		assert.Equal(t, r[i], updated[i])
	}
	assert.True(t, r[0].LastLogin.IsZero(), "input roster is not modified in place")
}

func TestAuthenticateUnknownHandle(t *testing.T) {
	s := newService(t)

	_, _, err := s.Authenticate(seedRoster(), "nobody", "Abcdefg!")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticateLockedBeatsCredential(t *testing.T) {
	s := newService(t)

	// Locked wins even when the credential is correct.
	_, _, err := s.Authenticate(seedRoster(), "pmartin", "Qwerty$1")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthenticateInactive(t *testing.T) {
	s := newService(t)

	_, _, err := s.Authenticate(seedRoster(), "adurand", "Zxcvbn?2")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticateWrongCredential(t *testing.T) {
	s := newService(t)

	_, _, err := s.Authenticate(seedRoster(), "jdupont", "abcdefg!")
	assert.ErrorIs(t, err, ErrInvalidCredential, "comparison is case-sensitive")
}

func TestCredentialHashing(t *testing.T) {
	s := newService(t, WithCredentialHashing())

	rec, updated, err := s.Create(roster.Roster{}, "Petit", "Marie", roster.PositionTTP, "Strong!Pw")
	require.NoError(t, err)
	assert.NotEqual(t, "Strong!Pw", rec.Credential)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.Credential), []byte("Strong!Pw")))

	_, _, err = s.Authenticate(updated, rec.Handle, "Strong!Pw")
	assert.NoError(t, err)

	_, _, err = s.Authenticate(updated, rec.Handle, "Wrong!Pw1")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthenticatePlaintextDollarPrefix(t *testing.T) {
	// "$" is in the special-character set, so a strong plaintext
	// credential can legitimately start with "$2". It must still compare
	// exactly, not as a bcrypt hash.
	s := newService(t)

	rec, updated, err := s.Create(roster.Roster{}, "Dupont", "Jean", roster.PositionTTP, "$2Abcdefg")
	require.NoError(t, err)
	assert.Equal(t, "$2Abcdefg", rec.Credential, "hashing off stores the credential verbatim")

	_, _, err = s.Authenticate(updated, rec.Handle, "$2Abcdefg")
	assert.NoError(t, err, "correct credential must authenticate")

	_, _, err = s.Authenticate(updated, rec.Handle, "$2abcdefg")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthenticateMixedRoster(t *testing.T) {
	// A hashed record authenticates even when hashing is off: the stored
	// value parsing as a bcrypt hash decides the comparison.
	hashed, err := bcrypt.GenerateFromPassword([]byte("Strong!Pw"), bcrypt.DefaultCost)
	require.NoError(t, err)

	r := roster.Roster{
		{Surname: "Petit", GivenName: "Marie", Position: roster.PositionTTP, Handle: "mpetit", Credential: string(hashed), Status: roster.StatusActive},
	}

	s := newService(t)
	_, _, err = s.Authenticate(r, "mpetit", "Strong!Pw")
	assert.NoError(t, err)
}

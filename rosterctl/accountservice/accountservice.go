package accountservice

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rosterops/rosterctl/logger"
	"github.com/rosterops/rosterctl/rosterctl/handle"
	"github.com/rosterops/rosterctl/rosterctl/roster"
	"github.com/rosterops/rosterctl/rosterctl/validator"
)

// AccountService implements the roster account operations: listing active
// accounts, creating accounts, and authenticating. It operates on a
// borrowed roster; the caller persists the returned roster when an
// operation mutates it.
type AccountService struct {
	hashCredentials bool
	now             func() time.Time
	log             logger.Logger
}

type Option func(*AccountService)

// WithCredentialHashing stores bcrypt hashes instead of the raw
// credential. Off by default; the flat-file format is otherwise plaintext.
func WithCredentialHashing() Option {
	return func(s *AccountService) {
		s.hashCredentials = true
	}
}

// WithClock overrides the time source. Tests use this to pin LastLogin.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		s.now = now
	}
}

func New(log logger.Logger, options ...Option) *AccountService {
	if log == nil {
		log = logger.Discard()
	}
	s := &AccountService{
		now: time.Now,
		log: log,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// ListActive returns the active records in roster order. An empty result
// is not an error.
func (s *AccountService) ListActive(r roster.Roster) roster.Roster {
	active := roster.Roster{}
	for _, rec := range r {
		if rec.Status == roster.StatusActive {
			active = append(active, rec)
		}
	}
	return active
}

// Create appends a new active account to the roster and returns both the
// created record and the updated roster. The input roster is never
// modified on failure. Existing records are never rewritten by this path.
func (s *AccountService) Create(r roster.Roster, surname, givenName string, position roster.Position, credential string) (roster.UserRecord, roster.Roster, error) {
	if validator.IsBlank(surname) {
		return roster.UserRecord{}, r, &ValidationError{Field: "surname", Reason: "must not be blank"}
	}
	if validator.IsBlank(givenName) {
		return roster.UserRecord{}, r, &ValidationError{Field: "given name", Reason: "must not be blank"}
	}
	if _, err := roster.ParsePosition(string(position)); err != nil {
		return roster.UserRecord{}, r, &ValidationError{Field: "position", Reason: err.Error()}
	}
	if !validator.IsStrongPassword(credential) {
		return roster.UserRecord{}, r, &ValidationError{Field: "credential", Reason: "does not meet the strength policy"}
	}

	h := handle.Generate(givenName, surname, r.Handles())
	if base := handle.Generate(givenName, surname, nil); base != h {
		// Informational only: the generator already disambiguated.
		s.log.Info("base handle already taken, using suffixed handle", "handle", h)
	}

	stored := credential
	if s.hashCredentials {
		hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
		if err != nil {
			return roster.UserRecord{}, r, err
		}
		stored = string(hashed)
	}

	rec := roster.UserRecord{
		Surname:    surname,
		GivenName:  givenName,
		Position:   position,
		Handle:     h,
		Credential: stored,
		Status:     roster.StatusActive,
		LastLogin:  s.now(),
	}

	updated := make(roster.Roster, len(r), len(r)+1)
	copy(updated, r)
	updated = append(updated, rec)

	s.log.Debug("account created", "handle", rec.Handle, "position", rec.Position)
	return rec, updated, nil
}

// Authenticate checks a handle/credential pair against the roster. On
// success it updates LastLogin on the matched record and returns the
// updated record plus the full updated roster; the caller must persist
// the whole roster. The check order is fixed: existence, lock, inactive,
// credential.
func (s *AccountService) Authenticate(r roster.Roster, h, credential string) (roster.UserRecord, roster.Roster, error) {
	i := r.FindByHandle(h)
	if i < 0 {
		return roster.UserRecord{}, r, ErrNotFound
	}

	rec := r[i]
	if rec.Status == roster.StatusLocked {
		return roster.UserRecord{}, r, ErrAccountLocked
	}
	if rec.Status == roster.StatusInactive {
		return roster.UserRecord{}, r, ErrAccountInactive
	}
	if !credentialMatches(rec.Credential, credential) {
		return roster.UserRecord{}, r, ErrInvalidCredential
	}

	updated := make(roster.Roster, len(r))
	copy(updated, r)
	updated[i].LastLogin = s.now()

	s.log.Debug("authentication succeeded", "handle", h)
	return updated[i], updated, nil
}

// credentialMatches compares the stored credential with the one supplied.
// A stored value that parses as a bcrypt hash is compared as one, so
// rosters written before hashing was enabled keep authenticating; anything
// else is an exact case-sensitive match, including plaintext credentials
// that merely start with "$2".
func credentialMatches(stored, supplied string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}

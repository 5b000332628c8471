package provisioner

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/rosterops/rosterctl/logger"
	"github.com/rosterops/rosterctl/rosterctl/config"
	"github.com/rosterops/rosterctl/rosterctl/directory"
	"github.com/rosterops/rosterctl/rosterctl/roster"
)

// DirectoryError wraps a directory-layer failure for one record. Export
// failures are per-record and never abort the batch.
type DirectoryError struct {
	Handle string
	Op     string
	Err    error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Handle, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ExportSummary tallies the outcome of one export run.
type ExportSummary struct {
	Created   int
	Skipped   int
	Errors    int
	Processed int
}

// Provisioner reconciles roster records against the external directory.
type Provisioner struct {
	dir          directory.Directory
	mapping      config.DirectoryMapping
	domainSuffix string
	log          logger.Logger
}

func New(dir directory.Directory, mapping config.DirectoryMapping, domainSuffix string, log logger.Logger) *Provisioner {
	if log == nil {
		log = logger.Discard()
	}
	return &Provisioner{
		dir:          dir,
		mapping:      mapping,
		domainSuffix: domainSuffix,
		log:          log,
	}
}

// ExportAll provisions every roster record into the directory, in roster
// order. Records already present are skipped, which makes repeated runs
// idempotent. Each record's fate is independent: a failure is tallied and
// accumulated, never fatal to the rest of the batch. The returned error
// collects the per-record failures and is nil on a clean run.
func (p *Provisioner) ExportAll(r roster.Roster) (ExportSummary, error) {
	summary := ExportSummary{}
	var errs *multierror.Error

	for _, rec := range r {
		summary.Processed++

		outcome, err := p.exportOne(rec)
		switch outcome {
		case outcomeSkipped:
			summary.Skipped++
			p.log.Debug("already in directory, skipped", "handle", rec.Handle)
		case outcomeCreated:
			summary.Created++
			p.log.Info("provisioned account", "handle", rec.Handle)
		case outcomeError:
			summary.Errors++
			errs = multierror.Append(errs, err)
			p.log.Error("failed to provision account", "handle", rec.Handle, "error", err)
		}
	}

	return summary, errs.ErrorOrNil()
}

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
	outcomeError
)

func (p *Provisioner) exportOne(rec roster.UserRecord) (outcome, error) {
	existing, err := p.dir.FindByHandle(rec.Handle)
	if err != nil {
		return outcomeError, &DirectoryError{Handle: rec.Handle, Op: "lookup", Err: err}
	}
	if existing != nil {
		return outcomeSkipped, nil
	}

	entry, ok := p.mapping[rec.Position]
	if !ok {
		return outcomeError, &DirectoryError{
			Handle: rec.Handle,
			Op:     "resolve placement for",
			Err:    fmt.Errorf("no mapping for position %q", rec.Position),
		}
	}

	acct := directory.Account{
		FullName:             rec.FullName(),
		GivenName:            rec.GivenName,
		Surname:              rec.Surname,
		Handle:               rec.Handle,
		PrincipalName:        rec.Handle + p.domainSuffix,
		OU:                   entry.OU,
		Enabled:              rec.Status == roster.StatusActive,
		ForceCredentialReset: true,
	}
	if err := p.dir.CreateAccount(acct); err != nil {
		return outcomeError, &DirectoryError{Handle: rec.Handle, Op: "create", Err: err}
	}

	// A group failure counts the whole record as an error; the created
	// account is not rolled back.
	if entry.Group != "" {
		if err := p.dir.AddToGroup(entry.Group, rec.Handle); err != nil {
			return outcomeError, &DirectoryError{Handle: rec.Handle, Op: "add to group", Err: err}
		}
	}

	return outcomeCreated, nil
}

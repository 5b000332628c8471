package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rosterops/rosterctl/logger"
	"github.com/rosterops/rosterctl/rosterctl/accountservice"
	"github.com/rosterops/rosterctl/rosterctl/provisioner"
	"github.com/rosterops/rosterctl/rosterctl/recordstore"
	"github.com/rosterops/rosterctl/rosterctl/roster"
)

// Exporter is what the menu needs from the directory provisioner.
type Exporter interface {
	ExportAll(r roster.Roster) (provisioner.ExportSummary, error)
}

// Menu drives the operator-facing loop: five actions dispatched to the
// account service and the provisioner, reading and writing the roster
// through the record store around each one.
type Menu struct {
	store    recordstore.RecordStore
	accounts *accountservice.AccountService
	exporter Exporter
	log      logger.Logger

	in  *bufio.Reader
	out io.Writer

	// ReadCredential reads a credential without echoing. Tests replace it
	// with a scripted reader.
	ReadCredential func() (string, error)
}

func New(store recordstore.RecordStore, accounts *accountservice.AccountService, exporter Exporter, log logger.Logger, in io.Reader, out io.Writer) *Menu {
	if log == nil {
		log = logger.Discard()
	}
	return &Menu{
		store:    store,
		accounts: accounts,
		exporter: exporter,
		log:      log,
		in:       bufio.NewReader(in),
		out:      out,
		ReadCredential: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			return string(b), err
		},
	}
}

// Run loops until the operator quits or input ends.
func (m *Menu) Run() error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "1) List active accounts")
		fmt.Fprintln(m.out, "2) Create account")
		fmt.Fprintln(m.out, "3) Authenticate")
		fmt.Fprintln(m.out, "4) Export to directory")
		fmt.Fprintln(m.out, "5) Quit")

		choice, err := m.prompt("Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			err = m.listActive()
		case "2":
			err = m.createAccount()
		case "3":
			err = m.authenticate()
		case "4":
			err = m.export()
		case "5":
			return nil
		default:
			fmt.Fprintf(m.out, "Unknown choice %q\n", choice)
			continue
		}

		// No operation is fatal; report and return to the menu.
		if err != nil {
			fmt.Fprintf(m.out, "Operation failed: %v\n", err)
		}
	}
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) listActive() error {
	r, err := m.store.Load()
	if err != nil {
		return err
	}

	active := m.accounts.ListActive(r)
	if len(active) == 0 {
		fmt.Fprintln(m.out, "No active accounts.")
		return nil
	}
	for _, rec := range active {
		fmt.Fprintf(m.out, "%-12s %-20s %-10s last login %s\n",
			rec.Handle, rec.FullName(), rec.Position, rec.LastLogin.Format("2006-01-02 15:04"))
	}
	return nil
}

func (m *Menu) createAccount() error {
	r, err := m.store.Load()
	if err != nil {
		return err
	}

	surname, err := m.prompt("Surname: ")
	if err != nil {
		return err
	}
	givenName, err := m.prompt("Given name: ")
	if err != nil {
		return err
	}
	position, err := m.prompt(fmt.Sprintf("Position (%s/%s/%s): ",
		roster.PositionTTP, roster.PositionSecretary, roster.PositionAdmin))
	if err != nil {
		return err
	}

	// A weak credential is re-prompted, not fatal; an empty entry cancels.
	for {
		fmt.Fprint(m.out, "Credential: ")
		credential, err := m.ReadCredential()
		if err != nil {
			return err
		}
		if credential == "" {
			fmt.Fprintln(m.out, "Cancelled.")
			return nil
		}

		rec, updated, err := m.accounts.Create(r, surname, givenName, roster.Position(position), credential)
		if err != nil {
			var ve *accountservice.ValidationError
			if errors.As(err, &ve) && ve.Field == "credential" {
				fmt.Fprintln(m.out, "Credential does not meet the strength policy, try again.")
				continue
			}
			return err
		}

		if err := m.store.Save(updated); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Created account %s\n", rec.Handle)
		return nil
	}
}

func (m *Menu) authenticate() error {
	r, err := m.store.Load()
	if err != nil {
		return err
	}

	h, err := m.prompt("Handle: ")
	if err != nil {
		return err
	}
	fmt.Fprint(m.out, "Credential: ")
	credential, err := m.ReadCredential()
	if err != nil {
		return err
	}

	rec, updated, err := m.accounts.Authenticate(r, h, credential)
	if err != nil {
		return err
	}

	if err := m.store.Save(updated); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Welcome %s\n", rec.FullName())
	return nil
}

func (m *Menu) export() error {
	r, err := m.store.Load()
	if err != nil {
		return err
	}

	summary, err := m.exporter.ExportAll(r)
	fmt.Fprintf(m.out, "Export: %d created, %d skipped, %d errors (%d processed)\n",
		summary.Created, summary.Skipped, summary.Errors, summary.Processed)
	if err != nil {
		m.log.Warn("export finished with errors", "errors", summary.Errors)
		fmt.Fprintf(m.out, "Failures:\n%v\n", err)
	}
	return nil
}

package recordstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rosterops/rosterctl/rosterctl/roster"
)

// Field order in the store file. One record per line.
const fieldCount = 7

// FileRecordStore persists the roster as delimited UTF-8 text, one record
// per line with a configurable single-rune field separator. Saves go
// through a temp file and an atomic rename so a crash mid-write never
// leaves a half-written roster behind.
type FileRecordStore struct {
	Path      string
	Separator rune
}

func NewFileRecordStore(path string, separator rune) *FileRecordStore {
	return &FileRecordStore{Path: path, Separator: separator}
}

func (s *FileRecordStore) Load() (roster.Roster, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return roster.Roster{}, nil
		}
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = s.Separator
	reader.FieldsPerRecord = fieldCount

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster file %s: %w", s.Path, err)
	}

	r := make(roster.Roster, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("roster file %s line %d: %w", s.Path, i+1, err)
		}
		r = append(r, rec)
	}
	return r, nil
}

func (s *FileRecordStore) Save(r roster.Roster) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".roster-*")
	if err != nil {
		return fmt.Errorf("create temp roster file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	writer.Comma = s.Separator
	for _, rec := range r {
		if err := writer.Write(formatRecord(rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("write roster record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush roster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp roster file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace roster file: %w", err)
	}
	return nil
}

func parseRecord(row []string) (roster.UserRecord, error) {
	position, err := roster.ParsePosition(row[2])
	if err != nil {
		return roster.UserRecord{}, err
	}
	status, err := roster.ParseStatus(row[5])
	if err != nil {
		return roster.UserRecord{}, err
	}

	var lastLogin time.Time
	if row[6] != "" {
		lastLogin, err = time.Parse(time.RFC3339, row[6])
		if err != nil {
			return roster.UserRecord{}, fmt.Errorf("bad last-login timestamp: %w", err)
		}
	}

	return roster.UserRecord{
		Surname:    row[0],
		GivenName:  row[1],
		Position:   position,
		Handle:     row[3],
		Credential: row[4],
		Status:     status,
		LastLogin:  lastLogin,
	}, nil
}

func formatRecord(rec roster.UserRecord) []string {
	lastLogin := ""
	if !rec.LastLogin.IsZero() {
		lastLogin = rec.LastLogin.Format(time.RFC3339)
	}
	return []string{
		rec.Surname,
		rec.GivenName,
		string(rec.Position),
		rec.Handle,
		rec.Credential,
		string(rec.Status),
		lastLogin,
	}
}

package fs

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/linkbot"
)

// Ensure CSVStore implements linkbot.ProfileStore at compile time.
var _ linkbot.ProfileStore = (*CSVStore)(nil)

// CSVHeader is the header row written by CSVStore.
var CSVHeader = []string{"name", "title", "location", "current_company", "profile_url"}

// CSVStore appends one line per record. The header is written when the file
// is empty.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore returns a store appending to path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Init truncates the file and writes the header.
func (s *CSVStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	return writeRows(f, CSVHeader)
}

func (s *CSVStore) Append(ctx context.Context, rec *linkbot.ProfileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	var rows [][]string
	if info.Size() == 0 {
		rows = append(rows, CSVHeader)
	}
	rows = append(rows, []string{rec.Name, rec.Title, rec.Location, rec.CurrentCompany, rec.ProfileURL})
	return writeRows(f, rows...)
}

// writeRows writes rows to f, syncs and closes it.
func writeRows(f *os.File, rows ...[]string) error {
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

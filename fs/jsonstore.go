package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/fwojciec/linkbot"
)

// Ensure JSONStore implements linkbot.ProfileStore at compile time.
var _ linkbot.ProfileStore = (*JSONStore)(nil)

// JSONStore keeps records as a single pretty-printed JSON array. Every
// Append rewrites the whole file atomically, so the file is always a valid
// array holding every record appended so far.
type JSONStore struct {
	path string

	mu   sync.Mutex
	recs []linkbot.ProfileRecord
}

// NewJSONStore returns a store writing to path. Call Init to start a fresh
// file or Open to continue an existing one.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

// Init replaces any existing file with an empty array.
func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = nil
	return s.flush()
}

// Open loads the records already in the file. A missing file is created.
func (s *JSONStore) Open() error {
	recs, err := ReadProfiles(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.Init()
	} else if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
	return nil
}

// Append adds rec and rewrites the file. The in-memory state is rolled back
// when the write fails.
func (s *JSONStore) Append(ctx context.Context, rec *linkbot.ProfileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, *rec)
	if err := s.flush(); err != nil {
		s.recs = s.recs[:len(s.recs)-1]
		return err
	}
	return nil
}

// Records returns a copy of the records appended so far.
func (s *JSONStore) Records() []linkbot.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]linkbot.ProfileRecord(nil), s.recs...)
}

func (s *JSONStore) flush() error {
	recs := s.recs
	if recs == nil {
		recs = []linkbot.ProfileRecord{}
	}
	data, err := marshalIndent(recs)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// marshalIndent encodes v with two-space indentation, leaving non-ASCII
// and HTML characters unescaped.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadProfiles reads a JSON array of records from path.
func ReadProfiles(path string) ([]linkbot.ProfileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []linkbot.ProfileRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, linkbot.Errorf(linkbot.EINVALID, "reading %s: %v", path, err)
	}
	return recs, nil
}

// ReadProfileURLs returns the non-empty profile URLs stored in path, in
// order and without duplicates.
func ReadProfileURLs(path string) ([]string, error) {
	recs, err := ReadProfiles(path)
	if err != nil {
		return nil, err
	}
	var urls []string
	seen := make(map[string]bool)
	for _, r := range recs {
		u := linkbot.CanonicalProfileURL(r.ProfileURL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

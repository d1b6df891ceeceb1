// Package fs provides file-based storage for collected profiles.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FileSuffix is appended to the result file name derived from a query.
const FileSuffix = "_linkedin_profiles.json"

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// FilenameForQuery derives the result file name for a search query.
// Example: "Security Engineer!" → security_engineer_linkedin_profiles.json
func FilenameForQuery(query string) string {
	name := unsafeChars.ReplaceAllString(strings.ToLower(query), "")
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		name = "search"
	}
	return name + FileSuffix
}

var slugChars = regexp.MustCompile(`[^a-z0-9-]+`)

// ProfileFilename returns a stable file name for a profile URL: the public
// identifier followed by a short hash of the full URL.
func ProfileFilename(profileURL string) string {
	slug := profileURL
	if i := strings.Index(slug, "/in/"); i >= 0 {
		slug = slug[i+len("/in/"):]
	}
	slug = strings.Trim(slugChars.ReplaceAllString(strings.ToLower(slug), "-"), "-")
	if slug == "" {
		slug = "profile"
	}
	sum := xxhash.Sum64String(profileURL)
	return fmt.Sprintf("%s-%08x.json", slug, uint32(sum>>32))
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

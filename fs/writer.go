package fs

import (
	"context"
	"path/filepath"

	"github.com/fwojciec/linkbot"
)

// Ensure ProfileWriter implements linkbot.ProfileWriter at compile time.
var _ linkbot.ProfileWriter = (*ProfileWriter)(nil)

// ProfileWriter writes each parsed profile to its own JSON file in a
// directory. Writing the same profile twice replaces the earlier file.
type ProfileWriter struct {
	baseDir string
}

// NewProfileWriter creates a ProfileWriter rooted at baseDir.
func NewProfileWriter(baseDir string) *ProfileWriter {
	return &ProfileWriter{baseDir: baseDir}
}

// PathFor returns the file a profile URL is written to.
func (w *ProfileWriter) PathFor(profileURL string) string {
	return filepath.Join(w.baseDir, ProfileFilename(profileURL))
}

func (w *ProfileWriter) WriteProfile(ctx context.Context, d *linkbot.ProfileDetails) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.ProfileURL == "" {
		return linkbot.Errorf(linkbot.EINVALID, "profile URL required")
	}
	data, err := marshalIndent(d)
	if err != nil {
		return err
	}
	return writeFileAtomic(w.PathFor(d.ProfileURL), data)
}

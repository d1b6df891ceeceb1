package linkbot

import "strings"

// Site endpoints.
const (
	HomeURL  = "https://www.linkedin.com/"
	LoginURL = "https://www.linkedin.com/login"
)

// commentsSuffix is appended to a profile URL to reach its comment activity.
const commentsSuffix = "recent-activity/comments/"

// Credentials are the account login and password.
type Credentials struct {
	Email    string
	Password string
}

// Config is passed explicitly to every workflow.
type Config struct {
	Credentials Credentials

	// TargetAuthor is matched as a substring of each comment's author text.
	TargetAuthor string

	// ProfileURL is the account's own profile, e.g.
	// https://www.linkedin.com/in/jan-kowalski/.
	ProfileURL string
}

// CommentsURL returns the comment activity view of ProfileURL.
func (c *Config) CommentsURL() string {
	u := strings.TrimSpace(c.ProfileURL)
	if u == "" {
		return ""
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u + commentsSuffix
}

// ValidateLogin checks that credentials are present.
func (c *Config) ValidateLogin() error {
	if c.Credentials.Email == "" {
		return Errorf(EINVALID, "login email required")
	}
	if c.Credentials.Password == "" {
		return Errorf(EINVALID, "login password required")
	}
	return nil
}

// ValidateDeletion checks the settings comment deletion depends on.
func (c *Config) ValidateDeletion() error {
	if strings.TrimSpace(c.TargetAuthor) == "" {
		return Errorf(EINVALID, "comment author required")
	}
	if !strings.Contains(c.ProfileURL, "/in/") {
		return Errorf(EINVALID, "profile URL %q is not a profile link", c.ProfileURL)
	}
	return nil
}

package linkbot

// CommentID identifies a comment on the page. It is opaque: it is read from
// the page and embedded back into lookups unchanged.
type CommentID string

// DeletionReport summarizes a comment deletion run.
type DeletionReport struct {
	Discovered int
	Deleted    []CommentID
	Failed     []CommentID
	Passes     int
}

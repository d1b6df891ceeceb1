package linkbot

import "context"

// Scope is anything elements can be looked up in: a whole page or a
// previously resolved element. Query runs a single strategy and returns
// every match in document order. An invalid selector or a stale scope is
// reported as an error; callers decide whether that means "no match".
type Scope interface {
	Query(ctx context.Context, s Strategy) ([]Element, error)
}

// Element is a handle to a node in a rendered page. Handles may go stale
// when the page re-renders; methods then return an ESTALE error.
type Element interface {
	Scope

	// Text returns the rendered text, with line breaks between blocks.
	Text(ctx context.Context) (string, error)

	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)

	// HTML returns the outer HTML of the element.
	HTML(ctx context.Context) (string, error)

	Click(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error

	// Clear empties an input element.
	Clear(ctx context.Context) error

	// Input types text at the end of the element's current value.
	Input(ctx context.Context, text string) error

	// PressEnter sends the Enter key to the element.
	PressEnter(ctx context.Context) error

	// Connected reports whether the element is still attached to the page.
	Connected(ctx context.Context) (bool, error)
}

// Page is a single browser tab.
type Page interface {
	Scope

	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Reload reloads the current document and waits for the load event.
	Reload(ctx context.Context) error

	URL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)

	// ScrollBy scrolls the window vertically by dy pixels. Negative values
	// scroll up.
	ScrollBy(ctx context.Context, dy int) error

	Close() error
}

// Browser opens pages. Every page opened by a Browser shares its cookies,
// so a page logged in once keeps the session for pages opened later.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

package divination

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound    = errors.New("book does not exist")
	ErrBookNotAssigned = errors.New("no book assigned to chat")
	ErrNoPageSelected  = errors.New("no page selected for chat")
	ErrPageUnavailable = errors.New("page content unavailable")
	// ErrEmptyPage marks a page that tokenizes to zero sentences (separator
	// lines only). The chat stays where it was so another page can be picked.
	ErrEmptyPage = errors.New("page has no sentences")
)

// PageRangeError reports a page number outside [1, Max]. Selecting a page
// anew is cheap, so this error terminates the flow.
type PageRangeError struct {
	Max int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page out of range [1, %d]", e.Max)
}

// SentenceRangeError reports a sentence index outside [1, Count]. The flow
// stays in sentence selection: re-tokenizing the page on every retry would
// be wasteful, so retry happens in place.
type SentenceRangeError struct {
	Count int
}

func (e *SentenceRangeError) Error() string {
	return fmt.Sprintf("sentence out of range [1, %d]", e.Count)
}

package model

// SessionState is the single active dialogue state of one chat.
type SessionState string

const (
	StateIdle           SessionState = ""
	StateBrowsingBooks  SessionState = "browsing_books"
	StatePageSelect     SessionState = "page_select"
	StateSentenceSelect SessionState = "sentence_select"
)

// Session holds the in-flight divination context of one chat.
// BookAuthor/BookTitle are filled on book selection, Page and Sentences on
// page selection; Sentences is cleared once a quote is emitted or the flow
// is cancelled.
type Session struct {
	State      SessionState `json:"state"`
	BookAuthor string       `json:"bookAuthor"`
	BookTitle  string       `json:"bookTitle"`
	Page       int          `json:"page"`
	Sentences  []string     `json:"sentences"`
}

// HasBook reports whether a book selection was made during this session.
func (s Session) HasBook() bool {
	return s.BookTitle != ""
}

// ClearFlow drops everything tied to the current divination attempt but
// keeps the assigned book, so the next page number starts a fresh flow.
func (s *Session) ClearFlow() {
	s.State = StateIdle
	s.Page = 0
	s.Sentences = nil
}

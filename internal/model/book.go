package model

// AbsentField marks a book attribute that was not provided on ingestion.
// Kept as an explicit sentinel so an empty string never has to mean "absent".
const AbsentField = "NULL"

type Book struct {
	ID     int64
	Title  string
	Author string
	Info   string
	// Pages is nil when the book was constructed without body text.
	// When present it holds at least one page.
	Pages []string
}

type BookPreview struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
}

// BooksPage is one screen of the book-picker menu. Books holds at most the
// configured rows-per-page, HasNextPage reports whether the catalog goes on.
type BooksPage struct {
	Books       []BookPreview
	Page        int
	HasNextPage bool
}

type BookSummary struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	Info   string `db:"info"`
}

// Quote is an emitted divination result.
type Quote struct {
	Author   string
	Title    string
	Text     string
	Page     int
	Sentence int
}

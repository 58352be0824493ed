package tgCallback

const (
	PageNone string = "page_none"

	// prefixes, the payload follows
	SelectBook  string = "book_"
	ToBooksPage string = "page_"
)

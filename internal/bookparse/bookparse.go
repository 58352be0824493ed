// Package bookparse reflows raw book text into addressable fixed-geometry
// pages. The reflow is deterministic: page and line numbers shown to users
// must be reproducible from the source text alone.
package bookparse

import (
	"strings"
	"unicode/utf8"

	"book_divination_tgbot/internal/model"
)

// NewBook builds a book with sentinel defaults for absent attributes.
// When text is empty the book gets no pages at all.
func NewBook(author, title, info, text string, lineWidth, pageHeight int) model.Book {
	book := model.Book{
		Title:  orAbsent(title),
		Author: orAbsent(author),
		Info:   orAbsent(info),
	}
	if text != "" {
		book.Pages = PaginateText(text, lineWidth, pageHeight)
	}
	return book
}

func orAbsent(s string) string {
	if s == "" {
		return model.AbsentField
	}
	return s
}

// PaginateText splits raw text into pages of pageHeight lines, each line
// shorter than lineWidth. Each page is its lines joined by "\n". The result
// always holds at least one page. Total over any input.
func PaginateText(raw string, lineWidth, pageHeight int) []string {
	lines := splitLines(raw, lineWidth)

	pageCnt := (len(lines) + pageHeight - 1) / pageHeight
	if pageCnt == 0 {
		pageCnt = 1
	}

	pages := make([]string, 0, pageCnt)
	for from := 0; from < len(lines); from += pageHeight {
		to := from + pageHeight
		if to > len(lines) {
			to = len(lines)
		}
		pages = append(pages, strings.Join(lines[from:to], "\n"))
	}

	if len(pages) == 0 {
		pages = append(pages, "")
	}

	return pages
}

// splitLines word-wraps every paragraph and flattens the result into one
// line stream with an empty separator line after each paragraph.
func splitLines(raw string, lineWidth int) []string {
	lines := []string{""}

	for _, paragraph := range strings.Split(raw, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		lines = addLines(lines, words, lineWidth)
	}

	return lines
}

// addLines packs words into the last line while the packed length stays
// strictly under lineWidth. Length is counted in runes, and the check
// deliberately ignores the separating space: the boundary must stay
// identical to the one the stored page numbers were produced with, so do
// not "fix" it to count the space or to use <=. A single word longer than
// lineWidth keeps its own line unsplit.
func addLines(lines []string, words []string, lineWidth int) []string {
	for _, w := range words {
		last := lines[len(lines)-1]
		if utf8.RuneCountInString(last)+utf8.RuneCountInString(w) < lineWidth {
			if last != "" {
				last += " "
			}
			lines[len(lines)-1] = last + w
		} else {
			lines = append(lines, w)
		}
	}

	// paragraph separator in the flattened stream
	return append(lines, "")
}

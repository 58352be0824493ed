package bookparse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"book_divination_tgbot/internal/model"
)

// ErrBadEncoding marks book source files that are not valid UTF-8. The
// caller reports it per file and moves on to the next book.
var ErrBadEncoding = errors.New("book file is not valid utf-8")

const headerLines = 4

// ReadBook reads a plain-text book from path. The first four lines must be:
//
//	Author.
//	The Title.
//	<blank>
//	Some information about the book.
//
// Everything after the header is the book body.
func ReadBook(path string, lineWidth, pageHeight int) (model.Book, error) {
	slog.Info("reading book", slog.String("path", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Book{}, fmt.Errorf("read book file: %w", err)
	}

	if !utf8.Valid(raw) {
		return model.Book{}, fmt.Errorf("%w: %s", ErrBadEncoding, path)
	}

	parts := strings.SplitN(string(raw), "\n", headerLines+1)
	if len(parts) < headerLines {
		return model.Book{}, fmt.Errorf("book file %s: header must take %d lines", path, headerLines)
	}

	author := strings.TrimSpace(parts[0])
	title := strings.TrimSpace(parts[1])
	info := strings.TrimSpace(parts[3])

	// header only, no body: a book without pages is still a valid record
	text := ""
	if len(parts) > headerLines {
		text = parts[4]
	}

	return NewBook(author, title, info, text, lineWidth, pageHeight), nil
}

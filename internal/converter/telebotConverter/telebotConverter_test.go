package telebotConverter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/model/tg/tgCallback"
)

func books(n int) []model.BookPreview {
	previews := make([]model.BookPreview, 0, n)
	for i := 0; i < n; i++ {
		previews = append(previews, model.BookPreview{
			ID:     int64(i + 1),
			Title:  "Название",
			Author: "Автор",
		})
	}
	return previews
}

func TestBooksMenu_ShortCatalogHasNoPagination(t *testing.T) {
	_, markup := BooksMenu(model.BooksPage{Books: books(2), Page: 1, HasNextPage: false})

	assert.Len(t, markup.InlineKeyboard, 2)
}

func TestBooksMenu_FirstPageWithNext(t *testing.T) {
	_, markup := BooksMenu(model.BooksPage{Books: books(3), Page: 1, HasNextPage: true})

	assert.Len(t, markup.InlineKeyboard, 4)

	pagination := markup.InlineKeyboard[3]
	assert.Len(t, pagination, 2)
	// back side has no rows: blank no-op button keeps layout stable
	assert.Equal(t, " ", pagination[0].Text)
	assert.Equal(t, tgCallback.PageNone, pagination[0].Unique)
	assert.Equal(t, "Далее | 2", pagination[1].Text)
	assert.Equal(t, tgCallback.ToBooksPage+"2", pagination[1].Unique)
}

func TestBooksMenu_LastPageHasBlankNext(t *testing.T) {
	_, markup := BooksMenu(model.BooksPage{Books: books(1), Page: 3, HasNextPage: false})

	pagination := markup.InlineKeyboard[1]
	assert.Equal(t, "Назад | 2", pagination[0].Text)
	assert.Equal(t, " ", pagination[1].Text)
}

func TestBooksMenu_TruncatesLongNames(t *testing.T) {
	long := model.BookPreview{ID: 7, Title: strings.Repeat("о", 80), Author: "Автор"}

	_, markup := BooksMenu(model.BooksPage{Books: []model.BookPreview{long}, Page: 1})

	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, 53, len([]rune(btn.Text))) // 50 chars + ellipsis
	// the identifier is carried untouched in the callback unique slot,
	// which is what arrives as callback data on press
	assert.Equal(t, tgCallback.SelectBook+"7", btn.Unique)
}

func TestBookSummary_AbsentInfo(t *testing.T) {
	text := BookSummary(model.BookSummary{Title: "Книга", Author: "Автор", Info: model.AbsentField})

	assert.Contains(t, text, "нет описания")
	assert.NotContains(t, text, model.AbsentField)
}

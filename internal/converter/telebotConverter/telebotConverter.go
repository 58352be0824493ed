package telebotConverter

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/model/tg/tgCallback"
)

const maxButtonChars = 50

// BooksMenu renders one screen of the book picker. Pagination buttons are
// dropped entirely on the first page of a short catalog; otherwise a blank
// no-op button takes the place of a missing direction so the layout stays
// stable across re-renders.
func BooksMenu(booksPage model.BooksPage) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}

	menuRows := make([]tele.Row, 0, len(booksPage.Books)+1)
	for _, book := range booksPage.Books {
		name := truncate(book.Title+". "+book.Author, maxButtonChars)
		btn := markup.Data(name, tgCallback.SelectBook+strconv.FormatInt(book.ID, 10))
		menuRows = append(menuRows, markup.Row(btn))
	}

	if pagination, ok := switchPageButtons(markup, booksPage); ok {
		menuRows = append(menuRows, pagination)
	}

	markup.Inline(menuRows...)

	return "Выберите книгу", markup
}

func switchPageButtons(markup *tele.ReplyMarkup, booksPage model.BooksPage) (tele.Row, bool) {
	if !booksPage.HasNextPage && booksPage.Page == 1 {
		return tele.Row{}, false
	}

	prevBtn := markup.Data(" ", tgCallback.PageNone)
	if booksPage.Page > 1 {
		prevBtn = markup.Data(
			fmt.Sprintf("Назад | %d", booksPage.Page-1),
			tgCallback.ToBooksPage+strconv.Itoa(booksPage.Page-1),
		)
	}

	nextBtn := markup.Data(" ", tgCallback.PageNone)
	if booksPage.HasNextPage {
		nextBtn = markup.Data(
			fmt.Sprintf("Далее | %d", booksPage.Page+1),
			tgCallback.ToBooksPage+strconv.Itoa(booksPage.Page+1),
		)
	}

	return markup.Row(prevBtn, nextBtn), true
}

// BookSummary formats the post-selection summary. The absent-info sentinel
// is shown as a human phrase, never as the raw marker.
func BookSummary(summary model.BookSummary) string {
	info := summary.Info
	if info == model.AbsentField {
		info = "нет описания"
	}
	return fmt.Sprintf(
		"Вы выбрали: <b>%s</b>\nАвторы: %s\nОписание: %s\nВыбрать другую книгу /book",
		summary.Title, summary.Author, info,
	)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}

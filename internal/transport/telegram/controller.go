package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"book_divination_tgbot/config"
	"book_divination_tgbot/data/session"
	"book_divination_tgbot/internal/converter/telebotConverter"
	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/model/tg/tgCallback"
	"book_divination_tgbot/internal/service/divination"
	"book_divination_tgbot/utils"
)

// pause between the book summary and the page prompt, a small pacing beat
const bookSummaryPause = 500 * time.Millisecond

type DivinationService interface {
	StartChat(ctx context.Context, chatID int64) (known bool, err error)
	BrowseBooks(ctx context.Context, chatID int64, pageNum int) (model.BooksPage, error)
	AssignBook(ctx context.Context, chatID, bookID int64) (model.BookSummary, int, error)
	SelectPage(ctx context.Context, chatID int64, pageNum int) (sentenceCnt int, err error)
	SelectSentence(ctx context.Context, chatID int64, sentNum int) (model.Quote, []byte, error)
	Cancel(ctx context.Context, chatID int64) (hadActive bool, err error)
	ResetFlow(ctx context.Context, chatID int64) error
}

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type Controller struct {
	cfg        *config.Config
	session    Session
	divination DivinationService
}

func NewController(cfg *config.Config, divinationService DivinationService, session Session) *Controller {
	return &Controller{
		cfg:        cfg,
		divination: divinationService,
		session:    session,
	}
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	op := "Controller.getSessionFromTeleCtxOrStorage"
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, c.Chat().ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.Session{}, nil
		}
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) Start(c tele.Context) error {
	op := "Controller.Start"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	known, err := ctrl.divination.StartChat(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from divination.StartChat", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	removeKeyboard := &tele.ReplyMarkup{RemoveKeyboard: true}
	if known {
		return c.Send(activeStartMsg, removeKeyboard)
	}
	return c.Send(startMsg, removeKeyboard)
}

func (ctrl *Controller) Help(c tele.Context) error {
	return c.Send(helpMsg)
}

// ShowBooks opens the book picker at its first page.
func (ctrl *Controller) ShowBooks(c tele.Context) error {
	op := "Controller.ShowBooks"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	booksPage, err := ctrl.divination.BrowseBooks(ctx, c.Chat().ID, 1)
	if err != nil {
		slog.Error("got error from divination.BrowseBooks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.BooksMenu(booksPage)
	return c.Send(text, markup)
}

// SwitchBooksPage re-renders the picker on another catalog page.
func (ctrl *Controller) SwitchBooksPage(c tele.Context) error {
	op := "Controller.SwitchBooksPage"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	defer c.Respond()

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if chatSession.State != model.StateBrowsingBooks {
		return c.Edit(invalidButtonMsg)
	}

	pageStr := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.ToBooksPage)
	pageNum, err := strconv.Atoi(pageStr)
	if err != nil || pageNum < 1 {
		slog.Error(
			"error while converting page from callback",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("pageStr", pageStr),
		)
		return c.Edit(invalidButtonMsg)
	}

	booksPage, err := ctrl.divination.BrowseBooks(ctx, c.Chat().ID, pageNum)
	if err != nil {
		slog.Error("got error from divination.BrowseBooks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	_, markup := telebotConverter.BooksMenu(booksPage)
	return c.Edit(markup)
}

// PageNone answers the blank pagination button without doing anything.
func (ctrl *Controller) PageNone(c tele.Context) error {
	return c.Respond()
}

// SelectBook persists the picked book, shows its summary and prompts for a
// page number.
func (ctrl *Controller) SelectBook(c tele.Context) error {
	op := "Controller.SelectBook"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	defer c.Respond()

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if chatSession.State != model.StateBrowsingBooks {
		return c.Edit(invalidButtonMsg)
	}

	bookIDStr := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.SelectBook)
	bookID, err := strconv.ParseInt(bookIDStr, 10, 64)
	if err != nil {
		slog.Warn(
			"non-numeric book id in callback",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("bookIDStr", bookIDStr),
		)
		return c.Edit(errValueMsg)
	}

	summary, maxPage, err := ctrl.divination.AssignBook(ctx, c.Chat().ID, bookID)
	if err != nil {
		if errors.Is(err, divination.ErrBookNotFound) {
			return c.Edit(errValueMsg)
		}
		slog.Error("got error from divination.AssignBook", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if err = c.Edit(telebotConverter.BookSummary(summary)); err != nil {
		return err
	}

	time.Sleep(bookSummaryPause)

	return c.Send(gatherMaxPageMessage(maxPage))
}

// ProcessSelectPage handles a numeric message as a page pick.
func (ctrl *Controller) ProcessSelectPage(c tele.Context) error {
	op := "Controller.ProcessSelectPage"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	pageNum, ok := parseNumber(c.Text())
	if !ok {
		return c.Send(errSelectPageMsg)
	}

	sentenceCnt, err := ctrl.divination.SelectPage(ctx, c.Chat().ID, pageNum)
	if err != nil {
		var rangeErr *divination.PageRangeError
		switch {
		case errors.Is(err, divination.ErrBookNotAssigned):
			return c.Send(bookIsNullMsg)
		case errors.As(err, &rangeErr):
			return c.Send(errSelectPageMsg + fmt.Sprintf(maxPagePhrase, rangeErr.Max))
		case errors.Is(err, divination.ErrEmptyPage):
			return c.Send(emptyPageMsg)
		case errors.Is(err, divination.ErrPageUnavailable):
			return c.Send(internalErrMsg)
		default:
			slog.Error("got error from divination.SelectPage", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return c.Send(internalErrMsg)
		}
	}

	return c.Send(selectSentMsg + fmt.Sprintf(maxSentPhrase, sentenceCnt))
}

// ProcessSelectSentence handles a numeric message as a sentence pick and
// emits the fortune: confirmation first, then the quote and its card after
// a short reveal pause.
func (ctrl *Controller) ProcessSelectSentence(c tele.Context) error {
	op := "Controller.ProcessSelectSentence"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	sentNum, ok := parseNumber(c.Text())
	if !ok {
		return c.Send(errSelectSentMsg)
	}

	quote, image, err := ctrl.divination.SelectSentence(ctx, c.Chat().ID, sentNum)
	if err != nil {
		var rangeErr *divination.SentenceRangeError
		switch {
		case errors.As(err, &rangeErr):
			return c.Send(errSelectSentMsg + fmt.Sprintf(maxSentPhrase, rangeErr.Count))
		case errors.Is(err, divination.ErrNoPageSelected):
			return c.Send(errNoPageMsg)
		default:
			slog.Error("got error from divination.SelectSentence", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return c.Send(internalErrMsg)
		}
	}

	if err = c.Send(fmt.Sprintf(verifyMsg, quote.Sentence, quote.Page)); err != nil {
		return err
	}

	time.Sleep(ctrl.cfg.Divination.RevealDelay)

	if err = c.Send(fmt.Sprintf(divinationMsg, quote.Text)); err != nil {
		return err
	}

	if image == nil {
		return nil
	}

	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(image))}
	return c.Send(photo)
}

func (ctrl *Controller) Cancel(c tele.Context) error {
	op := "Controller.Cancel"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	hadActive, err := ctrl.divination.Cancel(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from divination.Cancel", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if !hadActive {
		return c.Send(nothingCancelMsg)
	}
	return c.Send(cancelActionMsg)
}

// ProcessUnexpectedText aborts the active flow on input it cannot use.
func (ctrl *Controller) ProcessUnexpectedText(c tele.Context) error {
	op := "Controller.ProcessUnexpectedText"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := ctrl.divination.ResetFlow(ctx, c.Chat().ID); err != nil {
		slog.Error("got error from divination.ResetFlow", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(inaccessibleCommandMsg)
}

func (ctrl *Controller) UnknownCommand(c tele.Context) error {
	return c.Send(unknownCommandMsg)
}

// InvalidButton handles callbacks that no longer map to anything.
func (ctrl *Controller) InvalidButton(c tele.Context) error {
	defer c.Respond()
	return c.Edit(invalidButtonMsg)
}

func gatherMaxPageMessage(maxPage int) string {
	if maxPage == 0 {
		return selectPageMsg
	}
	return selectPageMsg + fmt.Sprintf(maxPagePhrase, maxPage)
}

// parseNumber accepts strictly digits optionally surrounded by whitespace.
// Range checks belong to the service, only the format is validated here.
func parseNumber(text string) (int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}

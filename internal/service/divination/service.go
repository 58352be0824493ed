// Package divination drives the per-chat fortune-telling dialogue: book
// browse, page pick, sentence pick, quote emission. One chat holds a single
// active dialogue state at a time.
package divination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"book_divination_tgbot/config"
	"book_divination_tgbot/data/session"
	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/repository"
	"book_divination_tgbot/utils"
)

type Repository interface {
	ListBooks(ctx context.Context, limit, offset int) ([]model.BookPreview, error)
	BookMetadata(ctx context.Context, bookID int64) (model.BookSummary, error)
	MaxPageNumber(ctx context.Context, chatID int64) (int, error)
	PageContent(ctx context.Context, chatID int64, pageNum int) (string, error)
	AssignBook(ctx context.Context, chatID, bookID int64) error
	ChatExists(ctx context.Context, chatID int64) (bool, error)
	RecordChat(ctx context.Context, chatID int64) error
	MarkActive(ctx context.Context, chatID int64) error
}

type SessionStore interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type Tokenizer interface {
	SplitSentences(text, locale string) []string
}

type Renderer interface {
	Make(author, title, quote string) ([]byte, error)
}

type Service struct {
	cfg       *config.Config
	repo      Repository
	sessions  SessionStore
	tokenizer Tokenizer
	renderer  Renderer
}

func New(cfg *config.Config, repo Repository, sessions SessionStore, tokenizer Tokenizer, renderer Renderer) *Service {
	return &Service{
		cfg:       cfg,
		repo:      repo,
		sessions:  sessions,
		tokenizer: tokenizer,
		renderer:  renderer,
	}
}

// StartChat registers the chat on first contact and reports whether it was
// already known.
func (s *Service) StartChat(ctx context.Context, chatID int64) (known bool, err error) {
	op := "Service.StartChat"
	rqID := utils.GetRequestIDFromCtx(ctx)

	known, err = s.repo.ChatExists(ctx, chatID)
	if err != nil {
		return false, err
	}

	if !known {
		if err = s.repo.RecordChat(ctx, chatID); err != nil {
			return false, err
		}
		slog.Info("new chat started", slog.String("op", op), slog.String("rqID", rqID), slog.Int64("chatId", chatID))
	}

	return known, nil
}

// BrowseBooks returns one screen of the book picker. pageNum is 1-based.
// One extra row is requested so HasNextPage needs no count query.
func (s *Service) BrowseBooks(ctx context.Context, chatID int64, pageNum int) (model.BooksPage, error) {
	if pageNum < 1 {
		return model.BooksPage{}, errors.New("book list page must be positive")
	}

	perPage := s.cfg.BooksPerPage
	books, err := s.repo.ListBooks(ctx, perPage+1, perPage*(pageNum-1))
	if err != nil {
		return model.BooksPage{}, err
	}

	hasNext := len(books) > perPage
	if hasNext {
		books = books[:perPage]
	}

	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return model.BooksPage{}, err
	}
	if chatSession.State != model.StateBrowsingBooks {
		chatSession.State = model.StateBrowsingBooks
		if err = s.sessions.SetSession(ctx, chatID, chatSession); err != nil {
			return model.BooksPage{}, err
		}
	}

	return model.BooksPage{Books: books, Page: pageNum, HasNextPage: hasNext}, nil
}

// AssignBook persists the chat's book choice and moves the dialogue to page
// selection. Returns the book summary and its page count (0 when the book
// has no pages).
func (s *Service) AssignBook(ctx context.Context, chatID, bookID int64) (model.BookSummary, int, error) {
	op := "Service.AssignBook"
	rqID := utils.GetRequestIDFromCtx(ctx)

	err := s.repo.AssignBook(ctx, chatID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return model.BookSummary{}, 0, ErrBookNotFound
		}
		return model.BookSummary{}, 0, err
	}

	summary, err := s.repo.BookMetadata(ctx, bookID)
	if err != nil {
		return model.BookSummary{}, 0, err
	}

	maxPage, err := s.repo.MaxPageNumber(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return model.BookSummary{}, 0, err
	}

	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return model.BookSummary{}, 0, err
	}
	chatSession.BookAuthor = summary.Author
	chatSession.BookTitle = summary.Title
	chatSession.Page = 0
	chatSession.Sentences = nil
	chatSession.State = model.StatePageSelect
	if err = s.sessions.SetSession(ctx, chatID, chatSession); err != nil {
		return model.BookSummary{}, 0, err
	}

	slog.Info(
		"book assigned",
		slog.String("op", op),
		slog.String("rqID", rqID),
		slog.Int64("chatId", chatID),
		slog.Int64("bookID", bookID),
		slog.Int("maxPage", maxPage),
	)

	go s.repo.MarkActive(context.WithoutCancel(ctx), chatID)

	return summary, maxPage, nil
}

// SelectPage validates the chosen page, tokenizes its content and moves the
// dialogue to sentence selection. An out-of-range page terminates the flow
// (the user restarts by sending a new page number).
func (s *Service) SelectPage(ctx context.Context, chatID int64, pageNum int) (sentenceCnt int, err error) {
	op := "Service.SelectPage"
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return 0, err
	}

	maxPage, err := s.repo.MaxPageNumber(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			chatSession.ClearFlow()
			if saveErr := s.sessions.SetSession(ctx, chatID, chatSession); saveErr != nil {
				return 0, saveErr
			}
			return 0, ErrBookNotAssigned
		}
		return 0, err
	}

	if pageNum < 1 || pageNum > maxPage {
		chatSession.ClearFlow()
		if saveErr := s.sessions.SetSession(ctx, chatID, chatSession); saveErr != nil {
			return 0, saveErr
		}
		return 0, &PageRangeError{Max: maxPage}
	}

	content, err := s.repo.PageContent(ctx, chatID, pageNum)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			// data drift: the page is within maxPage but its content is gone
			slog.Error(
				"page within range but content missing",
				slog.String("op", op),
				slog.String("rqID", rqID),
				slog.Int64("chatId", chatID),
				slog.Int("pageNum", pageNum),
				slog.Int("maxPage", maxPage),
			)
			chatSession.ClearFlow()
			if saveErr := s.sessions.SetSession(ctx, chatID, chatSession); saveErr != nil {
				return 0, saveErr
			}
			return 0, ErrPageUnavailable
		}
		return 0, err
	}

	sentences := s.tokenizer.SplitSentences(content, s.cfg.Divination.Locale)
	if len(sentences) == 0 {
		// blank page (paragraph separators only): the chat keeps its state
		// and picks another page
		slog.Info(
			"page has no sentences",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.Int64("chatId", chatID),
			slog.Int("pageNum", pageNum),
		)
		return 0, ErrEmptyPage
	}

	chatSession.Page = pageNum
	chatSession.Sentences = sentences
	chatSession.State = model.StateSentenceSelect
	if err = s.sessions.SetSession(ctx, chatID, chatSession); err != nil {
		return 0, err
	}

	go s.repo.MarkActive(context.WithoutCancel(ctx), chatID)

	return len(sentences), nil
}

// SelectSentence validates the chosen sentence index and emits the quote.
// An out-of-range index keeps the dialogue in sentence selection so the
// user can retry in place.
func (s *Service) SelectSentence(ctx context.Context, chatID int64, sentNum int) (model.Quote, []byte, error) {
	op := "Service.SelectSentence"
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return model.Quote{}, nil, err
	}

	if chatSession.Page == 0 || len(chatSession.Sentences) == 0 {
		chatSession.ClearFlow()
		if saveErr := s.sessions.SetSession(ctx, chatID, chatSession); saveErr != nil {
			return model.Quote{}, nil, saveErr
		}
		return model.Quote{}, nil, ErrNoPageSelected
	}

	if sentNum < 1 || sentNum > len(chatSession.Sentences) {
		return model.Quote{}, nil, &SentenceRangeError{Count: len(chatSession.Sentences)}
	}

	quote := model.Quote{
		Author:   chatSession.BookAuthor,
		Title:    chatSession.BookTitle,
		Text:     chatSession.Sentences[sentNum-1],
		Page:     chatSession.Page,
		Sentence: sentNum,
	}

	image, err := s.renderer.Make(quote.Author, quote.Title, quote.Text)
	if err != nil {
		// the textual fortune still goes out, only the card is skipped
		slog.Error(
			"error while rendering quote image",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
		)
		image = nil
	}

	chatSession.Sentences = nil
	chatSession.State = model.StateIdle
	if err = s.sessions.SetSession(ctx, chatID, chatSession); err != nil {
		return model.Quote{}, nil, err
	}

	slog.Info(
		"divination emitted",
		slog.String("op", op),
		slog.String("rqID", rqID),
		slog.Int64("chatId", chatID),
		slog.Int("page", quote.Page),
		slog.Int("sentence", quote.Sentence),
	)

	return quote, image, nil
}

// Cancel aborts the active flow. Returns false when there was nothing to
// cancel, which gets its own acknowledgment rather than silence.
func (s *Service) Cancel(ctx context.Context, chatID int64) (hadActive bool, err error) {
	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return false, err
	}

	if chatSession.State == model.StateIdle {
		return false, nil
	}

	chatSession.ClearFlow()
	if err = s.sessions.SetSession(ctx, chatID, chatSession); err != nil {
		return false, err
	}

	return true, nil
}

// ResetFlow drops the active flow without the cancel acknowledgment
// semantics. Used when unexpected input aborts browsing.
func (s *Service) ResetFlow(ctx context.Context, chatID int64) error {
	chatSession, err := s.getSession(ctx, chatID)
	if err != nil {
		return err
	}

	if chatSession.State == model.StateIdle {
		return nil
	}

	chatSession.ClearFlow()
	return s.sessions.SetSession(ctx, chatID, chatSession)
}

func (s *Service) getSession(ctx context.Context, chatID int64) (model.Session, error) {
	chatSession, err := s.sessions.GetSession(ctx, chatID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.Session{}, nil
		}
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	return chatSession, nil
}

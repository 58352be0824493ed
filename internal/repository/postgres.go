package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/utils"
)

// foreign key violation, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgFKViolationCode = "23503"

type Postgres struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) *Postgres {
	return &Postgres{db}
}

func (r *Postgres) ListBooks(ctx context.Context, limit, offset int) ([]model.BookPreview, error) {
	op := "Postgres.ListBooks"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, title, author FROM book ORDER BY id LIMIT $1 OFFSET $2`

	books := make([]model.BookPreview, 0, limit)
	err := r.db.SelectContext(ctx, &books, query, limit, offset)
	if err != nil {
		slog.Error(
			"Failed to list books",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int("limit", limit),
			slog.Int("offset", offset),
		)
		return nil, err
	}

	return books, nil
}

func (r *Postgres) BookMetadata(ctx context.Context, bookID int64) (model.BookSummary, error) {
	op := "Postgres.BookMetadata"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT id, title, author, info FROM book WHERE id = $1`

	var summary model.BookSummary
	err := r.db.GetContext(ctx, &summary, query, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn(
				"No book for id",
				slog.String("op", op),
				slog.String("rqID", rqID),
				slog.Int64("bookID", bookID),
			)
			return model.BookSummary{}, ErrNoRows
		}
		slog.Error(
			"Failed to get book metadata",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("bookID", bookID),
		)
		return model.BookSummary{}, err
	}

	return summary, nil
}

// MaxPageNumber returns ErrNoRows when the chat has no assigned book or the
// assigned book has no pages.
func (r *Postgres) MaxPageNumber(ctx context.Context, chatID int64) (int, error) {
	op := "Postgres.MaxPageNumber"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT MAX(p.num)
			  FROM chat c
			  JOIN page p ON p.book_id = c.book_id
			  WHERE c.id = $1`

	var maxPage sql.NullInt64
	err := r.db.QueryRowxContext(ctx, query, chatID).Scan(&maxPage)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error(
			"Failed to get max page for chat",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
		)
		return 0, err
	}

	if !maxPage.Valid {
		return 0, ErrNoRows
	}

	return int(maxPage.Int64), nil
}

func (r *Postgres) PageContent(ctx context.Context, chatID int64, pageNum int) (string, error) {
	op := "Postgres.PageContent"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT p.content
			  FROM chat c
			  JOIN page p ON p.book_id = c.book_id
			  WHERE c.id = $1 AND p.num = $2`

	var content string
	err := r.db.QueryRowxContext(ctx, query, chatID, pageNum).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn(
				"No page content for chat",
				slog.String("op", op),
				slog.String("rqID", rqID),
				slog.Int64("chatId", chatID),
				slog.Int("pageNum", pageNum),
			)
			return "", ErrNoRows
		}
		slog.Error(
			"Failed to get page content",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
			slog.Int("pageNum", pageNum),
		)
		return "", err
	}

	return content, nil
}

func (r *Postgres) AssignBook(ctx context.Context, chatID, bookID int64) error {
	op := "Postgres.AssignBook"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO chat (id, book_id) VALUES ($1, $2)
			  ON CONFLICT (id) DO UPDATE SET book_id = EXCLUDED.book_id, last_active_at = now()`

	_, err := r.db.ExecContext(ctx, query, chatID, bookID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolationCode {
			slog.Warn(
				"Attempt to assign missing book",
				slog.String("op", op),
				slog.String("rqID", rqID),
				slog.Int64("chatId", chatID),
				slog.Int64("bookID", bookID),
			)
			return ErrBookNotFound
		}
		slog.Error(
			"Failed to assign book to chat",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
			slog.Int64("bookID", bookID),
		)
		return err
	}

	slog.Info(
		"Book assigned to chat",
		slog.String("op", op),
		slog.String("rqID", rqID),
		slog.Int64("chatId", chatID),
		slog.Int64("bookID", bookID),
	)
	return nil
}

// BannedChatIDs returns the full ban snapshot, used only by the ban cache.
func (r *Postgres) BannedChatIDs(ctx context.Context) (map[int64]struct{}, error) {
	op := "Postgres.BannedChatIDs"
	query := `SELECT cr.chat_id
			  FROM chat_role cr
			  JOIN role r ON r.id = cr.role_id
			  WHERE r.name = 'banned'
				AND cr.grant_date <= CURRENT_DATE
				AND (cr.expire_date IS NULL OR cr.expire_date >= CURRENT_DATE)`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		slog.Error(
			"Failed to get banned chat ids",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	banned := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		banned[id] = struct{}{}
	}
	return banned, nil
}

func (r *Postgres) ChatExists(ctx context.Context, chatID int64) (bool, error) {
	op := "Postgres.ChatExists"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT EXISTS (SELECT 1 FROM chat WHERE id = $1)`

	var exists bool
	err := r.db.QueryRowxContext(ctx, query, chatID).Scan(&exists)
	if err != nil {
		slog.Error(
			"Failed to check chat existence",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
		)
		return false, err
	}

	return exists, nil
}

func (r *Postgres) RecordChat(ctx context.Context, chatID int64) error {
	op := "Postgres.RecordChat"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO chat (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, chatID)
	if err != nil {
		slog.Error(
			"Failed to record new chat",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
		)
		return err
	}

	slog.Info(
		"New chat recorded",
		slog.String("op", op),
		slog.String("rqID", rqID),
		slog.Int64("chatId", chatID),
	)
	return nil
}

func (r *Postgres) MarkActive(ctx context.Context, chatID int64) error {
	op := "Postgres.MarkActive"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE chat SET last_active_at = now() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, chatID)
	if err != nil {
		slog.Error(
			"Failed to mark chat active",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Int64("chatId", chatID),
		)
		return err
	}
	return nil
}

// InsertBook stores the book and its pages in one transaction and returns
// the assigned id.
func (r *Postgres) InsertBook(ctx context.Context, book model.Book) (int64, error) {
	op := "Postgres.InsertBook"
	rqID := utils.GetRequestIDFromCtx(ctx)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin tx", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return 0, err
	}
	defer tx.Rollback()

	var bookID int64
	insertBookQuery := `INSERT INTO book (title, author, info) VALUES ($1, $2, $3) RETURNING id`
	err = tx.QueryRowxContext(ctx, insertBookQuery, book.Title, book.Author, book.Info).Scan(&bookID)
	if err != nil {
		slog.Error(
			"Failed to insert book",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("title", book.Title),
		)
		return 0, err
	}

	insertPageQuery := `INSERT INTO page (book_id, num, content) VALUES ($1, $2, $3)`
	for i, page := range book.Pages {
		if _, err = tx.ExecContext(ctx, insertPageQuery, bookID, i+1, page); err != nil {
			slog.Error(
				"Failed to insert page",
				slog.String("op", op),
				slog.String("rqID", rqID),
				slog.String("err", err.Error()),
				slog.Int64("bookID", bookID),
				slog.Int("pageNum", i+1),
			)
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		slog.Error("Failed to commit tx", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return 0, err
	}

	slog.Info(
		"Book inserted",
		slog.String("op", op),
		slog.String("rqID", rqID),
		slog.Int64("bookID", bookID),
		slog.String("title", book.Title),
		slog.Int("pages", len(book.Pages)),
	)
	return bookID, nil
}

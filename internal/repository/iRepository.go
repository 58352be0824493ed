package repository

import (
	"context"

	"book_divination_tgbot/internal/model"
)

type IRepository interface {
	ListBooks(ctx context.Context, limit, offset int) ([]model.BookPreview, error)
	BookMetadata(ctx context.Context, bookID int64) (model.BookSummary, error)
	MaxPageNumber(ctx context.Context, chatID int64) (int, error)
	PageContent(ctx context.Context, chatID int64, pageNum int) (string, error)
	AssignBook(ctx context.Context, chatID, bookID int64) error
	BannedChatIDs(ctx context.Context) (map[int64]struct{}, error)
	ChatExists(ctx context.Context, chatID int64) (bool, error)
	RecordChat(ctx context.Context, chatID int64) error
	MarkActive(ctx context.Context, chatID int64) error
	InsertBook(ctx context.Context, book model.Book) (int64, error)
}

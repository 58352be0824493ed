package repository

import (
	"context"
	"sort"
	"sync"

	"book_divination_tgbot/internal/model"
)

// Memory is an in-memory IRepository used by tests and local runs without a
// database. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64]model.Book
	chats  map[int64]*memoryChat
	banned map[int64]struct{}
}

type memoryChat struct {
	bookID int64 // 0 = no book assigned
	active bool
}

func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		books:  make(map[int64]model.Book),
		chats:  make(map[int64]*memoryChat),
		banned: make(map[int64]struct{}),
	}
}

// SetBanned replaces the banned set wholesale.
func (m *Memory) SetBanned(chatIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banned = make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		m.banned[id] = struct{}{}
	}
}

func (m *Memory) ListBooks(_ context.Context, limit, offset int) ([]model.BookPreview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	previews := make([]model.BookPreview, 0, limit)
	for i := offset; i < len(ids) && len(previews) < limit; i++ {
		book := m.books[ids[i]]
		previews = append(previews, model.BookPreview{ID: book.ID, Title: book.Title, Author: book.Author})
	}
	return previews, nil
}

func (m *Memory) BookMetadata(_ context.Context, bookID int64) (model.BookSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.books[bookID]
	if !ok {
		return model.BookSummary{}, ErrNoRows
	}
	return model.BookSummary{ID: book.ID, Title: book.Title, Author: book.Author, Info: book.Info}, nil
}

func (m *Memory) MaxPageNumber(_ context.Context, chatID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.assignedBook(chatID)
	if !ok || len(book.Pages) == 0 {
		return 0, ErrNoRows
	}
	return len(book.Pages), nil
}

func (m *Memory) PageContent(_ context.Context, chatID int64, pageNum int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.assignedBook(chatID)
	if !ok || pageNum < 1 || pageNum > len(book.Pages) {
		return "", ErrNoRows
	}
	return book.Pages[pageNum-1], nil
}

func (m *Memory) AssignBook(_ context.Context, chatID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[bookID]; !ok {
		return ErrBookNotFound
	}

	chat, ok := m.chats[chatID]
	if !ok {
		chat = &memoryChat{}
		m.chats[chatID] = chat
	}
	chat.bookID = bookID
	return nil
}

func (m *Memory) BannedChatIDs(_ context.Context) (map[int64]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	banned := make(map[int64]struct{}, len(m.banned))
	for id := range m.banned {
		banned[id] = struct{}{}
	}
	return banned, nil
}

func (m *Memory) ChatExists(_ context.Context, chatID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.chats[chatID]
	return ok, nil
}

func (m *Memory) RecordChat(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chats[chatID]; !ok {
		m.chats[chatID] = &memoryChat{}
	}
	return nil
}

func (m *Memory) MarkActive(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if chat, ok := m.chats[chatID]; ok {
		chat.active = true
	}
	return nil
}

func (m *Memory) InsertBook(_ context.Context, book model.Book) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book.ID = m.nextID
	m.nextID++
	m.books[book.ID] = book
	return book.ID, nil
}

func (m *Memory) assignedBook(chatID int64) (model.Book, bool) {
	chat, ok := m.chats[chatID]
	if !ok || chat.bookID == 0 {
		return model.Book{}, false
	}
	book, ok := m.books[chat.bookID]
	return book, ok
}

package divination

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"book_divination_tgbot/config"
	"book_divination_tgbot/data/session"
	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/repository"
)

type memorySessions struct {
	store map[int64]model.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{store: make(map[int64]model.Session)}
}

func (s *memorySessions) GetSession(_ context.Context, chatID int64) (model.Session, error) {
	chatSession, ok := s.store[chatID]
	if !ok {
		return model.Session{}, session.ErrNotFound
	}
	return chatSession, nil
}

func (s *memorySessions) SetSession(_ context.Context, chatID int64, chatSession model.Session) error {
	s.store[chatID] = chatSession
	return nil
}

// fakeTokenizer splits on "|" so tests control sentence boundaries exactly.
type fakeTokenizer struct{}

func (fakeTokenizer) SplitSentences(text, _ string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "|")
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Make(_, _, _ string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png-bytes"), nil
}

type divinationServiceSuite struct {
	suite.Suite

	cfg      *config.Config
	repo     *repository.Memory
	sessions *memorySessions
	renderer *fakeRenderer
	service  *Service
}

func TestDivinationServiceSuite(t *testing.T) {
	suite.Run(t, new(divinationServiceSuite))
}

func (s *divinationServiceSuite) SetupTest() {
	s.cfg = &config.Config{
		BooksPerPage: 3,
		Divination:   config.Divination{Locale: "russian"},
	}
	s.repo = repository.NewMemory()
	s.sessions = newMemorySessions()
	s.renderer = &fakeRenderer{}
	s.service = New(s.cfg, s.repo, s.sessions, fakeTokenizer{}, s.renderer)
}

func (s *divinationServiceSuite) insertBook(title string, pages ...string) int64 {
	bookID, err := s.repo.InsertBook(context.Background(), model.Book{
		Title:  title,
		Author: "Автор",
		Info:   "Описание",
		Pages:  pages,
	})
	s.Require().NoError(err)
	return bookID
}

// reaches sentence selection: book assigned, page 1 picked
func (s *divinationServiceSuite) reachSentenceSelect(chatID int64, page string) int {
	bookID := s.insertBook("Книга", page)
	_, _, err := s.service.AssignBook(context.Background(), chatID, bookID)
	s.Require().NoError(err)

	cnt, err := s.service.SelectPage(context.Background(), chatID, 1)
	s.Require().NoError(err)
	return cnt
}

func (s *divinationServiceSuite) Test_StartChat_RecordsNewChat() {
	ctx := context.Background()
	var chatID int64 = 1

	known, err := s.service.StartChat(ctx, chatID)
	s.Require().NoError(err)
	assert.False(s.T(), known)

	known, err = s.service.StartChat(ctx, chatID)
	s.Require().NoError(err)
	assert.True(s.T(), known)
}

func (s *divinationServiceSuite) Test_BrowseBooks_PagerWindow() {
	ctx := context.Background()
	var chatID int64 = 1
	for _, title := range []string{"Первая", "Вторая", "Третья", "Четвертая"} {
		s.insertBook(title, "текст")
	}

	first, err := s.service.BrowseBooks(ctx, chatID, 1)
	s.Require().NoError(err)
	assert.Len(s.T(), first.Books, 3)
	assert.True(s.T(), first.HasNextPage)
	assert.Equal(s.T(), "Первая", first.Books[0].Title)

	second, err := s.service.BrowseBooks(ctx, chatID, 2)
	s.Require().NoError(err)
	assert.Len(s.T(), second.Books, 1)
	assert.False(s.T(), second.HasNextPage)
	assert.Equal(s.T(), "Четвертая", second.Books[0].Title)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateBrowsingBooks, chatSession.State)
}

func (s *divinationServiceSuite) Test_BrowseBooks_NeverMoreThanPerPage() {
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		s.insertBook("Книга", "текст")
	}

	page, err := s.service.BrowseBooks(ctx, 1, 2)
	s.Require().NoError(err)
	assert.Len(s.T(), page.Books, s.cfg.BooksPerPage)
	assert.True(s.T(), page.HasNextPage)
}

func (s *divinationServiceSuite) Test_AssignBook_Success() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга", "стр1", "стр2", "стр3")

	summary, maxPage, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)

	assert.Equal(s.T(), "Книга", summary.Title)
	assert.Equal(s.T(), 3, maxPage)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StatePageSelect, chatSession.State)
	assert.Equal(s.T(), "Автор", chatSession.BookAuthor)
	assert.Equal(s.T(), "Книга", chatSession.BookTitle)
}

func (s *divinationServiceSuite) Test_AssignBook_UnknownBook() {
	ctx := context.Background()

	_, _, err := s.service.AssignBook(ctx, 1, 999)

	assert.ErrorIs(s.T(), err, ErrBookNotFound)
}

func (s *divinationServiceSuite) Test_SelectPage_NoBookAssigned() {
	ctx := context.Background()

	_, err := s.service.SelectPage(ctx, 1, 5)

	assert.ErrorIs(s.T(), err, ErrBookNotAssigned)
}

func (s *divinationServiceSuite) Test_SelectPage_MaxPageSucceeds() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга", "один.|два.", "три.|четыре.|пять.")
	_, _, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)

	cnt, err := s.service.SelectPage(ctx, chatID, 2)
	s.Require().NoError(err)

	assert.Equal(s.T(), 3, cnt)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateSentenceSelect, chatSession.State)
	assert.Equal(s.T(), 2, chatSession.Page)
	assert.Len(s.T(), chatSession.Sentences, 3)
}

func (s *divinationServiceSuite) Test_SelectPage_OutOfRangeTerminatesFlow() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга", "один.", "два.")
	_, _, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)

	_, err = s.service.SelectPage(ctx, chatID, 3)

	var rangeErr *PageRangeError
	s.Require().ErrorAs(err, &rangeErr)
	assert.Equal(s.T(), 2, rangeErr.Max)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateIdle, chatSession.State)
}

func (s *divinationServiceSuite) Test_SelectPage_ZeroOutOfRange() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга", "один.")
	_, _, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)

	_, err = s.service.SelectPage(ctx, chatID, 0)

	var rangeErr *PageRangeError
	assert.ErrorAs(s.T(), err, &rangeErr)
}

func (s *divinationServiceSuite) Test_SelectPage_BookWithoutPagesReturnsToIdle() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга")
	_, maxPage, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)
	s.Require().Equal(0, maxPage)

	_, err = s.service.SelectPage(ctx, chatID, 1)

	assert.ErrorIs(s.T(), err, ErrBookNotAssigned)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateIdle, chatSession.State)
}

func (s *divinationServiceSuite) Test_SelectPage_EmptyPageRetriesInPlace() {
	ctx := context.Background()
	var chatID int64 = 1
	bookID := s.insertBook("Книга", "", "один.")
	_, _, err := s.service.AssignBook(ctx, chatID, bookID)
	s.Require().NoError(err)

	_, err = s.service.SelectPage(ctx, chatID, 1)

	assert.ErrorIs(s.T(), err, ErrEmptyPage)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StatePageSelect, chatSession.State)
	assert.Zero(s.T(), chatSession.Page)
	assert.Empty(s.T(), chatSession.Sentences)

	cnt, err := s.service.SelectPage(ctx, chatID, 2)
	s.Require().NoError(err)
	assert.Equal(s.T(), 1, cnt)
}

func (s *divinationServiceSuite) Test_SelectSentence_EmitsQuote() {
	ctx := context.Background()
	var chatID int64 = 1
	cnt := s.reachSentenceSelect(chatID, "Первое.|Второе.|Третье.")
	s.Require().Equal(3, cnt)

	quote, image, err := s.service.SelectSentence(ctx, chatID, 2)
	s.Require().NoError(err)

	assert.Equal(s.T(), "Второе.", quote.Text)
	assert.Equal(s.T(), 1, quote.Page)
	assert.Equal(s.T(), 2, quote.Sentence)
	assert.Equal(s.T(), "Автор", quote.Author)
	assert.Equal(s.T(), []byte("png-bytes"), image)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateIdle, chatSession.State)
	assert.Nil(s.T(), chatSession.Sentences)
}

func (s *divinationServiceSuite) Test_SelectSentence_OutOfRangeStaysInPlace() {
	ctx := context.Background()
	var chatID int64 = 1
	s.reachSentenceSelect(chatID, "Первое.|Второе.")

	for _, sentNum := range []int{0, 3} {
		_, _, err := s.service.SelectSentence(ctx, chatID, sentNum)

		var rangeErr *SentenceRangeError
		s.Require().ErrorAs(err, &rangeErr)
		assert.Equal(s.T(), 2, rangeErr.Count)

		chatSession, _ := s.sessions.GetSession(ctx, chatID)
		assert.Equal(s.T(), model.StateSentenceSelect, chatSession.State)
		assert.Len(s.T(), chatSession.Sentences, 2)
	}

	// retry in place with a valid index still works
	quote, _, err := s.service.SelectSentence(ctx, chatID, 1)
	s.Require().NoError(err)
	assert.Equal(s.T(), "Первое.", quote.Text)
}

func (s *divinationServiceSuite) Test_SelectSentence_NoPageSelected() {
	ctx := context.Background()

	_, _, err := s.service.SelectSentence(ctx, 1, 1)

	assert.ErrorIs(s.T(), err, ErrNoPageSelected)
}

func (s *divinationServiceSuite) Test_SelectSentence_RendererFailureKeepsQuote() {
	ctx := context.Background()
	var chatID int64 = 1
	s.reachSentenceSelect(chatID, "Первое.")
	s.renderer.err = errors.New("font missing")

	quote, image, err := s.service.SelectSentence(ctx, chatID, 1)
	s.Require().NoError(err)

	assert.Equal(s.T(), "Первое.", quote.Text)
	assert.Nil(s.T(), image)
}

func (s *divinationServiceSuite) Test_Cancel() {
	ctx := context.Background()
	var chatID int64 = 1
	s.reachSentenceSelect(chatID, "Первое.")

	hadActive, err := s.service.Cancel(ctx, chatID)
	s.Require().NoError(err)
	assert.True(s.T(), hadActive)

	chatSession, _ := s.sessions.GetSession(ctx, chatID)
	assert.Equal(s.T(), model.StateIdle, chatSession.State)
	assert.Nil(s.T(), chatSession.Sentences)

	hadActive, err = s.service.Cancel(ctx, chatID)
	s.Require().NoError(err)
	assert.False(s.T(), hadActive)
}

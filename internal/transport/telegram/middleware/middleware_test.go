package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type stubBans struct {
	banned map[int64]struct{}
}

func (s stubBans) IsBanned(chatID int64) bool {
	_, ok := s.banned[chatID]
	return ok
}

// fakeContext covers only the methods the middlewares touch.
type fakeContext struct {
	tele.Context
	chat *tele.Chat
}

func (c fakeContext) Chat() *tele.Chat         { return c.chat }
func (c fakeContext) Callback() *tele.Callback { return nil }
func (c fakeContext) Text() string             { return "/start" }

func TestNotBanned_DropsBannedChat(t *testing.T) {
	bans := stubBans{banned: map[int64]struct{}{42: {}}}

	handlerRan := false
	handler := NotBanned(bans)(func(c tele.Context) error {
		handlerRan = true
		return nil
	})

	err := handler(fakeContext{chat: &tele.Chat{ID: 42}})

	assert.NoError(t, err)
	assert.False(t, handlerRan, "handler must not run for a banned chat")
}

func TestNotBanned_PassesThroughOthers(t *testing.T) {
	bans := stubBans{banned: map[int64]struct{}{42: {}}}

	handlerRan := false
	handler := NotBanned(bans)(func(c tele.Context) error {
		handlerRan = true
		return nil
	})

	err := handler(fakeContext{chat: &tele.Chat{ID: 7}})

	assert.NoError(t, err)
	assert.True(t, handlerRan)
}

func TestLogger_PropagatesHandlerError(t *testing.T) {
	wantErr := errors.New("boom")

	handler := Logger()(func(c tele.Context) error {
		return wantErr
	})

	err := handler(fakeContext{chat: &tele.Chat{ID: 1}})

	assert.ErrorIs(t, err, wantErr)
}

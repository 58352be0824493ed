package middleware

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"
)

type BanChecker interface {
	IsBanned(chatID int64) bool
}

// Logger logs every handled update with its duration.
func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			attrs := []any{
				slog.Int64("chatId", c.Chat().ID),
				slog.Duration("duration", time.Since(start)),
			}
			if c.Callback() != nil {
				attrs = append(attrs, slog.String("callback", c.Callback().Data))
			} else {
				attrs = append(attrs, slog.String("text", c.Text()))
			}
			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
				slog.Error("update handled with error", attrs...)
				return err
			}

			slog.Info("update handled", attrs...)
			return nil
		}
	}
}

// NotBanned drops updates from banned chats before any handler runs: no
// reply, no state mutation.
func NotBanned(bans BanChecker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bans.IsBanned(c.Chat().ID) {
				slog.Debug("update from banned chat dropped", slog.Int64("chatId", c.Chat().ID))
				return nil
			}
			return next(c)
		}
	}
}

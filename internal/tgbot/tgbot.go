package tgbot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"book_divination_tgbot/config"
	"book_divination_tgbot/data/session"
	"book_divination_tgbot/internal/model"
	"book_divination_tgbot/internal/model/tg/tgCallback"
	"book_divination_tgbot/internal/transport/telegram"
	customMW "book_divination_tgbot/internal/transport/telegram/middleware"
	"book_divination_tgbot/utils"

	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

var numberRe = regexp.MustCompile(`^\s*\d+\s*$`)

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
	bans    customMW.BanChecker
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session, bans customMW.BanChecker) *TGBot {
	settings := tele.Settings{
		Token:     cfg.Telegram.Token,
		Poller:    &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
		ParseMode: tele.ModeHTML,
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session, bans: bans}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.NotBanned(b.bans))

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	// commands
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Help)
	b.bot.Handle("/book", b.ctrl.ShowBooks)
	b.bot.Handle("/cancel", b.ctrl.Cancel)

	// text
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// получение сессии и выбор метода контроллера на основе шага пользователя
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, c.Chat().ID)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("что-то пошло не так...")
		}

		c.Set("session", chatSession)

		if numberRe.MatchString(c.Text()) {
			switch chatSession.State {
			case model.StateSentenceSelect:
				return b.ctrl.ProcessSelectSentence(c)
			case model.StateBrowsingBooks:
				return b.ctrl.ProcessUnexpectedText(c)
			default:
				return b.ctrl.ProcessSelectPage(c)
			}
		}

		if chatSession.State != model.StateIdle {
			return b.ctrl.ProcessUnexpectedText(c)
		}
		return b.ctrl.UnknownCommand(c)
	})

	// callbacks
	b.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, c.Chat().ID)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("что-то пошло не так...")
		}

		c.Set("session", chatSession)

		callbackBtnText := strings.TrimPrefix(c.Callback().Data, "\f")

		switch {
		case callbackBtnText == tgCallback.PageNone:
			return b.ctrl.PageNone(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.ToBooksPage):
			return b.ctrl.SwitchBooksPage(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.SelectBook):
			return b.ctrl.SelectBook(c)
		default:
			return b.ctrl.InvalidButton(c)
		}
	})
}

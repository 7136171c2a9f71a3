// Package bot owns the Telegram transport: the long-polling update loop and
// the command/callback dispatcher that drives the storage coordinator. Each
// inbound update is handled on its own goroutine; the dispatcher itself is
// stateless, so no locking is needed beyond what the stores provide.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dananet/mutasi-bot/telemetry"
)

const genericErrorText = "⚠️ Terjadi kesalahan internal. Coba lagi nanti."

// Bot wires the Telegram client to the dispatcher.
type Bot struct {
	api *tgbotapi.BotAPI
	d   *Dispatcher
}

// New authenticates against the Telegram API.
func New(token string, d *Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	slog.Info("telegram bot authorized", slog.String("username", api.Self.UserName))
	return &Bot{api: api, d: d}, nil
}

// Run polls for updates until the context is cancelled. Handlers run
// concurrently; ordering across users is not guaranteed.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		update := update
		go b.handleUpdate(ctx, update)
	}
	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = telemetry.WithCorrelation(ctx, uuid.New().String())

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
	// Plain text messages are ignored; the OTP flow that would consume
	// them is not implemented.
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	command := msg.Command()
	telemetry.CountCommand(command)

	ctx, span := telemetry.StartSpan(ctx, "bot", "command "+command, telemetry.CommandAttr(command))
	defer span.End()

	var reply Reply
	var err error
	switch command {
	case "start":
		reply = b.d.HandleStart()
	case "list":
		reply, err = b.d.HandleList(ctx)
	case "tambah":
		reply, err = b.d.HandleAdd(ctx, msg.CommandArguments())
	case "stop":
		reply, err = b.d.HandleStop(ctx, msg.CommandArguments())
	case "clear":
		reply = b.d.HandleClear(ctx)
	case "help":
		reply = b.d.HandleHelp()
	default:
		return
	}
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.LoggerWithCorr(ctx).Error("command failed",
			slog.String("command", command), slog.Any("err", err))
		reply = Reply{Text: genericErrorText}
	}
	b.send(ctx, msg.Chat.ID, reply)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	ctx, span := telemetry.StartSpan(ctx, "bot", "callback")
	defer span.End()

	// Acknowledge immediately so the button stops spinning.
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		telemetry.LoggerWithCorr(ctx).Warn("callback ack failed", slog.Any("err", err))
	}

	reply, err := b.d.HandleCallback(ctx, q.Data)
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.LoggerWithCorr(ctx).Error("callback failed",
			slog.String("data", q.Data), slog.Any("err", err))
		reply = Reply{Text: genericErrorText, Edit: true}
	}
	if reply.Text == "" || q.Message == nil {
		return
	}

	if reply.Edit {
		b.edit(ctx, q.Message.Chat.ID, q.Message.MessageID, reply)
		return
	}
	b.send(ctx, q.Message.Chat.ID, reply)
}

func (b *Bot) send(ctx context.Context, chatID int64, reply Reply) {
	if reply.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if reply.Keyboard != nil {
		msg.ReplyMarkup = *reply.Keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		telemetry.LoggerWithCorr(ctx).Error("send reply failed", slog.Any("err", err))
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, reply Reply) {
	var cfg tgbotapi.EditMessageTextConfig
	if reply.Keyboard != nil {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, reply.Text, *reply.Keyboard)
	} else {
		cfg = tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	}
	cfg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(cfg); err != nil {
		telemetry.LoggerWithCorr(ctx).Error("edit reply failed", slog.Any("err", err))
	}
}

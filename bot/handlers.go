package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/dananet/mutasi-bot/account"
	"github.com/dananet/mutasi-bot/cache"
	"github.com/dananet/mutasi-bot/telemetry"
)

// Storage is the coordinator surface the dispatcher drives.
type Storage interface {
	AddAccount(ctx context.Context, phone, pin, name string) error
	GetAccounts(ctx context.Context) ([]account.Account, error)
	RemoveAccount(ctx context.Context, phone string) error
}

// Reply is a rendered chat response. Edit marks callback replies that
// should replace the originating message instead of sending a new one.
type Reply struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
	Edit     bool
}

// Dispatcher holds stateless request handlers, one per command/button. All
// validation happens here before any coordinator call; the storage layer
// itself never rejects input.
type Dispatcher struct {
	storage Storage
	cache   *redis.Client // optional; nil disables /clear's flush
}

// NewDispatcher wires the dispatcher. A nil cache client is allowed.
func NewDispatcher(storage Storage, cacheClient *redis.Client) *Dispatcher {
	return &Dispatcher{storage: storage, cache: cacheClient}
}

// HandleStart renders the main menu. No state mutation.
func (d *Dispatcher) HandleStart() Reply {
	kb := startKeyboard()
	return Reply{Text: startText, Keyboard: &kb}
}

// HandleHelp renders static usage text.
func (d *Dispatcher) HandleHelp() Reply {
	return Reply{Text: helpText}
}

// HandleList renders the account table.
func (d *Dispatcher) HandleList(ctx context.Context) (Reply, error) {
	accounts, err := d.storage.GetAccounts(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(accounts) == 0 {
		return Reply{Text: emptyListText}, nil
	}
	text, kb := renderList(accounts)
	return Reply{Text: text, Keyboard: &kb}, nil
}

// HandleAdd validates and registers a new account. Arguments are the raw
// text after the command. Nothing is written unless every check passes.
func (d *Dispatcher) HandleAdd(ctx context.Context, args string) (Reply, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return Reply{Text: addUsageText}, nil
	}
	phone, pin := fields[0], fields[1]

	if err := account.ValidatePhone(phone); err != nil {
		return Reply{Text: badPhoneText}, nil
	}
	if err := account.ValidatePIN(pin); err != nil {
		return Reply{Text: badPINText}, nil
	}

	accounts, err := d.storage.GetAccounts(ctx)
	if err != nil {
		return Reply{}, err
	}
	if account.CountActive(accounts) >= account.MaxActive {
		return Reply{Text: capacityText}, nil
	}

	if err := d.storage.AddAccount(ctx, phone, pin, ""); err != nil {
		return Reply{}, err
	}
	if telemetry.AccountsAdded != nil {
		telemetry.AccountsAdded.Inc()
	}
	return Reply{Text: addSuccessText(phone, pin)}, nil
}

// HandleStop deactivates an account by phone. No existence check: removing
// an unknown phone still reports success, matching the coordinator's
// unconditional-success contract.
func (d *Dispatcher) HandleStop(ctx context.Context, args string) (Reply, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return Reply{Text: stopUsageText}, nil
	}
	phone := fields[0]

	if err := d.storage.RemoveAccount(ctx, phone); err != nil {
		return Reply{}, err
	}
	if telemetry.AccountsRemoved != nil {
		telemetry.AccountsRemoved.Inc()
	}
	return Reply{Text: stopSuccessText(phone)}, nil
}

// HandleClear flushes the ephemeral store if configured. Always reports
// success; a flush failure only degrades the cache, never the bot.
func (d *Dispatcher) HandleClear(ctx context.Context) Reply {
	if err := cache.Clear(ctx, d.cache); err != nil {
		telemetry.LoggerWithCorr(ctx).Warn("cache clear failed", slog.Any("err", err))
	}
	return Reply{Text: clearDoneText}
}

// HandleCallback dispatches a parsed button payload. The delete flow is a
// two-step confirmation: DeleteRequest shows the candidate with
// confirm/cancel buttons, DeleteConfirm performs the removal, Cancel is a
// no-op reply. Each step is re-derivable from the payload alone.
func (d *Dispatcher) HandleCallback(ctx context.Context, data string) (Reply, error) {
	cb := ParseCallback(data)
	telemetry.CountCallback(cb.Kind.String())

	switch cb.Kind {
	case CallbackShowList, CallbackRefresh:
		reply, err := d.HandleList(ctx)
		reply.Edit = cb.Kind == CallbackRefresh
		return reply, err

	case CallbackAddPrompt:
		return Reply{Text: addPromptText, Edit: true}, nil

	case CallbackHelp:
		return Reply{Text: helpText, Edit: true}, nil

	case CallbackCancel:
		return Reply{Text: cancelText, Edit: true}, nil

	case CallbackDeleteRequest:
		kb := confirmDeleteKeyboard(cb.Phone)
		return Reply{Text: confirmDeleteText(cb.Phone), Keyboard: &kb, Edit: true}, nil

	case CallbackDeleteConfirm:
		if err := d.storage.RemoveAccount(ctx, cb.Phone); err != nil {
			return Reply{}, err
		}
		if telemetry.AccountsRemoved != nil {
			telemetry.AccountsRemoved.Inc()
		}
		return Reply{Text: deletedText(cb.Phone), Edit: true}, nil

	default:
		telemetry.LoggerWithCorr(ctx).Debug("unknown callback payload", slog.String("data", data))
		return Reply{}, nil
	}
}

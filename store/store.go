package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dananet/mutasi-bot/account"
	"github.com/dananet/mutasi-bot/telemetry"
)

// Remote is the best-effort mirror contract. Errors returned here are
// logged and swallowed by the coordinator; they never abort an operation.
type Remote interface {
	Append(ctx context.Context, a account.Account) error
	ListActive(ctx context.Context) ([]account.Account, error)
	MarkInactive(ctx context.Context, phone string) error
}

// Store coordinates the local file store and the optional sheet mirror.
// The local store is authoritative whenever the mirror is unconfigured or
// failing; core functionality never blocks on mirror availability.
type Store struct {
	local  *Local
	remote Remote // nil when the mirror is unconfigured
}

// New wires the coordinator. Pass a nil remote for local-only mode.
func New(local *Local, remote Remote) *Store {
	return &Store{local: local, remote: remote}
}

// RemoteEnabled reports whether a sheet mirror is wired in.
func (s *Store) RemoteEnabled() bool { return s.remote != nil }

// AddAccount registers a new active account: best-effort mirror append
// first, then the unconditional local read-modify-write. A local failure is
// a hard fault and propagates; a mirror failure only degrades visibility.
func (s *Store) AddAccount(ctx context.Context, phone, pin, name string) error {
	a := account.New(phone, pin, name)

	if s.remote != nil {
		if err := s.remote.Append(ctx, a); err != nil {
			telemetry.CountRemoteError()
			telemetry.LoggerWithCorr(ctx).Warn("sheet append failed, saving locally only",
				slog.String("phone", phone), slog.Any("err", err))
		}
	}

	accounts, err := s.local.Load()
	if err != nil {
		return fmt.Errorf("add account: %w", err)
	}
	accounts = append(accounts, a)
	if err := s.local.SaveAll(accounts); err != nil {
		return fmt.Errorf("add account: %w", err)
	}
	telemetry.SetActiveAccounts(account.CountActive(accounts))
	return nil
}

// GetAccounts returns the visible account set. With a mirror configured it
// prefers the mirror's pre-filtered active rows; on any mirror error, or in
// local-only mode, it returns the full local collection (callers filter by
// status as needed).
func (s *Store) GetAccounts(ctx context.Context) ([]account.Account, error) {
	if s.remote != nil {
		accounts, err := s.remote.ListActive(ctx)
		if err == nil {
			return accounts, nil
		}
		telemetry.CountRemoteError()
		telemetry.LoggerWithCorr(ctx).Warn("sheet read failed, falling back to local store", slog.Any("err", err))
	}
	return s.local.Load()
}

// RemoveAccount deactivates an account: best-effort status flip in the
// mirror (soft delete), then unconditional removal from the local
// collection (hard delete). Removing a phone that doesn't exist succeeds;
// the operation is idempotent and "not found" is not an error at this
// layer.
func (s *Store) RemoveAccount(ctx context.Context, phone string) error {
	if s.remote != nil {
		if err := s.remote.MarkInactive(ctx, phone); err != nil {
			telemetry.CountRemoteError()
			telemetry.LoggerWithCorr(ctx).Warn("sheet status flip failed, removing locally only",
				slog.String("phone", phone), slog.Any("err", err))
		}
	}

	accounts, err := s.local.Load()
	if err != nil {
		return fmt.Errorf("remove account: %w", err)
	}
	kept := accounts[:0]
	for _, a := range accounts {
		if a.Phone != phone {
			kept = append(kept, a)
		}
	}
	if err := s.local.SaveAll(kept); err != nil {
		return fmt.Errorf("remove account: %w", err)
	}
	telemetry.SetActiveAccounts(account.CountActive(kept))
	return nil
}

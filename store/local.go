// Package store provides the account persistence layer: a file-backed local
// store that is always on, an optional Google Sheets mirror, and a
// coordinator that unifies the two behind one API.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dananet/mutasi-bot/account"
	"github.com/dananet/mutasi-bot/crypto"
)

// encPrefix marks a PIN field that was encrypted before being written.
// Plaintext records (written without ENCRYPTION_KEY) carry no prefix and
// load unchanged.
const encPrefix = "enc:"

// localFile is the on-disk shape: a single JSON document holding the whole
// collection. Every save rewrites the file.
type localFile struct {
	Accounts []account.Account `json:"accounts"`
}

// Local is the file-backed primary store. It is the durability guarantee of
// last resort: failures here are hard faults, never swallowed. Callers
// serialize access; the design assumes a single active process.
type Local struct {
	path string
	enc  crypto.Encryptor // nil when ENCRYPTION_KEY is unset
}

// NewLocal creates the store under dataDir, initializing the backing file
// with an empty collection when absent. PIN-at-rest encryption is enabled
// when ENCRYPTION_KEY (base64, 32 bytes) is set.
func NewLocal(dataDir string) (*Local, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l := &Local{path: filepath.Join(dataDir, "accounts.json")}

	if key := os.Getenv("ENCRYPTION_KEY"); key != "" {
		enc, err := crypto.NewAESEncryptor(key)
		if err != nil {
			return nil, fmt.Errorf("initialize pin encryption: %w", err)
		}
		l.enc = enc
		slog.Info("pin encryption enabled (AES-256-GCM)", slog.String("component", "store_local"))
	} else {
		slog.Warn("ENCRYPTION_KEY not set, pins stored in plaintext (not recommended for production)", slog.String("component", "store_local"))
	}

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.write(localFile{Accounts: []account.Account{}}); err != nil {
			return nil, fmt.Errorf("initialize local store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat local store: %w", err)
	}
	return l, nil
}

// Path returns the backing file location.
func (l *Local) Path() string { return l.path }

// Load reads the full collection from disk.
func (l *Local) Load() ([]account.Account, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}
	var f localFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode local store: %w", err)
	}
	for i := range f.Accounts {
		pin, err := l.revealPIN(f.Accounts[i].PIN)
		if err != nil {
			return nil, fmt.Errorf("decrypt pin for %s: %w", f.Accounts[i].Phone, err)
		}
		f.Accounts[i].PIN = pin
	}
	return f.Accounts, nil
}

// SaveAll rewrites the whole collection. There is no partial update path.
func (l *Local) SaveAll(accounts []account.Account) error {
	out := make([]account.Account, len(accounts))
	copy(out, accounts)
	for i := range out {
		pin, err := l.concealPIN(out[i].PIN)
		if err != nil {
			return fmt.Errorf("encrypt pin for %s: %w", out[i].Phone, err)
		}
		out[i].PIN = pin
	}
	return l.write(localFile{Accounts: out})
}

func (l *Local) write(f localFile) error {
	if f.Accounts == nil {
		f.Accounts = []account.Account{}
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}
	if err := os.WriteFile(l.path, raw, 0o600); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	return nil
}

func (l *Local) concealPIN(pin string) (string, error) {
	if l.enc == nil || pin == "" {
		return pin, nil
	}
	ct, err := crypto.EncryptString(l.enc, pin)
	if err != nil {
		return "", err
	}
	return encPrefix + ct, nil
}

func (l *Local) revealPIN(stored string) (string, error) {
	if !strings.HasPrefix(stored, encPrefix) {
		return stored, nil
	}
	if l.enc == nil {
		return "", fmt.Errorf("pin is encrypted but ENCRYPTION_KEY not configured")
	}
	return crypto.DecryptString(l.enc, strings.TrimPrefix(stored, encPrefix))
}

package store

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dananet/mutasi-bot/account"
)

func TestNewLocalInitializesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "accounts.json")); err != nil {
		t.Fatalf("backing file not created: %v", err)
	}
	accounts, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("fresh store has %d accounts, want 0", len(accounts))
	}
}

func TestLocalSaveLoadRoundTrip(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	in := []account.Account{
		account.New("081234567890", "123456", "User"),
		account.New("081298765432", "4321", "Budi"),
	}
	if err := l.SaveAll(in); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d accounts, want 2", len(got))
	}
	if got[0].Phone != "081234567890" || got[0].PIN != "123456" || got[0].Status != account.StatusActive {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[0].Transactions != 0 {
		t.Errorf("Transactions = %d, want 0", got[0].Transactions)
	}
}

func TestLocalSaveRewritesWholeCollection(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := l.SaveAll([]account.Account{account.New("081111111111", "1111", "")}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := l.SaveAll(nil); err != nil {
		t.Fatalf("SaveAll(nil): %v", err)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("collection not rewritten, got %d records", len(got))
	}
}

func TestLocalEncryptedPINRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(key))

	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := l.SaveAll([]account.Account{account.New("081234567890", "556677", "User")}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	// The PIN must not appear in plaintext on disk.
	raw, err := os.ReadFile(filepath.Join(dir, "accounts.json"))
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	if strings.Contains(string(raw), "556677") {
		t.Error("plaintext pin leaked into backing file")
	}
	if !strings.Contains(string(raw), `"pin": "enc:`) {
		t.Error("encrypted pin marker missing from backing file")
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].PIN != "556677" {
		t.Errorf("Load = %+v, want one record with decrypted pin", got)
	}
}

func TestLocalRejectsBadEncryptionKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "too-short")
	if _, err := NewLocal(t.TempDir()); err == nil {
		t.Error("NewLocal accepted invalid ENCRYPTION_KEY")
	}
}

func TestLocalLoadFailsOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := os.WriteFile(l.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}
	if _, err := l.Load(); err == nil {
		t.Error("Load succeeded on corrupt file")
	}
}

// Package account defines the Account record and its validation rules.
// An Account is a registered DANA wallet identified by its phone number;
// the same shape is persisted to the local JSON store and mirrored to the
// Master_Accounts worksheet.
package account

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Status values for an Account. Inactive records are soft-deleted in the
// sheet mirror and removed entirely from the local store.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	// MaxActive is the hard cap on simultaneously active accounts.
	MaxActive = 8

	// PhonePrefix and PhoneMinLen constrain registered DANA numbers.
	PhonePrefix = "08"
	PhoneMinLen = 10

	// PIN length bounds (digits only).
	PINMinLen = 4
	PINMaxLen = 6

	// DefaultName is used when no display name is supplied.
	DefaultName = "User"

	// AddedFormat is the timestamp layout for the Added field. Set once at
	// creation, never rewritten.
	AddedFormat = "2006-01-02 15:04:05"
)

// Account is the persisted representation of a registered wallet.
type Account struct {
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	PIN          string `json:"pin"`
	Status       string `json:"status"`
	Added        string `json:"added"`
	Transactions int    `json:"transactions"`
}

// New builds an active Account with the creation timestamp set to now.
func New(phone, pin, name string) Account {
	if name == "" {
		name = DefaultName
	}
	return Account{
		Phone:        phone,
		Name:         name,
		PIN:          pin,
		Status:       StatusActive,
		Added:        time.Now().Format(AddedFormat),
		Transactions: 0,
	}
}

// Active reports whether the record is in the active set.
func (a Account) Active() bool { return a.Status == StatusActive }

// ValidatePhone checks the DANA number format: must start with "08" and be
// at least 10 characters.
func ValidatePhone(phone string) error {
	if !strings.HasPrefix(phone, PhonePrefix) || len(phone) < PhoneMinLen {
		return fmt.Errorf("phone must start with %s and have at least %d digits", PhonePrefix, PhoneMinLen)
	}
	return nil
}

// ValidatePIN checks the PIN format: 4-6 characters, digits only.
func ValidatePIN(pin string) error {
	if len(pin) < PINMinLen || len(pin) > PINMaxLen {
		return fmt.Errorf("pin must be %d-%d digits", PINMinLen, PINMaxLen)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("pin must contain digits only")
		}
	}
	return nil
}

// CountActive returns the number of active records in accounts.
func CountActive(accounts []Account) int {
	n := 0
	for _, a := range accounts {
		if a.Active() {
			n++
		}
	}
	return n
}

// SheetHeader is the fixed header row of the Master_Accounts worksheet.
var SheetHeader = []string{"ID", "Phone", "Name", "PIN", "Status", "Added", "Transactions"}

// Sheet column ordinals (0-based) within a Master_Accounts row.
const (
	SheetColID = iota
	SheetColPhone
	SheetColName
	SheetColPIN
	SheetColStatus
	SheetColAdded
	SheetColTransactions
)

// FromSheetRow adapts one Master_Accounts data row (columns A:G, header
// excluded) into the canonical Account shape. Missing trailing cells are
// tolerated; the sheet's ID column is positional and not carried over.
func FromSheetRow(row []interface{}) Account {
	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return fmt.Sprintf("%v", row[i])
	}
	a := Account{
		Phone:  cell(SheetColPhone),
		Name:   cell(SheetColName),
		PIN:    cell(SheetColPIN),
		Status: cell(SheetColStatus),
		Added:  cell(SheetColAdded),
	}
	if a.Name == "" {
		a.Name = DefaultName
	}
	// Transactions is reserved for the ingestion pipeline; parse leniently.
	if v := cell(SheetColTransactions); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			a.Transactions = n
		}
	}
	return a
}

// ToSheetRow renders the account as a Master_Accounts row with the given
// positional id.
func (a Account) ToSheetRow(id int) []interface{} {
	return []interface{}{id, a.Phone, a.Name, a.PIN, a.Status, a.Added, a.Transactions}
}

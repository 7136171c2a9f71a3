package account

import (
	"testing"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"081234567890", false},
		{"0812345678", false}, // exactly minimum length
		{"12345", true},       // wrong prefix
		{"6281234567890", true},
		{"081234567", true}, // too short
		{"", true},
		{"08", true},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhone(%q) = %v, wantErr %v", tt.phone, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin     string
		wantErr bool
	}{
		{"1234", false},
		{"12345", false},
		{"123456", false},
		{"12", true},      // too short
		{"1234567", true}, // too long
		{"12a4", true},    // non-digit
		{"12 45", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := ValidatePIN(tt.pin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePIN(%q) = %v, wantErr %v", tt.pin, err, tt.wantErr)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	a := New("081234567890", "1234", "")
	if a.Name != DefaultName {
		t.Errorf("Name = %q, want %q", a.Name, DefaultName)
	}
	if a.Status != StatusActive {
		t.Errorf("Status = %q, want %q", a.Status, StatusActive)
	}
	if a.Transactions != 0 {
		t.Errorf("Transactions = %d, want 0", a.Transactions)
	}
	if a.Added == "" {
		t.Error("Added not set")
	}
}

func TestCountActive(t *testing.T) {
	accounts := []Account{
		{Phone: "081", Status: StatusActive},
		{Phone: "082", Status: StatusInactive},
		{Phone: "083", Status: StatusActive},
	}
	if got := CountActive(accounts); got != 2 {
		t.Errorf("CountActive = %d, want 2", got)
	}
}

func TestFromSheetRow(t *testing.T) {
	row := []interface{}{1, "081234567890", "Ana", "1234", "active", "2024-01-01 10:00:00", "3"}
	a := FromSheetRow(row)
	if a.Phone != "081234567890" || a.Name != "Ana" || a.PIN != "1234" {
		t.Errorf("unexpected adapt result: %+v", a)
	}
	if !a.Active() {
		t.Error("expected active record")
	}
	if a.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3", a.Transactions)
	}
}

func TestFromSheetRowShortRow(t *testing.T) {
	a := FromSheetRow([]interface{}{1, "081234567890"})
	if a.Phone != "081234567890" {
		t.Errorf("Phone = %q", a.Phone)
	}
	if a.Name != DefaultName {
		t.Errorf("Name = %q, want default", a.Name)
	}
	if a.Active() {
		t.Error("record with empty status must not read as active")
	}
}

func TestSheetRowRoundTrip(t *testing.T) {
	a := New("081234567890", "123456", "User")
	got := FromSheetRow(a.ToSheetRow(7))
	if got.Phone != a.Phone || got.PIN != a.PIN || got.Status != a.Status || got.Added != a.Added {
		t.Errorf("round trip mismatch: %+v vs %+v", got, a)
	}
}

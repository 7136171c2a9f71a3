package store

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dananet/mutasi-bot/account"
)

// Sheet mirrors accounts to a worksheet in a Google Sheets document for
// shared human visibility. It is never the sole source of truth: every
// method returns an error on failure and the coordinator falls through to
// the local store. Removal here is a soft delete (status flip), so the
// sheet keeps a permanent audit trail of deactivated accounts.
type Sheet struct {
	svc           *sheets.Service
	spreadsheetID string
	name          string

	mu       sync.Mutex
	resolved bool
}

// NewSheet authenticates with service-account credentials (the
// GOOGLE_CREDS_JSON blob) and targets the named worksheet within the
// spreadsheet. The worksheet itself is resolved lazily on first use.
func NewSheet(ctx context.Context, credsJSON []byte, spreadsheetID, name string) (*Sheet, error) {
	jwt, err := google.JWTConfigFromJSON(credsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Sheet{svc: svc, spreadsheetID: spreadsheetID, name: name}, nil
}

// NewSheetWithService wires an existing Sheets client; used by tests with a
// mock API server.
func NewSheetWithService(svc *sheets.Service, spreadsheetID, name string) *Sheet {
	return &Sheet{svc: svc, spreadsheetID: spreadsheetID, name: name}
}

// ensureWorksheet resolves the named worksheet, creating it with the fixed
// header row when the document doesn't have it yet.
func (s *Sheet) ensureWorksheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, ws := range doc.Sheets {
		if ws.Properties != nil && ws.Properties.Title == s.name {
			s.resolved = true
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.name}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheet %s: %w", s.name, err)
	}

	header := make([]interface{}, len(account.SheetHeader))
	for i, h := range account.SheetHeader {
		header[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeAll(), &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	s.resolved = true
	return nil
}

// Append adds one account row. The ID column is the next ordinal position.
func (s *Sheet) Append(ctx context.Context, a account.Account) error {
	if err := s.ensureWorksheet(ctx); err != nil {
		return err
	}
	rows, err := s.dataRows(ctx)
	if err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeAll(), &sheets.ValueRange{
		Values: [][]interface{}{a.ToSheetRow(len(rows) + 1)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append account row: %w", err)
	}
	return nil
}

// ListActive returns the mirror's rows filtered to active status, adapted
// to the canonical Account shape.
func (s *Sheet) ListActive(ctx context.Context) ([]account.Account, error) {
	if err := s.ensureWorksheet(ctx); err != nil {
		return nil, err
	}
	rows, err := s.dataRows(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]account.Account, 0, len(rows))
	for _, row := range rows {
		a := account.FromSheetRow(row)
		if a.Active() {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

// MarkInactive scans for the row matching phone and flips its status cell.
// Row identity is ordinal position; the row itself is never removed.
// A phone not present in the sheet is a no-op, not an error.
func (s *Sheet) MarkInactive(ctx context.Context, phone string) error {
	if err := s.ensureWorksheet(ctx); err != nil {
		return err
	}
	rows, err := s.dataRows(ctx)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if account.FromSheetRow(row).Phone != phone {
			continue
		}
		// Data rows start at sheet row 2 (row 1 is the header).
		cell := fmt.Sprintf("%s!E%d", s.name, i+2)
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, &sheets.ValueRange{
			Values: [][]interface{}{{account.StatusInactive}},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("flip status cell %s: %w", cell, err)
		}
		return nil
	}
	return nil
}

func (s *Sheet) rangeAll() string { return fmt.Sprintf("%s!A1", s.name) }

func (s *Sheet) dataRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!A2:G", s.name)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read account rows: %w", err)
	}
	return resp.Values, nil
}

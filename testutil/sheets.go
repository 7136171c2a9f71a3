// Package testutil provides test doubles shared across packages, primarily
// a mock Google Sheets API server usable with the real generated client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
)

var statusCellPattern = regexp.MustCompile(`!E(\d+)$`)

// MockSheetsServer emulates the small slice of the Sheets v4 API the bot
// uses: spreadsheet get, addSheet batchUpdate, values get/append/update.
// It models a single spreadsheet with at most one worksheet.
type MockSheetsServer struct {
	*httptest.Server

	mu         sync.Mutex
	worksheets map[string]bool
	rows       [][]interface{} // includes header row once created
	failAll    bool
}

// NewMockSheetsServer starts the mock. Point the sheets client at it with
// option.WithEndpoint(srv.URL + "/") and option.WithoutAuthentication().
func NewMockSheetsServer(t *testing.T) *MockSheetsServer {
	t.Helper()
	m := &MockSheetsServer{worksheets: make(map[string]bool)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Close)
	return m
}

// SetFailAll makes every request return HTTP 500, for degraded-mirror tests.
func (m *MockSheetsServer) SetFailAll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = fail
}

// SeedWorksheet installs a worksheet with the given header and data rows.
func (m *MockSheetsServer) SeedWorksheet(name string, rows [][]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worksheets[name] = true
	m.rows = rows
}

// Rows returns a copy of all stored rows, header included.
func (m *MockSheetsServer) Rows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]interface{}, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *MockSheetsServer) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAll {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
		return
	}

	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, ":batchUpdate") && r.Method == http.MethodPost:
		m.handleBatchUpdate(w, r)
	case strings.HasSuffix(path, ":append") && r.Method == http.MethodPost:
		m.handleAppend(w, r)
	case strings.Contains(path, "/values/") && r.Method == http.MethodGet:
		m.handleValuesGet(w)
	case strings.Contains(path, "/values/") && r.Method == http.MethodPut:
		m.handleValuesUpdate(w, r)
	case r.Method == http.MethodGet:
		m.handleSpreadsheetGet(w)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockSheetsServer) handleSpreadsheetGet(w http.ResponseWriter) {
	type props struct {
		Title string `json:"title"`
	}
	type ws struct {
		Properties props `json:"properties"`
	}
	var list []ws
	for name := range m.worksheets {
		list = append(list, ws{Properties: props{Title: name}})
	}
	writeJSON(w, map[string]interface{}{"sheets": list})
}

func (m *MockSheetsServer) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Requests []struct {
			AddSheet *struct {
				Properties struct {
					Title string `json:"title"`
				} `json:"properties"`
			} `json:"addSheet"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, req := range body.Requests {
		if req.AddSheet != nil {
			m.worksheets[req.AddSheet.Properties.Title] = true
		}
	}
	writeJSON(w, map[string]interface{}{})
}

func (m *MockSheetsServer) handleAppend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.rows = append(m.rows, body.Values...)
	writeJSON(w, map[string]interface{}{})
}

func (m *MockSheetsServer) handleValuesGet(w http.ResponseWriter) {
	// The store only ever reads A2:G, so serve everything below the header.
	var data [][]interface{}
	if len(m.rows) > 1 {
		data = m.rows[1:]
	}
	writeJSON(w, map[string]interface{}{"values": data})
}

func (m *MockSheetsServer) handleValuesUpdate(w http.ResponseWriter, r *http.Request) {
	match := statusCellPattern.FindStringSubmatch(r.URL.Path)
	if match == nil {
		http.Error(w, "unsupported range", http.StatusBadRequest)
		return
	}
	rowNum, _ := strconv.Atoi(match[1])
	var body struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rowNum >= 1 && rowNum <= len(m.rows) && len(body.Values) > 0 && len(body.Values[0]) > 0 {
		row := m.rows[rowNum-1]
		for len(row) < 5 {
			row = append(row, "")
		}
		row[4] = body.Values[0][0]
		m.rows[rowNum-1] = row
	}
	writeJSON(w, map[string]interface{}{})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test mock response
}

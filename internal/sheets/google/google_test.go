package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"

	ports "fintrack/internal/sheets"
)

// fakeSheets serves the handful of Sheets v4 endpoints the client uses.
type fakeSheets struct {
	mu      sync.Mutex
	tabs    []string
	rows    [][]any
	updates []string
	bodies  []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && !strings.Contains(path, "/values/"):
		var sheets []map[string]any
		for _, t := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodGet && strings.HasSuffix(path, "!1:1"):
		values := [][]any{}
		if len(f.rows) > 0 {
			values = append(values, f.rows[0])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.rows})
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.updates = append(f.updates, path[strings.Index(path, "/values/")+len("/values/"):])
		f.bodies = append(f.bodies, string(body))
		if got := r.URL.Query().Get("valueInputOption"); got != "USER_ENTERED" {
			http.Error(w, "bad valueInputOption "+got, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRows": 1})
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewWithOptions(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	return c
}

var target = ports.Target{SpreadsheetID: "sheet-123", Sheet: "Joint Finance"}

func TestReadHeader(t *testing.T) {
	f := &fakeSheets{
		tabs: []string{"Other", "Joint Finance"},
		rows: [][]any{{"Total Expenses", " Groceries ", "Dining"}, {"1", "2", "3"}},
	}
	c := newTestClient(t, f)

	header, err := c.ReadHeader(context.Background(), target)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	want := []string{"Total Expenses", "Groceries", "Dining"}
	if strings.Join(header, "|") != strings.Join(want, "|") {
		t.Errorf("header = %v, want %v", header, want)
	}
}

func TestReadHeader_MissingTab(t *testing.T) {
	c := newTestClient(t, &fakeSheets{tabs: []string{"Budget"}})

	_, err := c.ReadHeader(context.Background(), target)
	if !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadHeader_Empty(t *testing.T) {
	c := newTestClient(t, &fakeSheets{tabs: []string{"Joint Finance"}})

	_, err := c.ReadHeader(context.Background(), target)
	if !errors.Is(err, ports.ErrEmptyHeader) {
		t.Fatalf("expected ErrEmptyHeader, got %v", err)
	}
}

func TestAppendRow_WritesAfterLastRow(t *testing.T) {
	f := &fakeSheets{
		tabs: []string{"Joint Finance"},
		rows: [][]any{{"Total Expenses", "Groceries"}, {"10", "5"}, {}, {"20", "7"}},
	}
	c := newTestClient(t, f)

	ref, err := c.AppendRow(context.Background(), target, []string{"320.50", ""})
	if err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if ref != "'Joint Finance'!A5" {
		t.Errorf("ref = %q", ref)
	}
	if len(f.updates) != 1 {
		t.Fatalf("expected one write, got %d", len(f.updates))
	}
	if f.updates[0] != "'Joint Finance'!A5" {
		t.Errorf("write range = %q", f.updates[0])
	}
	if !strings.Contains(f.bodies[0], `"320.50"`) {
		t.Errorf("body missing value: %s", f.bodies[0])
	}
}

func TestAppendRow_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()
	c, err := NewWithOptions(context.Background(), goption.WithEndpoint(srv.URL+"/"), goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.AppendRow(context.Background(), target, []string{"1"}); err == nil {
		t.Fatal("expected error from forbidden response")
	}
}

func TestNilService(t *testing.T) {
	c := &Client{}
	if _, err := c.AppendRow(context.Background(), target, nil); err == nil {
		t.Error("expected error for nil service")
	}
	if _, err := c.ReadHeader(context.Background(), target); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestNewFromEnv_InvalidJSON(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "invalid-json")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error with invalid JSON")
	}
	if !strings.Contains(err.Error(), "service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_UnreadableFile(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/creds.json")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Bob's"); got != "'Bob''s'" {
		t.Errorf("quoteSheet = %q", got)
	}
}

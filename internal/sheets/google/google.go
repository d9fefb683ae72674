package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "fintrack/internal/sheets"
)

// ErrMissingCredentials is returned when no service account is configured.
var ErrMissingCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")

type Client struct {
	svc *gsheet.Service
}

// Ensure interface conformance
var _ ports.RowAppender = (*Client)(nil)

// New wraps an existing Sheets service.
func New(svc *gsheet.Service) *Client {
	return &Client{svc: svc}
}

// NewWithOptions builds a Sheets service from raw client options.
func NewWithOptions(ctx context.Context, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return New(svc), nil
}

// NewFromEnv creates a Sheets client authenticated with a service account.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return NewFromCredentials(ctx, credentialsJSON)
}

// NewFromCredentials creates a Sheets client from service account JSON.
func NewFromCredentials(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	// The oauth2 transport wraps the pooled client so every call is authorized.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	httpClient := oauth2.NewClient(ctx, creds.TokenSource)

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"project_id", creds.ProjectID,
		"scope", gsheet.SpreadsheetsScope)
	return NewWithOptions(ctx, goption.WithHTTPClient(httpClient))
}

func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, ErrMissingCredentials
	}
}

// newHTTPClientWithPooling creates an HTTP client for the Sheets API with
// connection pooling and bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// ReadHeader returns the first row of the target tab.
func (c *Client) ReadHeader(ctx context.Context, t ports.Target) ([]string, error) {
	if err := c.ensureTab(ctx, t); err != nil {
		return nil, err
	}
	rng := quoteSheet(t.Sheet) + "!1:1"
	resp, err := c.svc.Spreadsheets.Values.Get(t.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return nil, ports.ErrEmptyHeader
	}
	header := toStrings(resp.Values[0])
	if isBlankRow(header) {
		return nil, ports.ErrEmptyHeader
	}
	return header, nil
}

// AppendRow writes row into the first row after the last non-empty one.
func (c *Client) AppendRow(ctx context.Context, t ports.Target, row []string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// The values endpoint trims trailing empty rows, so the number of rows
	// returned for the whole tab is the last non-empty row.
	resp, err := c.svc.Spreadsheets.Values.Get(t.SpreadsheetID, quoteSheet(t.Sheet)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", t.Sheet, err)
	}
	nextRow := len(resp.Values) + 1

	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	rng := fmt.Sprintf("%s!A%d", quoteSheet(t.Sheet), nextRow)
	_, err = c.svc.Spreadsheets.Values.Update(t.SpreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{values}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("write row %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Appended summary row", "sheet", t.Sheet, "row", nextRow)
	return rng, nil
}

func (c *Client) ensureTab(ctx context.Context, t ports.Target) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ss, err := c.svc.Spreadsheets.Get(t.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == t.Sheet {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ports.ErrSheetNotFound, t.Sheet)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

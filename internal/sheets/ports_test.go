package sheets

import (
	"errors"
	"testing"
)

func TestParseSpreadsheetID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1AbC_d-9", want: "1AbC_d-9"},
		{in: "  1AbC  ", want: "1AbC"},
		{in: "https://docs.google.com/spreadsheets/d/1AbC_d-9/edit#gid=0", want: "1AbC_d-9"},
		{in: "https://docs.google.com/spreadsheets/d/xyz", want: "xyz"},
		{in: "https://example.com/nothing/here", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSpreadsheetID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSpreadsheetID(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSpreadsheetID(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSpreadsheetID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTargetValidate(t *testing.T) {
	if err := (Target{Sheet: "x"}).Validate(); !errors.Is(err, ErrEmptySpreadsheet) {
		t.Errorf("expected ErrEmptySpreadsheet, got %v", err)
	}
	if err := (Target{SpreadsheetID: "id"}).Validate(); !errors.Is(err, ErrInvalidTargetName) {
		t.Errorf("expected ErrInvalidTargetName, got %v", err)
	}
	if err := (Target{SpreadsheetID: "id", Sheet: DefaultSheetName}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

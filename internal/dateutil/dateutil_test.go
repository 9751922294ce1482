package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParsePublished(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "ISO date",
			raw:    "2024-11-18",
			want:   time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "surrounding whitespace ignored",
			raw:    "  2024-01-01 ",
			want:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "long month name",
			raw:    "March 5, 2023",
			want:   time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "RFC3339 timestamp",
			raw:    "2022-06-01T10:30:00Z",
			want:   time.Date(2022, 6, 1, 10, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "free text",
			raw:    "sometime last summer",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParsePublished(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParsePublished(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				if !got.IsZero() {
					t.Errorf("ParsePublished(%q) = %v, want zero time", tt.raw, got)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParsePublished(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSortKey_UnparseableIsZero(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "soon", "n/a"} {
		if got := SortKey(raw); !got.IsZero() {
			t.Errorf("SortKey(%q) = %v, want zero time", raw, got)
		}
	}
	if SortKey("2024-01-01").IsZero() {
		t.Error("SortKey(2024-01-01) is zero, want a real date")
	}
}

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "ISO date format", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "European format", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "long format", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "preset name", format: "short", want: "Jan 2006"},
		{name: "preset is case insensitive", format: "ISO", want: "2006-01-02"},
		{name: "bracket escapes literal text", format: "[Shipped] YYYY", want: "Shipped 2006"},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[YYYY", wantErr: ErrInvalidDateFormat},
		{
			name:    "too long",
			format:  "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD",
			wantErr: ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatPublished(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		layout string
		want   string
	}{
		{name: "no layout keeps raw", raw: "2024-01-01", layout: "", want: "2024-01-01"},
		{name: "layout applied", raw: "2024-01-01", layout: "Jan 2006", want: "Jan 2024"},
		{name: "unparseable keeps raw", raw: "soon", layout: "Jan 2006", want: "soon"},
		{name: "empty stays empty", raw: "", layout: "Jan 2006", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatPublished(tt.raw, tt.layout); got != tt.want {
				t.Errorf("FormatPublished(%q, %q) = %q, want %q", tt.raw, tt.layout, got, tt.want)
			}
		})
	}
}

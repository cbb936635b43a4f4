package origin

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const ridgecrestXML = `<?xml version="1.0" encoding="UTF-8"?>
<earthquake id="ci38457511" netid="ci" network="California Integrated Seismic Network" lat="35.7695" lon="-117.5993" depth="8.0" mag="7.1" time="2019-07-06T03:19:53.040Z" locstring="Ridgecrest Earthquake Sequence" mech="SS" productcode="ci38457511" event_type="ACTUAL"/>
`

func TestParseEventXML(t *testing.T) {
	o, err := Parse(strings.NewReader(ridgecrestXML))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if o.NetID != "ci" || o.ID != "ci38457511" {
		t.Fatalf("unexpected ids: %+v", o)
	}
	want := time.Date(2019, 7, 6, 3, 19, 53, 40_000_000, time.UTC)
	if !o.Time.Equal(want) {
		t.Fatalf("unexpected time %v want %v", o.Time, want)
	}
	if o.Mag != 7.1 || o.Depth != 8.0 || o.Lat != 35.7695 || o.Lon != -117.5993 {
		t.Fatalf("unexpected numbers: %+v", o)
	}
	if o.TimeString() != "2019/07/06 031953" {
		t.Fatalf("unexpected AQMS time %q", o.TimeString())
	}
}

func TestParseTimeLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2020-01-02T03:04:05Z", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2020-01-02T03:04:05", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2020-01-02T03:04:05.5", time.Date(2020, 1, 2, 3, 4, 5, 500_000_000, time.UTC)},
		{"2020-01-02 03:04:05", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2020-01-02T05:04:05+02:00", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseTime(tt.value)
			if err != nil {
				t.Fatalf("parseTime(%q) error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("parseTime(%q) = %v want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRequiresNetIDAndTime(t *testing.T) {
	tests := map[string]string{
		"netid": `<earthquake id="x" time="2020-01-02T03:04:05Z"/>`,
		"time":  `<earthquake id="x" netid="us"/>`,
	}
	for attr, doc := range tests {
		t.Run(attr, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			if !errors.Is(err, ErrMissingAttribute) {
				t.Fatalf("expected ErrMissingAttribute, got %v", err)
			}
			if !strings.Contains(err.Error(), attr) {
				t.Fatalf("expected error to name %q, got %v", attr, err)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	docs := []string{
		`<stationlist/>`,
		`<earthquake netid="us" time="yesterday"/>`,
		`<earthquake netid="us" time="2020-01-02T03:04:05Z" mag="big"/>`,
		`not xml`,
	}
	for _, doc := range docs {
		if _, err := Parse(strings.NewReader(doc)); err == nil {
			t.Fatalf("expected error for %q", doc)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.xml")
	if err := os.WriteFile(path, []byte(ridgecrestXML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	o, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if o.Network != "California Integrated Seismic Network" {
		t.Fatalf("unexpected network %q", o.Network)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

package origin

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// AQMSTimeLayout is the timestamp format AQMS tooling expects on the command line.
const AQMSTimeLayout = "2006/01/02 150405"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ErrMissingAttribute reports an event.xml lacking a required attribute.
var ErrMissingAttribute = errors.New("missing required attribute")

// Origin is the subset of a ShakeMap event description the notifier needs.
type Origin struct {
	ID          string
	NetID       string
	Network     string
	Time        time.Time
	Lat         float64
	Lon         float64
	Depth       float64
	Mag         float64
	Locstring   string
	Mech        string
	ProductCode string
	EventType   string
}

// TimeString renders the origin time in AQMSTimeLayout.
func (o *Origin) TimeString() string {
	return o.Time.UTC().Format(AQMSTimeLayout)
}

type earthquakeXML struct {
	XMLName     xml.Name `xml:"earthquake"`
	ID          string   `xml:"id,attr"`
	NetID       string   `xml:"netid,attr"`
	Network     string   `xml:"network,attr"`
	Lat         string   `xml:"lat,attr"`
	Lon         string   `xml:"lon,attr"`
	Depth       string   `xml:"depth,attr"`
	Mag         string   `xml:"mag,attr"`
	Time        string   `xml:"time,attr"`
	Locstring   string   `xml:"locstring,attr"`
	Mech        string   `xml:"mech,attr"`
	ProductCode string   `xml:"productcode,attr"`
	EventType   string   `xml:"event_type,attr"`
}

// ParseFile reads and parses an event.xml file.
func ParseFile(path string) (*Origin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()

	o, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return o, nil
}

// Parse decodes an <earthquake> element. netid and time are required; the
// numeric attributes default to zero when absent.
func Parse(r io.Reader) (*Origin, error) {
	var raw earthquakeXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode event xml: %w", err)
	}

	o := &Origin{
		ID:          strings.TrimSpace(raw.ID),
		NetID:       strings.TrimSpace(raw.NetID),
		Network:     strings.TrimSpace(raw.Network),
		Locstring:   strings.TrimSpace(raw.Locstring),
		Mech:        strings.TrimSpace(raw.Mech),
		ProductCode: strings.TrimSpace(raw.ProductCode),
		EventType:   strings.TrimSpace(raw.EventType),
	}
	if o.NetID == "" {
		return nil, fmt.Errorf("%w: netid", ErrMissingAttribute)
	}

	ts, err := parseTime(raw.Time)
	if err != nil {
		return nil, err
	}
	o.Time = ts

	numbers := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"lat", raw.Lat, &o.Lat},
		{"lon", raw.Lon, &o.Lon},
		{"depth", raw.Depth, &o.Depth},
		{"mag", raw.Mag, &o.Mag},
	}
	for _, n := range numbers {
		value := strings.TrimSpace(n.value)
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", n.name, err)
		}
		*n.dst = parsed
	}

	return o, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: time", ErrMissingAttribute)
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("attribute time: unrecognized timestamp %q", value)
}

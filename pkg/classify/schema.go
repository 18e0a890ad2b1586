package classify

import (
	"fmt"
	"strings"

	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
)

type role int

const (
	roleLatitude role = iota
	roleLongitude
	roleEasting
	roleNorthing
	roleZone
	roleZoneLetter
	numRoles
)

var roleNames = [numRoles]string{"latitude", "longitude", "easting", "northing", "zone number", "zone letter"}

func (r role) String() string { return roleNames[r] }

// aliases maps a lower-cased header name to its role
var aliases = map[string]role{
	"lat":         roleLatitude,
	"latitude":    roleLatitude,
	"lon":         roleLongitude,
	"long":        roleLongitude,
	"longitude":   roleLongitude,
	"easting":     roleEasting,
	"x":           roleEasting,
	"northing":    roleNorthing,
	"y":           roleNorthing,
	"zone number": roleZone,
	"zone":        roleZone,
	"zone letter": roleZoneLetter,
}

// Schema is the column layout of a table, resolved once from its header row
type Schema struct {
	header    []string
	direction models.Direction
	columns   [numRoles]int
}

// NewSchema resolves the coordinate columns of a header row
func NewSchema(header []string) (*Schema, error) {
	s := &Schema{header: header}
	for i := range s.columns {
		s.columns[i] = -1
	}

	for i, name := range header {
		r, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if prev := s.columns[r]; prev >= 0 {
			return nil, fmt.Errorf("%w: columns %q and %q both hold the %s", ErrAmbiguousRecord, header[prev], name, r)
		}
		s.columns[r] = i
	}

	geodetic := s.has(roleLatitude) || s.has(roleLongitude)
	projected := s.has(roleEasting) || s.has(roleNorthing)
	if s.has(roleLatitude) && s.has(roleEasting) {
		return nil, fmt.Errorf("%w: header has both %q and %q", ErrAmbiguousRecord, header[s.columns[roleLatitude]], header[s.columns[roleEasting]])
	}

	switch {
	case geodetic && !projected:
		s.direction = models.Forward
		if missing := s.missing(roleLatitude, roleLongitude); len(missing) > 0 {
			return nil, fmt.Errorf("%w: header lacks %s", ErrMalformedRecord, strings.Join(missing, ", "))
		}
	case projected && !geodetic:
		s.direction = models.Inverse
		if missing := s.missing(roleEasting, roleNorthing, roleZone); len(missing) > 0 {
			return nil, fmt.Errorf("%w: header lacks %s", ErrMalformedRecord, strings.Join(missing, ", "))
		}
	case geodetic && projected:
		return nil, fmt.Errorf("%w: header mixes geodetic and UTM columns", ErrAmbiguousRecord)
	default:
		return nil, fmt.Errorf("%w: header %q has neither latitude/longitude nor easting/northing columns", ErrMalformedRecord, header)
	}

	return s, nil
}

func (s *Schema) has(r role) bool { return s.columns[r] >= 0 }

func (s *Schema) missing(roles ...role) []string {
	var out []string
	for _, r := range roles {
		if !s.has(r) {
			out = append(out, r.String())
		}
	}
	return out
}

// Direction returns the conversion every row of the table needs
func (s *Schema) Direction() models.Direction { return s.direction }

// Header returns the original header row
func (s *Schema) Header() []string { return s.header }

// Columns returns the header names appended to the output
func (s *Schema) Columns() []string { return s.direction.Columns() }

// Classify builds the record for one data row. Every original field is kept
// as passthrough in header order.
func (s *Schema) Classify(row []string) (models.Record, error) {
	if len(row) != len(s.header) {
		return models.Record{}, fmt.Errorf("%w: row has %d fields, header has %d", ErrMalformedRecord, len(row), len(s.header))
	}

	passthrough := make([]models.Field, len(row))
	for i, v := range row {
		passthrough[i] = models.Field{Name: s.header[i], Value: v}
	}

	if s.direction == models.Forward {
		lat, err := parseNumber("latitude", row[s.columns[roleLatitude]])
		if err != nil {
			return models.Record{}, err
		}
		lon, err := parseNumber("longitude", row[s.columns[roleLongitude]])
		if err != nil {
			return models.Record{}, err
		}
		return models.GeodeticRecord(models.GeodeticCoordinate{Latitude: lat, Longitude: lon}, passthrough), nil
	}

	easting, err := parseNumber("easting", row[s.columns[roleEasting]])
	if err != nil {
		return models.Record{}, err
	}
	northing, err := parseNumber("northing", row[s.columns[roleNorthing]])
	if err != nil {
		return models.Record{}, err
	}
	zone, letter, err := s.zone(row)
	if err != nil {
		return models.Record{}, err
	}
	return models.UtmRecord(models.UtmCoordinate{
		Easting:    easting,
		Northing:   northing,
		ZoneNumber: zone,
		ZoneLetter: letter,
	}, passthrough), nil
}

// zone reads either a combined "56L" zone cell or a bare number plus the
// zone letter column
func (s *Schema) zone(row []string) (int, byte, error) {
	zoneCell := strings.TrimSpace(row[s.columns[roleZone]])
	letterCell := ""
	if s.has(roleZoneLetter) {
		letterCell = strings.TrimSpace(row[s.columns[roleZoneLetter]])
	}

	zone, letter, err := utm.ParseZone(zoneCell)
	switch {
	case err == nil:
		if letterCell != "" && !strings.EqualFold(letterCell, string(letter)) {
			return 0, 0, fmt.Errorf("%w: zone %q disagrees with zone letter %q", utm.ErrMalformedZone, zoneCell, letterCell)
		}
		return zone, letter, nil
	case letterCell == "":
		return 0, 0, err
	}

	return utm.ParseZone(zoneCell, letterCell)
}

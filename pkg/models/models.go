package models

import (
	"strconv"

	"github.com/golang/geo/s2"
)

// GeodeticCoordinate represents a WGS84 latitude/longitude pair in degrees
type GeodeticCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatLng returns the coordinate as an s2.LatLng
func (g GeodeticCoordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(g.Latitude, g.Longitude)
}

// UtmCoordinate represents a projected UTM position
type UtmCoordinate struct {
	Easting    float64 `json:"easting"`
	Northing   float64 `json:"northing"`
	ZoneNumber int     `json:"zone_number"`
	ZoneLetter byte    `json:"zone_letter"`
}

// Zone returns the combined zone designator, e.g. "32U"
func (u UtmCoordinate) Zone() string {
	return strconv.Itoa(u.ZoneNumber) + string(u.ZoneLetter)
}

// Northern reports whether the zone letter lies in the northern hemisphere
func (u UtmCoordinate) Northern() bool {
	return u.ZoneLetter >= 'N'
}

// Field is one named column of a tabular input row
type Field struct {
	Name  string
	Value string
}

// Direction tells which projection a record needs
type Direction int

const (
	// Forward converts geodetic to UTM
	Forward Direction = iota
	// Inverse converts UTM to geodetic
	Inverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return "unknown"
	}
}

// ForwardColumns and InverseColumns are the column names appended to tabular output
var (
	ForwardColumns = []string{"Easting", "Northing", "Zone number", "Zone letter"}
	InverseColumns = []string{"Longitude", "Latitude"}
)

// Columns returns the names of the columns produced for this direction
func (d Direction) Columns() []string {
	if d == Inverse {
		return InverseColumns
	}
	return ForwardColumns
}

// Record is a classified input record. Exactly one of Geodetic and UTM is
// meaningful, selected by Direction.
type Record struct {
	Direction   Direction
	Geodetic    GeodeticCoordinate
	UTM         UtmCoordinate
	Passthrough []Field
}

// GeodeticRecord builds a forward record
func GeodeticRecord(g GeodeticCoordinate, passthrough []Field) Record {
	return Record{Direction: Forward, Geodetic: g, Passthrough: passthrough}
}

// UtmRecord builds an inverse record
func UtmRecord(u UtmCoordinate, passthrough []Field) Record {
	return Record{Direction: Inverse, UTM: u, Passthrough: passthrough}
}

// Result is a converted record. For a Forward record UTM holds the output,
// for an Inverse record Geodetic does.
type Result struct {
	Record   Record
	Geodetic GeodeticCoordinate
	UTM      UtmCoordinate
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft GeodeticCoordinate
	TopRight   GeodeticCoordinate
}

// Package format renders converted records at the output boundary. All
// rounding happens here; the projections work at full precision.
package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/kass/coordcon/pkg/models"
)

// Options controls numeric output
type Options struct {
	UTMDecimals int `yaml:"utm_decimals"`
	GeoDecimals int `yaml:"geo_decimals"`
}

// DefaultOptions formats eastings/northings to the millimetre and degrees to
// six places
func DefaultOptions() Options {
	return Options{UTMDecimals: 3, GeoDecimals: 6}
}

// Number formats v with a fixed number of decimals. Values that round to
// zero never carry a minus sign.
func Number(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

// Values returns the appended column values for a result, in the order of
// its direction's Columns.
func (o Options) Values(res models.Result) []string {
	if res.Record.Direction == models.Inverse {
		return []string{
			Number(res.Geodetic.Longitude, o.GeoDecimals),
			Number(res.Geodetic.Latitude, o.GeoDecimals),
		}
	}
	return []string{
		Number(res.UTM.Easting, o.UTMDecimals),
		Number(res.UTM.Northing, o.UTMDecimals),
		strconv.Itoa(res.UTM.ZoneNumber),
		string(res.UTM.ZoneLetter),
	}
}

// Text renders a result as one space separated line without the newline:
// "easting northing zone letter" for forward results, "latitude longitude"
// for inverse ones.
func (o Options) Text(res models.Result) string {
	if res.Record.Direction == models.Inverse {
		return Number(res.Geodetic.Latitude, o.GeoDecimals) + " " + Number(res.Geodetic.Longitude, o.GeoDecimals)
	}
	return strings.Join(o.Values(res), " ")
}

// CSVWriter writes rows with every field quoted
type CSVWriter struct {
	w     io.Writer
	delim string
}

// NewCSVWriter creates a writer using delim between fields
func NewCSVWriter(w io.Writer, delim rune) *CSVWriter {
	return &CSVWriter{w: w, delim: string(delim)}
}

// WriteRow writes one quoted row terminated by a newline
func (c *CSVWriter) WriteRow(fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString(c.delim)
		}
		b.WriteString(Quote(f))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(c.w, b.String())
	return err
}

// WriteHeader writes the original header followed by the appended columns
func (c *CSVWriter) WriteHeader(header []string, d models.Direction) error {
	return c.WriteRow(append(append([]string{}, header...), d.Columns()...))
}

// WriteResult writes the passthrough fields verbatim followed by the
// formatted values
func (c *CSVWriter) WriteResult(o Options, res models.Result) error {
	row := make([]string, 0, len(res.Record.Passthrough)+4)
	for _, f := range res.Record.Passthrough {
		row = append(row, f.Value)
	}
	return c.WriteRow(append(row, o.Values(res)...))
}

// Quote wraps a field in double quotes, doubling embedded quotes
func Quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kass/coordcon/pkg/classify"
	"github.com/kass/coordcon/pkg/config"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConverter(t *testing.T, modify ...func(*config.Config)) *Converter {
	t.Helper()
	cfg := config.Default()
	cfg.Workers = 4
	cfg.BatchSize = 2
	for _, m := range modify {
		m(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(cfg, zerolog.Nop())
}

func run(t *testing.T, c *Converter, args []string, stdin string) (string, Stats, error) {
	t.Helper()
	var out bytes.Buffer
	stats, err := c.Run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), stats, err
}

func TestArgs(t *testing.T) {
	c := newConverter(t)

	out, _, err := run(t, c, []string{"51", "10"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"570168.862", "5650300.787", "32", "U"}, strings.Fields(out))

	out, _, err = run(t, c, []string{"570168.862", "5650300.787", "32", "U"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"51.000000", "10.000000"}, strings.Fields(out))

	out, _, err = run(t, c, []string{"570168.862", "5650300.787", "32U"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"51.000000", "10.000000"}, strings.Fields(out))
}

func TestArgsErrors(t *testing.T) {
	c := newConverter(t)

	_, _, err := run(t, c, []string{"91", "10"}, "")
	assert.ErrorIs(t, err, utm.ErrOutOfRange)

	_, _, err = run(t, c, []string{"1", "2", "3", "4", "5"}, "")
	assert.ErrorIs(t, err, classify.ErrMalformedRecord)

	_, _, err = run(t, c, []string{"570168.862", "5650300.787", "32I"}, "")
	assert.ErrorIs(t, err, utm.ErrMalformedZone)
}

func TestStdinSingleLine(t *testing.T) {
	c := newConverter(t)

	out, _, err := run(t, c, nil, "51.000000 10.000000")
	require.NoError(t, err)
	assert.Equal(t, "570168.862 5650300.787 32 U", strings.TrimSpace(out))

	out, _, err = run(t, c, nil, "570168.862 5650300.787 32 U")
	require.NoError(t, err)
	assert.Equal(t, "51.000000 10.000000", strings.TrimSpace(out))

	out, _, err = run(t, c, []string{"-"}, "570168.862 5650300.787 32U")
	require.NoError(t, err)
	assert.Equal(t, "51.000000 10.000000", strings.TrimSpace(out))
}

const geodeticLines = `-11.350797 155.312500
0.000000 -30.000000
82.332000 -46.615000
-49.312813 69.109497
`

const utmLines = `752386.614 8744229.492 56 L
166021.443 0.000 26 N
475944.783 9142225.593 23 X
507958.611 4537763.568 42 F
`

func TestStdinBatch(t *testing.T) {
	c := newConverter(t)

	out, stats, err := run(t, c, nil, geodeticLines)
	require.NoError(t, err)
	assert.Equal(t, utmLines, out)
	assert.Equal(t, Stats{Converted: 4}, stats)

	out, _, err = run(t, c, nil, utmLines)
	require.NoError(t, err)
	assert.Equal(t, geodeticLines, out)
}

func TestStdinBlankLines(t *testing.T) {
	c := newConverter(t)

	out, stats, err := run(t, c, nil, "\n51 10\n\n   \n570168.862 5650300.787 32U\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, "570168.862 5650300.787 32 U\n51.000000 10.000000\n", out)
	assert.Equal(t, 2, stats.Converted)
}

func TestStdinAbort(t *testing.T) {
	c := newConverter(t)

	out, stats, err := run(t, c, nil, "51 10\n51 ten\n0 -30\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, classify.ErrMalformedRecord)
	assert.True(t, IsRecordError(err))

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 2, recErr.Line)
	assert.Equal(t, "51 ten", recErr.Input)

	assert.Equal(t, "570168.862 5650300.787 32 U\n", out)
	assert.Equal(t, 1, stats.Converted)
}

func TestStdinSkip(t *testing.T) {
	c := newConverter(t, func(cfg *config.Config) { cfg.OnError = config.Skip })

	out, stats, err := run(t, c, nil, "51 10\n89 0\n51 ten\n0 -30\n")
	require.NoError(t, err)
	assert.Equal(t, "570168.862 5650300.787 32 U\n166021.443 0.000 26 N\n", out)
	assert.Equal(t, Stats{Converted: 2, Skipped: 2}, stats)
}

func TestStdinManyLinesKeepOrder(t *testing.T) {
	c := newConverter(t, func(cfg *config.Config) { cfg.BatchSize = 7 })

	var in, want strings.Builder
	for i := 0; i < 100; i++ {
		in.WriteString(fmt.Sprintf("%d.5 %d.25\n", i%80-40, i%170-85))
		res, err := c.convertLine(fmt.Sprintf("%d.5 %d.25", i%80-40, i%170-85))
		require.NoError(t, err)
		want.WriteString(res + "\n")
	}

	out, stats, err := run(t, c, nil, in.String())
	require.NoError(t, err)
	assert.Equal(t, want.String(), out)
	assert.Equal(t, 100, stats.Converted)
}

func TestStdinCancelled(t *testing.T) {
	c := newConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Lines(ctx, strings.NewReader(geodeticLines), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

// convertLine is the sequential reference for a single text record
func (c *Converter) convertLine(line string) (string, error) {
	rec, err := classify.Line(line)
	if err != nil {
		return "", err
	}
	res, err := Convert(rec)
	if err != nil {
		return "", err
	}
	return c.opts.Text(res), nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVForward(t *testing.T) {
	c := newConverter(t)
	path := writeFile(t, "lat_long.csv", "lat,long\r\n-11.350797,155.3125\r\n0,-30\r\n82.332,-46.615\r\n-49.312813,69.109497\r\n")

	out, stats, err := run(t, c, []string{path}, "")
	require.NoError(t, err)
	assert.Equal(t, `"lat","long","Easting","Northing","Zone number","Zone letter"
"-11.350797","155.3125","752386.614","8744229.492","56","L"
"0","-30","166021.443","0.000","26","N"
"82.332","-46.615","475944.783","9142225.593","23","X"
"-49.312813","69.109497","507958.611","4537763.568","42","F"
`, out)
	assert.Equal(t, 4, stats.Converted)
}

func TestCSVInverseSplitZone(t *testing.T) {
	c := newConverter(t)
	path := writeFile(t, "utm.csv", "easting,northing,zone number,zone letter\r\n"+
		"752386.614,8744229.492,56,L\r\n"+
		"166021.443,0.0,26,N\r\n"+
		"475944.783,9142225.593,23,X\r\n"+
		"507958.611,4537763.568,42,F\r\n")

	out, _, err := run(t, c, []string{path}, "")
	require.NoError(t, err)
	assert.Equal(t, `"easting","northing","zone number","zone letter","Longitude","Latitude"
"752386.614","8744229.492","56","L","155.312500","-11.350797"
"166021.443","0.0","26","N","-30.000000","0.000000"
"475944.783","9142225.593","23","X","-46.615000","82.332000"
"507958.611","4537763.568","42","F","69.109497","-49.312813"
`, out)
}

func TestCSVInverseCombinedZone(t *testing.T) {
	c := newConverter(t)
	path := writeFile(t, "utm.csv", "easting,northing,zone\r\n"+
		"752386.614,8744229.492,56L\r\n"+
		"166021.443,0.0,26N\r\n"+
		"475944.783,9142225.593,23X\r\n"+
		"507958.611,4537763.568,42F\r\n")

	out, _, err := run(t, c, []string{path}, "")
	require.NoError(t, err)
	assert.Equal(t, `"easting","northing","zone","Longitude","Latitude"
"752386.614","8744229.492","56L","155.312500","-11.350797"
"166021.443","0.0","26N","-30.000000","0.000000"
"475944.783","9142225.593","23X","-46.615000","82.332000"
"507958.611","4537763.568","42F","69.109497","-49.312813"
`, out)
}

func TestCSVPassthroughAndDelimiter(t *testing.T) {
	c := newConverter(t, func(cfg *config.Config) { cfg.Delimiter = ";" })

	var out bytes.Buffer
	_, err := c.CSV(context.Background(), strings.NewReader("name;Latitude;Longitude\n\"Berlin; \"\"Mitte\"\"\";52.52;13.405\n"), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"name";"Latitude";"Longitude";"Easting";"Northing";"Zone number";"Zone letter"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Berlin; ""Mitte""";"52.52";"13.405";"`), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], `;"33";"U"`), lines[1])
}

func TestCSVHeaderErrors(t *testing.T) {
	c := newConverter(t)

	_, err := c.CSV(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, classify.ErrMalformedRecord)

	_, err = c.CSV(context.Background(), strings.NewReader("lat,long,easting,northing,zone\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, classify.ErrAmbiguousRecord)
	assert.False(t, IsRecordError(err))

	_, err = c.File(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVRowErrors(t *testing.T) {
	input := "lat,long\n51,10\n51\n95,10\n0,-30\n"

	c := newConverter(t)
	var out bytes.Buffer
	_, err := c.CSV(context.Background(), strings.NewReader(input), &out)
	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 3, recErr.Line)
	assert.ErrorIs(t, err, classify.ErrMalformedRecord)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"), "header and first row are written before the failure")

	skip := newConverter(t, func(cfg *config.Config) { cfg.OnError = config.Skip })
	out.Reset()
	stats, err := skip.CSV(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Converted: 2, Skipped: 2}, stats)
	assert.Contains(t, out.String(), `"0","-30","166021.443","0.000","26","N"`)
}

func TestCSVSyntaxErrors(t *testing.T) {
	input := "lat,long\n51,10\n5\"1,10\n0,-30\n"

	c := newConverter(t)
	var out bytes.Buffer
	_, err := c.CSV(context.Background(), strings.NewReader(input), &out)
	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 3, recErr.Line)
	assert.ErrorIs(t, err, classify.ErrMalformedRecord)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"), "header and first row are written before the failure")

	skip := newConverter(t, func(cfg *config.Config) { cfg.OnError = config.Skip })
	out.Reset()
	stats, err := skip.CSV(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Converted: 2, Skipped: 1}, stats)
	assert.Equal(t, `"lat","long","Easting","Northing","Zone number","Zone letter"
"51","10","570168.862","5650300.787","32","U"
"0","-30","166021.443","0.000","26","N"
`, out.String())
}

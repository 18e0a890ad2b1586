package convert

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kass/coordcon/pkg/classify"
	"github.com/kass/coordcon/pkg/format"
	"github.com/kass/coordcon/pkg/models"
)

// CSV converts a table with a header row. The original columns are written
// back verbatim and the converted columns appended after them.
func (c *Converter) CSV(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delim
	// Row width is checked against the header by the classifier
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Stats{}, fmt.Errorf("%w: input has no header row", classify.ErrMalformedRecord)
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	schema, err := classify.NewSchema(header)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to classify csv header: %w", err)
	}
	c.log.Debug().Strs("header", header).Str("direction", schema.Direction().String()).Msg("Resolved csv schema")

	var stats Stats
	err = flushed(w, func(bw *bufio.Writer) error {
		out := format.NewCSVWriter(bw, c.delim)
		if err := out.WriteHeader(schema.Header(), schema.Direction()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		emit := func(res models.Result) error { return out.WriteResult(c.opts, res) }

		batch := make([]pending, 0, c.batch)
		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			var perr *csv.ParseError
			switch {
			case errors.As(err, &perr):
				// the reader resumes after the broken row, so it is a
				// record error like any other
				batch = append(batch, pending{
					line:  perr.StartLine,
					input: strings.Join(row, string(c.delim)),
					parse: func() (models.Record, error) {
						return models.Record{}, fmt.Errorf("%w: %v", classify.ErrMalformedRecord, perr.Err)
					},
				})
			case err != nil:
				return fmt.Errorf("failed to read csv: %w", err)
			default:
				line, _ := reader.FieldPos(0)
				batch = append(batch, pending{
					line:  line,
					input: strings.Join(row, string(c.delim)),
					parse: func() (models.Record, error) { return schema.Classify(row) },
				})
			}
			if len(batch) < c.batch {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.convertBatch(batch, &stats, emit); err != nil {
				return err
			}
			batch = batch[:0]
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.convertBatch(batch, &stats, emit)
	})

	c.log.Debug().Int("converted", stats.Converted).Int("skipped", stats.Skipped).Msg("Csv input done")
	return stats, err
}

package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kass/coordcon/pkg/classify"
	"github.com/kass/coordcon/pkg/models"
)

const maxLineLength = 1 << 20

// Lines converts whitespace separated records, one per line. Blank lines
// are ignored.
func (c *Converter) Lines(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	err := flushed(w, func(bw *bufio.Writer) error {
		emit := func(res models.Result) error {
			_, err := fmt.Fprintln(bw, c.opts.Text(res))
			return err
		}

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

		batch := make([]pending, 0, c.batch)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			text := scanner.Text()
			if strings.TrimSpace(text) == "" {
				continue
			}
			batch = append(batch, pending{
				line:  lineNo,
				input: text,
				parse: func() (models.Record, error) { return classify.Line(text) },
			})
			if len(batch) < c.batch {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.convertBatch(batch, &stats, emit); err != nil {
				return err
			}
			// Flush per batch so long running streams produce output
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			batch = batch[:0]
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.convertBatch(batch, &stats, emit)
	})

	c.log.Debug().Int("converted", stats.Converted).Int("skipped", stats.Skipped).Msg("Line input done")
	return stats, err
}

// Package convert runs records from arguments, line streams or CSV tables
// through the classifier and projections and writes the formatted output.
//
// Records of a batch are converted in parallel; output is always written in
// input order.
package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kass/coordcon/pkg/classify"
	"github.com/kass/coordcon/pkg/config"
	"github.com/kass/coordcon/pkg/format"
	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// RecordError reports a record that could not be converted
type RecordError struct {
	Line  int
	Input string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Stats summarises a run
type Stats struct {
	Converted int
	Skipped   int
}

// Converter holds everything a run needs. It has no mutable state and can be
// shared between goroutines.
type Converter struct {
	opts    format.Options
	workers int
	batch   int
	policy  config.Policy
	delim   rune
	log     zerolog.Logger
}

// New creates a Converter from a validated configuration
func New(cfg config.Config, logger zerolog.Logger) *Converter {
	return &Converter{
		opts:    cfg.Format,
		workers: cfg.Workers,
		batch:   cfg.BatchSize,
		policy:  cfg.OnError,
		delim:   cfg.DelimiterRune(),
		log:     logger,
	}
}

// Convert applies the projection a classified record asks for
func Convert(rec models.Record) (models.Result, error) {
	res := models.Result{Record: rec}
	var err error
	switch rec.Direction {
	case models.Forward:
		res.UTM, err = utm.Forward(rec.Geodetic)
	case models.Inverse:
		res.Geodetic, err = utm.Inverse(rec.UTM)
	default:
		err = fmt.Errorf("%w: unknown direction %v", classify.ErrMalformedRecord, rec.Direction)
	}
	return res, err
}

// Run picks the input by argument shape: no arguments or "-" reads lines
// from stdin, a single argument names a CSV file, anything else is one
// positional record.
func (c *Converter) Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) (Stats, error) {
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		return c.Lines(ctx, stdin, stdout)
	case len(args) == 1:
		return c.File(ctx, args[0], stdout)
	default:
		if err := c.Args(args, stdout); err != nil {
			return Stats{}, err
		}
		return Stats{Converted: 1}, nil
	}
}

// Args converts one positional record and writes it as a text line
func (c *Converter) Args(args []string, w io.Writer) error {
	rec, err := classify.Tokens(args)
	if err != nil {
		return err
	}
	res, err := Convert(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, c.opts.Text(res))
	return err
}

// File converts the CSV table at path
func (c *Converter) File(ctx context.Context, path string, w io.Writer) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return c.CSV(ctx, f, w)
}

// outcome is the per-record product of a parallel batch
type outcome struct {
	res models.Result
	err error
}

// pending is one raw record waiting for conversion
type pending struct {
	line  int
	input string
	parse func() (models.Record, error)
}

// convertBatch classifies and projects a batch in parallel and hands each
// outcome to emit in input order. It stops at the first error under the
// abort policy.
func (c *Converter) convertBatch(batch []pending, stats *Stats, emit func(models.Result) error) error {
	mapper := iter.Mapper[pending, outcome]{MaxGoroutines: c.workers}
	outcomes := mapper.Map(batch, func(p *pending) outcome {
		rec, err := p.parse()
		if err != nil {
			return outcome{err: err}
		}
		res, err := Convert(rec)
		return outcome{res: res, err: err}
	})

	for i, o := range outcomes {
		if o.err != nil {
			recErr := &RecordError{Line: batch[i].line, Input: batch[i].input, Err: o.err}
			if c.policy != config.Skip {
				return recErr
			}
			stats.Skipped++
			c.log.Warn().Int("line", recErr.Line).Str("input", recErr.Input).Err(o.err).Msg("Skipping record")
			continue
		}
		if err := emit(o.res); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		stats.Converted++
	}
	return nil
}

// flushed wraps w in a buffer and makes sure it is flushed whatever the
// outcome of fn
func flushed(w io.Writer, fn func(*bufio.Writer) error) error {
	bw := bufio.NewWriter(w)
	err := fn(bw)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("failed to write output: %w", ferr)
	}
	return err
}

// IsRecordError reports whether err came from a single bad record rather
// than from I/O or the table header
func IsRecordError(err error) bool {
	var recErr *RecordError
	return errors.As(err, &recErr)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kass/coordcon/pkg/config"
	"github.com/kass/coordcon/pkg/convert"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coordcon [flags] [record | file.csv | -]",
		Short: "Convert between WGS84 latitude/longitude and UTM",
		Long: `Convert coordinates between WGS84 geodetic latitude/longitude and UTM.

  coordcon 51 10                        latitude longitude -> easting northing zone letter
  coordcon 570168.862 5650300.787 32U   UTM -> latitude longitude
  coordcon points.csv                   convert a CSV table, columns are appended
  coordcon < records.txt                one record per line

Flags must come before the record when it starts with a negative number.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			conv := convert.New(cfg, log.Logger)
			stats, err := conv.Run(cmd.Context(), args, cmd.InOrStdin(), cmd.OutOrStdout())
			log.Debug().
				Int("converted", stats.Converted).
				Int("skipped", stats.Skipped).
				Msg("Run finished")
			if err != nil {
				return err
			}
			if stats.Skipped > 0 {
				log.Warn().Int("skipped", stats.Skipped).Msg("Some records were skipped")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP(flagConfig, "c", "", "YAML configuration file")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newZonesCmd(), newVerifyCmd())
	return rootCmd
}

const flagConfig = "config"

// loadConfig layers file, environment and flags, then points the global
// logger at the result
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read flags: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := setupLogger(cfg.Log); err != nil {
		return cfg, err
	}
	log.Debug().
		Str("on_error", string(cfg.OnError)).
		Int("workers", cfg.Workers).
		Int("batch_size", cfg.BatchSize).
		Msg("Configuration loaded")
	return cfg, nil
}

// setupLogger configures the global zerolog logger. Output goes to stderr,
// stdout carries converted records.
func setupLogger(l config.Log) error {
	if strings.EqualFold(l.Format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(positionalNegatives(rootCmd, os.Args[1:]))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var recErr *convert.RecordError
		if errors.As(err, &recErr) {
			log.Error().Err(recErr.Err).Int("line", recErr.Line).Str("input", recErr.Input).Msg("Conversion aborted")
		} else {
			log.Error().Err(err).Msg("Conversion failed")
		}
		stop()
		os.Exit(1)
	}
}

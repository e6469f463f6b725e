package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/tuleap-go/internal/config"
	"github.com/hyperengineering/tuleap-go/pkg/tuleap"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:           "trackerctl",
	Short:         "Command line client for tracker services",
	Long:          "Read, create, update, and mirror tracker artifacts from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(trackerCmd)
	rootCmd.AddCommand(artifactCmd)
	rootCmd.AddCommand(pullCmd)
}

// resolveClient loads the configuration and builds an authenticated client.
func resolveClient() (*tuleap.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	initLogger(cfg)

	conn := tuleap.NewConnection(cfg.Service.BaseURL, cfg.Service.AccessKey)
	conn.SetTimeout(time.Duration(cfg.Service.Timeout))
	return tuleap.NewClient(conn), cfg, nil
}

func initLogger(cfg *config.Config) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// parseFieldArgs turns repeated name=value pairs into a value map for the
// encoder. Numeric-looking values become ints or floats so numeric fields
// accept them; everything else stays a string.
func parseFieldArgs(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := splitPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid field assignment %q, expected name=value", pair)
		}
		values[name] = coerceValue(raw)
	}
	return values, nil
}

func splitPair(pair string) (name, value string, ok bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], i > 0
		}
	}
	return "", "", false
}

func coerceValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

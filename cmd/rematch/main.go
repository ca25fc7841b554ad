// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/poiesic/rematch"
	"github.com/poiesic/rematch/ai"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/match"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := ai.DefaultConfig()
	return &cli.App{
		Name:  "rematch",
		Usage: "Recover the positions of extracted chunks in a transformed text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "match",
				Usage:  "Match chunks against a target text and write offsets as JSON",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chunks",
						Aliases:  []string{"c"},
						Usage:    "Path to the extractor JSON (chunk array or {\"chunks\": [...]})",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Path to the transformed target text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML file overriding the default match thresholds",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write results to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "ai",
						Usage: "Enable the embedding and assisted locate layers",
					},
					&cli.BoolFlag{
						Name:  "no-embeddings",
						Usage: "Disable the embedding layer when --ai is set",
					},
					&cli.BoolFlag{
						Name:  "no-locator",
						Usage: "Disable the assisted locate layer when --ai is set",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: defaults.EmbeddingHost,
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: defaults.EmbeddingModel,
					},
					&cli.StringFlag{
						Name:  "locator-host",
						Usage: "Locator service host URL (defaults to embedding-host if not specified)",
					},
					&cli.StringFlag{
						Name:  "locator-model",
						Usage: "Locator model name",
						Value: defaults.LocatorModel,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API key for the AI services",
						EnvVars: []string{"REMATCH_API_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "cache-db",
						Usage: "Path to a BadgerDB directory caching embeddings between runs",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Stop matching after this long and interpolate the rest (0 = no limit)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report per-layer progress on stderr",
					},
					&cli.BoolFlag{
						Name:  "no-color",
						Usage: "Disable coloured summary output",
					},
				},
			},
			{
				Name:   "defaults",
				Usage:  "Print the default match configuration as YAML",
				Action: defaultsCommand,
			},
		},
	}
}

func matchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.Bool("no-color") {
		color.NoColor = true
	}

	chunks, err := loadChunks(c.String("chunks"))
	if err != nil {
		return err
	}
	target, err := os.ReadFile(c.String("target"))
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	matchConfig, err := loadMatchConfig(c.String("config"))
	if err != nil {
		return err
	}
	if timeout := c.Duration("timeout"); timeout > 0 {
		matchConfig.Timeout = timeout
	}

	opts := []rematch.EngineOption{rematch.WithMatchConfig(matchConfig)}
	if c.Bool("ai") {
		aiConfig, err := aiConfigFromFlags(c)
		if err != nil {
			return err
		}
		opts = append(opts, rematch.WithAIConfig(aiConfig))
		if c.Bool("no-embeddings") {
			opts = append(opts, rematch.WithoutEmbeddings())
		}
		if c.Bool("no-locator") {
			opts = append(opts, rematch.WithoutLocator())
		}
		if path := c.String("cache-db"); path != "" {
			opts = append(opts, rematch.WithCachePath(path))
		}
	}

	engine, err := rematch.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	var monitor match.MatchMonitor
	if c.Bool("progress") {
		monitor = match.NewProgressMonitor(c.App.ErrWriter, 10)
	}

	result, err := engine.MatchWithMonitor(ctx, chunks, string(target), monitor)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if err := writeResult(c, result); err != nil {
		return err
	}

	hits, misses := engine.CacheStats()
	printSummary(c.App.ErrWriter, result, hits, misses)
	return nil
}

func defaultsCommand(c *cli.Context) error {
	enc := yaml.NewEncoder(c.App.Writer)
	defer enc.Close()
	return enc.Encode(match.DefaultConfig())
}

// extractorOutput is the object form of the chunk file.
type extractorOutput struct {
	Chunks []core.SourceChunk `json:"chunks"`
}

// loadChunks reads either a bare JSON array of chunks or an object with a
// "chunks" field.
func loadChunks(path string) ([]core.SourceChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("chunks file is empty")
	}

	var chunks []core.SourceChunk
	if trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &chunks)
	} else {
		var out extractorOutput
		err = json.Unmarshal(trimmed, &out)
		chunks = out.Chunks
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse chunks: %w", err)
	}
	return chunks, nil
}

// loadMatchConfig applies the YAML file at path over the defaults.
// An empty path returns the defaults.
func loadMatchConfig(path string) (*match.Config, error) {
	cfg := match.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	// Get locator host (defaults to embedding host if not specified)
	locatorHost := c.String("locator-host")
	if locatorHost == "" {
		locatorHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithLocatorHost(locatorHost),
		ai.WithLocatorModel(c.String("locator-model")),
		ai.WithToken(c.String("token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return aiConfig, nil
}

func writeResult(c *cli.Context, result *match.Result) error {
	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, result *match.Result, cacheHits, cacheMisses int64) {
	title := color.New(color.FgWhite, color.Bold)
	positive := color.New(color.FgGreen)
	warning := color.New(color.FgYellow)
	negative := color.New(color.FgRed)

	stats := result.Stats
	fmt.Fprintln(w)
	title.Fprintf(w, "Matched %d chunks in %s\n", stats.Chunks, stats.Duration.Round(time.Millisecond))

	for _, confidence := range core.Confidences {
		n := stats.ByConfidence[confidence]
		line := fmt.Sprintf("  %-10s %d\n", confidence.String()+":", n)
		switch {
		case n == 0:
			fmt.Fprint(w, line)
		case confidence == core.ConfidenceSynthetic:
			warning.Fprint(w, line)
		default:
			positive.Fprint(w, line)
		}
	}

	var methods []string
	for _, method := range core.Methods {
		if n := stats.ByMethod[method]; n > 0 {
			methods = append(methods, fmt.Sprintf("%s=%d", method, n))
		}
	}
	if len(methods) > 0 {
		fmt.Fprintf(w, "  methods:   %s\n", strings.Join(methods, " "))
	}
	fmt.Fprintf(w, "  anchors:   %.1f%%\n", stats.AnchorRatio()*100)

	if stats.Corrections > 0 {
		warning.Fprintf(w, "  %d order corrections\n", stats.Corrections)
	}
	if stats.MalformedChunks > 0 {
		warning.Fprintf(w, "  %d malformed chunks\n", stats.MalformedChunks)
	}
	if stats.ProviderFailures > 0 {
		negative.Fprintf(w, "  %d provider failures\n", stats.ProviderFailures)
	}
	if stats.TimedOut {
		negative.Fprintln(w, "  timed out; remaining chunks were interpolated")
	}
	if cacheHits+cacheMisses > 0 {
		fmt.Fprintf(w, "  embedding cache: %d hits, %d misses\n", cacheHits, cacheMisses)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

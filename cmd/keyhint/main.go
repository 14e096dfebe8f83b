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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/keyhint"
	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/storage/memory"
	"github.com/urfave/cli/v2"
)

// demoShortcuts is the record set used when no --records file is given.
var demoShortcuts = []*core.Shortcut{
	{Keys: "Ctrl+C", Description: "Copy", Category: "editing", Keywords: []string{"clipboard", "duplicate"}, Source: "windows", Platform: "windows", Difficulty: "beginner", Global: true},
	{Keys: "Ctrl+V", Description: "Paste", Category: "editing", Keywords: []string{"clipboard", "insert"}, Source: "windows", Platform: "windows", Difficulty: "beginner", Global: true},
	{Keys: "Ctrl+X", Description: "Cut", Category: "editing", Keywords: []string{"clipboard", "move"}, Source: "windows", Platform: "windows", Difficulty: "beginner", Global: true},
	{Keys: "Ctrl+Z", Description: "Undo", Category: "editing", Keywords: []string{"revert"}, Source: "windows", Platform: "windows", Difficulty: "beginner", Global: true},
	{Keys: "Alt+Tab", Description: "Switch Window", Category: "window management", Keywords: []string{"task switcher"}, Source: "windows", Platform: "windows", Global: true},
	{Keys: "Win+Shift+S", Description: "Take Screenshot", Category: "system", Keywords: []string{"snip", "capture"}, Source: "windows", Platform: "windows", Global: true},
	{Keys: "Ctrl+Shift+Esc", Description: "Open Task Manager", Category: "system", Keywords: []string{"processes"}, Source: "windows", Platform: "windows", Difficulty: "intermediate", Global: true},
	{Keys: "Ctrl+Shift+P", Description: "Open Command Palette", Category: "navigation", Keywords: []string{"commands"}, Aliases: []string{"cmd palette"}, Source: "vscode", Platform: "all"},
	{Keys: "Ctrl+P", Description: "Quick Open File", Category: "navigation", Keywords: []string{"goto"}, Source: "vscode", Platform: "all"},
	{Keys: "Ctrl+`", Description: "Toggle Terminal", Category: "panels", Keywords: []string{"console"}, Source: "vscode", Platform: "all"},
	{Keys: "F12", Description: "Go to Definition", Category: "navigation", Keywords: []string{"jump"}, Source: "vscode", Platform: "all", Difficulty: "intermediate"},
	{Keys: "Ctrl+T", Description: "New Tab", Category: "tabs", Keywords: []string{"open"}, Source: "chrome", Platform: "all", Difficulty: "beginner"},
	{Keys: "Ctrl+Shift+T", Description: "Reopen Closed Tab", Category: "tabs", Keywords: []string{"restore"}, Source: "chrome", Platform: "all"},
	{Keys: "Ctrl+L", Description: "Focus Address Bar", Category: "navigation", Keywords: []string{"url", "omnibox"}, Source: "chrome", Platform: "all"},
	{Keys: "Ctrl+Shift+Delete", Description: "Clear Browsing Data", Category: "privacy", Keywords: []string{"history", "cookies"}, Source: "chrome", Platform: "all", Difficulty: "intermediate"},
	{Keys: "Ctrl+R", Description: "Search Command History", Category: "history", Keywords: []string{"reverse search"}, Source: "terminal", Platform: "all", Difficulty: "intermediate"},
}

func main() {
	app := &cli.App{
		Name:  "keyhint",
		Usage: "Relevance-ranked search over keyboard shortcut records",
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
				Name:      "search",
				Usage:     "Search shortcut records and print the ranked matches",
				ArgsUsage: "<query terms>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "records",
						Aliases: []string{"r"},
						Usage:   "Path to a JSON file of shortcut records (built-in demo set if omitted)",
					},
					&cli.StringFlag{
						Name:    "app",
						Aliases: []string{"a"},
						Usage:   "Restrict matches to sources containing this filter",
					},
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "fuzzy-threshold",
						Usage: "Minimum similarity (0-100) for fuzzy matches",
						Value: core.DefaultFuzzyThreshold,
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Directory for a persistent BadgerDB cache (in-memory if omitted)",
					},
					&cli.BoolFlag{
						Name:  "no-fuzzy",
						Usage: "Disable fuzzy matching",
					},
					&cli.BoolFlag{
						Name:  "no-abbreviation",
						Usage: "Disable abbreviation matching",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Bypass the result and candidate caches",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	term := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("a query is required: keyhint search <query terms>")
	}

	shortcuts, err := loadShortcuts(c.String("records"))
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	opts := &core.SearchOptions{
		EnableFuzzy:        !c.Bool("no-fuzzy"),
		EnableAbbreviation: !c.Bool("no-abbreviation"),
		UseCache:           !c.Bool("no-cache"),
		MaxResults:         c.Int("max"),
		FuzzyThreshold:     c.Float64("fuzzy-threshold"),
		BoostRecentlyUsed:  true,
		BoostPopularApps:   true,
	}

	engineOpts := []keyhint.EngineOption{keyhint.WithSearchOptions(opts)}
	if dir := c.String("cache-dir"); dir != "" {
		engineOpts = append(engineOpts, keyhint.WithCacheDir(dir))
	}

	engine, err := keyhint.NewEngine(memory.NewRepository(shortcuts...), engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	results, err := engine.Search(ctx, term, c.String("app"), nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		cached := ""
		if hit.FromCache {
			cached = " (cached)"
		}
		fmt.Printf("%d: '%s' %s [%s, %0.1f] %s/%s%s\n",
			i, hit.Shortcut.Keys, hit.Shortcut.Description,
			hit.MatchType, hit.Score,
			hit.Shortcut.Source, hit.MatchedField, cached)
	}

	return nil
}

// loadShortcuts reads records from a JSON file, or returns the built-in
// demo set when no path is given.
func loadShortcuts(path string) ([]*core.Shortcut, error) {
	if path == "" {
		return demoShortcuts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var shortcuts []*core.Shortcut
	if err := json.Unmarshal(data, &shortcuts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return shortcuts, nil
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

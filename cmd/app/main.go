package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/jotpad/internal"
)

// loadConfig reads the config file named by --config.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	return internal.LoadConfig(cmd.String("config"))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func list(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ListNotes(ctx, internal.WithConfig(cfg))
}

func add(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("add: note text is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text := strings.Join(cmd.Args().Slice(), " ")
	return internal.AddNote(ctx, text, internal.WithConfig(cfg))
}

func remove(ctx context.Context, cmd *cli.Command) error {
	index, err := strconv.Atoi(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("rm: index must be a number: %q", cmd.Args().First())
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RemoveNote(ctx, index, internal.WithConfig(cfg))
}

func read(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ReadNotes(ctx, cmd.Bool("once"), internal.WithConfig(cfg))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "jotpad",
		Usage:  "Two-page notes widget: static page server and local note tools",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the Writer and Reader pages (default)",
				Action: serve,
			},
			{
				Name:   "ls",
				Usage:  "Print the stored notes",
				Action: list,
			},
			{
				Name:      "add",
				Usage:     "Append a note",
				ArgsUsage: "<text>",
				Action:    add,
			},
			{
				Name:      "rm",
				Usage:     "Remove the note at a 1-based position",
				ArgsUsage: "<index>",
				Action:    remove,
			},
			{
				Name:  "read",
				Usage: "Follow the stored notes like the Reader page",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Print the notes once and exit",
					},
				},
				Action: read,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the notes over MCP on stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

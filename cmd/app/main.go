package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/tomhoover/paperless-ngx/internal"
	"github.com/tomhoover/paperless-ngx/internal/consumer"
	"github.com/tomhoover/paperless-ngx/internal/mcpserver"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
	pkgconfig "github.com/tomhoover/paperless-ngx/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// openBackends initializes the store and media provider shared by the
// management commands.
func openBackends(cfg *internal.Config) (*store.DB, *storage.FS, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	media, err := storage.NewFS(cfg.Media.Path)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open media storage: %w", err)
	}
	return db, media, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
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

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, media, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	issues, err := consumer.CheckSanity(db, media)
	if err != nil {
		return fmt.Errorf("sanity check: %w", err)
	}
	for _, issue := range issues {
		if issue.DocumentID != 0 {
			fmt.Printf("%s\tdocument %d\t%s\n", issue.Level, issue.DocumentID, issue.Message)
		} else {
			fmt.Printf("%s\t%s\n", issue.Level, issue.Message)
		}
	}
	if len(issues) == 0 {
		fmt.Println("no issues found")
		return nil
	}
	for _, issue := range issues {
		if issue.Level == consumer.LevelError {
			return fmt.Errorf("sanity check found errors")
		}
	}
	return nil
}

func rename(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, media, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	r := consumer.NewRenamer(db, media, quietLogger())
	n, err := r.RenameAll()
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	fmt.Printf("renamed %d documents\n", n)
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, media, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// stdout carries the MCP protocol, so keep logs on stderr.
	cons := consumer.New(db, media, cfg.RewriteRules(), quietLogger(), nil)
	srv := mcpserver.New(db, media, cons)
	return srv.ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "paperless",
		Usage:  "Document archive with automatic ingestion, full-text search, and a REST API",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server and consume directory watcher (default)",
				Action: serve,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "check",
				Usage:  "Run the media sanity checker and report issues",
				Action: check,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "rename",
				Usage:  "Regenerate document filenames from metadata and move files",
				Action: rename,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tool interface on stdin/stdout",
				Action: mcp,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

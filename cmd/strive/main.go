package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/strive/internal/backend"
	"github.com/alexanderramin/strive/internal/cli"
	"github.com/alexanderramin/strive/internal/db"
	"github.com/alexanderramin/strive/internal/repository"
	"github.com/alexanderramin/strive/internal/wizard"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.strive/strive.db
	dbPath := os.Getenv("STRIVE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".strive", "strive.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	credsRepo := repository.NewSQLiteCredentialsRepo(database)
	transcriptRepo := repository.NewSQLiteTranscriptRepo(database)

	cfg := backend.LoadConfig()
	var observer backend.Observer = backend.NoopObserver{}
	if cfg.LogCalls {
		observer = backend.NewLogObserver(os.Stderr)
	}
	client := backend.NewHTTPClient(cfg, credsRepo, observer)

	notices := &cli.GoalNotices{}

	app := &cli.App{
		Wizard:      wizard.NewController(client, notices),
		Transcript:  transcriptRepo,
		Credentials: credsRepo,
		Notices:     notices,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

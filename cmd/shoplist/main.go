package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/idilsaglam/shoplist/internal/cli"
	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/store/memstore"
	"github.com/idilsaglam/shoplist/internal/store/sqlitestore"
	"github.com/idilsaglam/shoplist/internal/ui"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("shoplist: ")

	cfg, err := config.Load()
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		os.Exit(1)
	}

	// Root flags (apply to every subcommand) override the environment.
	group := flag.Bool("group", false, "group ls output by bookmarked / to buy / purchased")
	theme := flag.String("theme", cfg.Theme, "color theme: classic, neon or mono")
	dataDir := flag.String("data", cfg.DataDir, "data directory")
	flag.Parse()

	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	var kv store.KV
	closeKV := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		kv = memstore.New()
	case config.BackendSQLite:
		db, err := sqlitestore.Open(filepath.Join(*dataDir, config.SQLiteFileName))
		if err != nil {
			ui.Fail(os.Stderr, "sqlite: "+err.Error())
			os.Exit(1)
		}
		kv, closeKV = db, db.Close
	default:
		kv = jsonstore.New(*dataDir)
	}

	code := cli.Run(args, cli.Options{
		Group:     *group,
		Store:     store.New(kv),
		DebugLog:  cfg.DebugLog,
		Ephemeral: cfg.Backend == config.BackendMemory,
	})
	if err := closeKV(); err != nil {
		log.Printf("close store: %v", err)
	}
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"pinax-social-backend/internal/app"
	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/migrator"
	"pinax-social-backend/internal/plugins"
	"pinax-social-backend/internal/repository/postgres"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code so deferred cleanup happens before exiting.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("syncplugins", flag.ContinueOnError)
	configPath := fs.String("config", "config/config.dev.yaml", "Path to configuration file")
	deleteRemoved := fs.Bool("delete", false, "Delete undeclared plugin points and plugins instead of marking them removed")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	if err := migrator.Up(cfg.GetDatabaseConnectionString()); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return 1
	}

	ctx := context.Background()
	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	syncer := plugins.NewSyncer(postgres.NewStore(db).PluginRepository)
	report, err := syncer.Run(ctx, cfg.Plugins, plugins.Options{Delete: *deleteRemoved, DryRun: *dryRun})
	if err != nil {
		logger.Error("Plugin sync failed", "error", err)
		return 1
	}

	if *dryRun {
		fmt.Fprintln(stdout, "Dry run, no changes written.")
	}
	fmt.Fprint(stdout, report.String())
	return 0
}

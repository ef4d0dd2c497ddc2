package main

import (
	"fmt"
	"os"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "medscript",
		Short:         "Patient, medication and prescription registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// deps bundles what every subcommand that touches storage needs.
type deps struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(withDB bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	rt := &deps{cfg: cfg, log: log}
	if !withDB {
		return rt, nil
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	rt.db = db
	return rt, nil
}

func (rt *deps) close() {
	if rt.db != nil {
		if err := database.Close(rt.db); err != nil {
			rt.log.Warn("closing database", zap.Error(err))
		}
	}
	_ = rt.log.Sync()
}

package main

import (
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := database.Migrate(rt.db, rt.log); err != nil {
				return err
			}
			rt.log.Info("schema is up to date", zap.String("driver", rt.cfg.Database.Driver))
			return nil
		},
	}
}

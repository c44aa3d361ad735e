package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSQLDB(func(db *sql.DB) error {
					return database.RunMigrations(db, logger)
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back the given number of migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("invalid step count %q", args[0])
					}
					steps = n
				}
				return withSQLDB(func(db *sql.DB) error {
					return database.RollbackMigrations(db, steps, logger)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSQLDB(func(db *sql.DB) error {
					v, dirty, err := database.MigrationVersion(db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func withSQLDB(fn func(*sql.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	gdb, err := database.NewDB(&cfg.Database, "warn", logger)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(sqlDB)
}

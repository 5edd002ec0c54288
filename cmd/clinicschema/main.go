package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/clinicschema/internal/config"
	"github.com/tordrt/clinicschema/internal/logger"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "clinicschema",
	Short: "Manage the clinic-management database schema",
	Long: `clinicschema declares the relational schema of a clinic-management system
(users, clinics, doctors, patients, appointments) and creates, verifies and documents
it on PostgreSQL, MySQL or SQLite.

Every flag can also be set through a CLINICSCHEMA_<FLAG> environment variable
(dashes become underscores) or a clinicschema.yaml file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./clinicschema.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newDescribeCmd(),
		newDDLCmd(),
		newMigrateCmd(),
		newDropCmd(),
		newVerifyCmd(),
		newExtractCmd(),
		newRelationsCmd(),
	)
}

// loadConfig resolves the command's flags against environment and config file
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	log := logger.New(&logger.Config{Level: level, Output: cmd.ErrOrStderr()})
	return cfg, log, nil
}

// parseTableList splits a comma-separated table list, dropping blanks
func parseTableList(tables string) []string {
	if strings.TrimSpace(tables) == "" {
		return nil
	}

	var list []string
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

// openOutput returns the file at path, or the command's stdout when path is empty
func openOutput(cmd *cobra.Command, path string, log *logger.Logger) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Warn("failed to close output file", "path", path, "error", err.Error())
		}
	}, nil
}

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--db-url (or CLINICSCHEMA_DB_URL) must be specified")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/clinicschema"
	"github.com/tordrt/clinicschema/internal/ddl"
	"github.com/tordrt/clinicschema/internal/logger"
	"github.com/tordrt/clinicschema/internal/schema"
)

var errDrift = errors.New("database schema does not match the declaration")

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("output-dir", "d", "", "Output directory for multi-file output")
	cmd.Flags().StringP("format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringP("tables", "t", "", "Specific tables (comma-separated, optional)")
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Document the declared clinic schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := selectTables(clinicschema.Definition(), parseTableList(cfg.Tables))
			if err != nil {
				return err
			}
			return writeSchema(cmd, s, cfg.Format, cfg.Output, cfg.OutputDir, log)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func newDDLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE statements for a dialect",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			dialect, err := ddl.ParseDialect(cfg.Dialect)
			if err != nil {
				return err
			}

			var stmts []string
			if cfg.Drop {
				stmts, err = ddl.Drop(clinicschema.Definition(), dialect)
			} else {
				stmts, err = clinicschema.GenerateDDL(dialect)
			}
			if err != nil {
				return fmt.Errorf("failed to generate DDL: %w", err)
			}

			w, done, err := openOutput(cmd, cfg.Output, log)
			if err != nil {
				return err
			}
			defer done()

			_, err = fmt.Fprint(w, ddl.Script(stmts))
			return err
		},
	}
	cmd.Flags().String("dialect", "postgres", "SQL dialect: postgres, sqlite or mysql")
	cmd.Flags().Bool("drop", false, "Print the DROP statements instead")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the clinic schema in a database",
		Long:  "Creates every missing enum, table, index and timestamp trigger. Safe to re-run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireDatabaseURL(cfg); err != nil {
				return err
			}

			n, err := clinicschema.Migrate(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Info("schema migrated", "statements", n)
			return nil
		},
	}
	cmd.Flags().String("db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	return cmd
}

func newDropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table of the clinic schema, with its data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireDatabaseURL(cfg); err != nil {
				return err
			}
			if !cfg.Force {
				return fmt.Errorf("drop deletes all clinic data; pass --force to confirm")
			}

			if err := clinicschema.Drop(cmd.Context(), cfg.DatabaseURL); err != nil {
				return err
			}
			log.Info("schema dropped")
			return nil
		},
	}
	cmd.Flags().String("db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	cmd.Flags().Bool("force", false, "Confirm the drop")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a database against the declared schema",
		Long:  "Prints one line per difference and exits non-zero when any is found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireDatabaseURL(cfg); err != nil {
				return err
			}

			diffs, err := clinicschema.Verify(cmd.Context(), cfg.DatabaseURL, &clinicschema.Options{
				ExcludeTables: parseTableList(cfg.ExcludeTables),
				SchemaName:    cfg.SchemaName,
			})
			if err != nil {
				return err
			}

			for _, d := range diffs {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), d.String())
			}
			if len(diffs) > 0 {
				log.Warn("schema drift detected", "differences", len(diffs))
				return errDrift
			}
			log.Info("schema matches")
			return nil
		},
	}
	cmd.Flags().String("db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	cmd.Flags().StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL, the URL's database for MySQL)")
	cmd.Flags().StringP("exclude-tables", "x", "", "Tables to ignore (comma-separated)")
	return cmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Document the schema found in a live database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireDatabaseURL(cfg); err != nil {
				return err
			}

			s, err := clinicschema.ExtractSchema(cmd.Context(), cfg.DatabaseURL, &clinicschema.Options{
				Tables:        parseTableList(cfg.Tables),
				ExcludeTables: parseTableList(cfg.ExcludeTables),
				SchemaName:    cfg.SchemaName,
			})
			if err != nil {
				return fmt.Errorf("failed to extract schema: %w", err)
			}
			log.Debug("schema extracted", "tables", len(s.Tables))

			// Small schemas stay in one file unless the threshold is exceeded
			outputDir := cfg.OutputDir
			if cfg.SplitThreshold > 0 && len(s.Tables) <= cfg.SplitThreshold {
				outputDir = ""
			}
			return writeSchema(cmd, s, cfg.Format, cfg.Output, outputDir, log)
		},
	}
	cmd.Flags().String("db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	cmd.Flags().StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL, the URL's database for MySQL)")
	cmd.Flags().StringP("exclude-tables", "x", "", "Tables to skip (comma-separated)")
	cmd.Flags().Int("split-threshold", 0, "Split into multiple files when table count exceeds this (requires --output-dir)")
	addOutputFlags(cmd)
	return cmd
}

func newRelationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relations",
		Short: "List the declared relationships and their delete rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, r := range clinicschema.Definition().Relationships {
				target := r.To
				if r.Via != "" {
					target += " via " + r.Via
				}
				_, _ = fmt.Fprintf(w, "%-18s %-14s %-3s %-30s on delete %s\n",
					r.From, r.Name, r.Cardinality, target, r.OnDelete)
			}
			return nil
		},
	}
}

func writeSchema(cmd *cobra.Command, s *schema.Schema, format, output, outputDir string, log *logger.Logger) error {
	if outputDir != "" && output != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if format != "text" && format != "markdown" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}

	if outputDir != "" {
		if err := clinicschema.FormatSchema(s, &clinicschema.OutputOptions{OutputDir: outputDir, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		log.Info("schema written", "dir", outputDir, "tables", len(s.Tables))
		return nil
	}

	w, done, err := openOutput(cmd, output, log)
	if err != nil {
		return err
	}
	defer done()

	if err := clinicschema.FormatSchema(s, &clinicschema.OutputOptions{Writer: w, Format: format}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// selectTables narrows a schema to the named tables, keeping declaration order
func selectTables(s *schema.Schema, names []string) (*schema.Schema, error) {
	if len(names) == 0 {
		return s, nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := s.Table(name); !ok {
			return nil, fmt.Errorf("unknown table: %s", name)
		}
		want[name] = true
	}

	selected := *s
	selected.Tables = nil
	for _, table := range s.Tables {
		if want[table.Name] {
			selected.Tables = append(selected.Tables, table)
		}
	}
	return &selected, nil
}

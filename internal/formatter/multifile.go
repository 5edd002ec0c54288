package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	if format != formatMarkdown {
		format = formatText
	}
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file and one file per table
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) { f.writeOverview(w, s) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i := range s.Tables {
		table := &s.Tables[i]
		err := f.writeFile(table.Name, func(w io.Writer) {
			if f.OutputFormat == formatMarkdown {
				NewMarkdownFormatter(w).FormatTable(s, table)
			} else {
				NewTextFormatter(w).FormatTable(s, table)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(name string, render func(io.Writer)) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.getFileExtension()))
	if err != nil {
		return err
	}
	render(file)
	return file.Close()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) {
	ext := f.getFileExtension()
	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", ext)
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", ext)
	}

	names := make([]string, len(s.Tables))
	for i, table := range s.Tables {
		names[i] = table.Name
	}
	sort.Strings(names)

	for _, name := range names {
		table, _ := s.Table(name)
		line := name
		if f.OutputFormat == formatMarkdown {
			line = "- **" + name + "**"
		}

		if len(table.Relations) > 0 {
			targets := make([]string, len(table.Relations))
			for i, rel := range table.Relations {
				targets[i] = rel.TargetTable
				if rel.OnDelete == schema.Cascade {
					targets[i] += " (cascade)"
				}
			}
			line += fmt.Sprintf(" (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if len(s.Relationships) > 0 {
		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(w, "\n## Relationships\n\n")
		} else {
			_, _ = fmt.Fprintf(w, "\nRELATIONSHIPS\n")
		}
		for _, r := range s.Relationships {
			desc := fmt.Sprintf("%s.%s → %s (%s)", r.From, r.Name, r.To, r.Cardinality)
			if r.Via != "" {
				desc += " via " + r.Via
			}
			if f.OutputFormat == formatMarkdown {
				desc = "- " + desc
			}
			_, _ = fmt.Fprintln(w, desc)
		}
	}
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}

package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/clinicschema/internal/model"
)

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(model.Definition()))
	out := buf.String()

	assert.Contains(t, out, "ENUM patient_sex: male|female")
	assert.Contains(t, out, "TABLE users_to_clinics (PK: user_id, clinic_id)")
	assert.Contains(t, out, "user_id: uuid PK,FK NOT NULL")
	assert.Contains(t, out, "sex: patient_sex (male|female) NOT NULL")
	assert.Contains(t, out, "clinic_id → clinics.id (N:1, ON DELETE CASCADE)")
	assert.Contains(t, out, "clinic_id → clinics.id (N:1, ON DELETE NO ACTION)")
	assert.Contains(t, out, "← appointments.doctor_id (ON DELETE CASCADE)")
	assert.Contains(t, out, "updated_at: timestamp DEFAULT now ON UPDATE now")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(model.Definition()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Database Schema\n"))
	assert.Contains(t, out, "- **patient_sex:** male, female")
	assert.Contains(t, out, "## appointments")
	assert.Contains(t, out, "- patient_id → patients.id (many appointments to one patients), on delete cascade")
	assert.Contains(t, out, "- patients.clinic_id → id, on delete no action")
	assert.Contains(t, out, "- **id:** uuid, PK, NOT NULL, DEFAULT random_uuid")
}

func TestMultiFileFormatter(t *testing.T) {
	for _, format := range []string{"markdown", "text"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, NewMultiFileFormatter(dir, format).Format(model.Definition()))

			ext := ".txt"
			if format == "markdown" {
				ext = ".md"
			}

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+ext))
			require.NoError(t, err)
			assert.Contains(t, string(overview), "clinics (cascade)")
			assert.Contains(t, string(overview), "users.clinics → clinics (N:M) via users_to_clinics")

			for _, table := range model.Definition().Tables {
				content, err := os.ReadFile(filepath.Join(dir, table.Name+ext))
				require.NoError(t, err, "missing file for %s", table.Name)
				assert.Contains(t, string(content), table.Name)
			}
		})
	}
}

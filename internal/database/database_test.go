package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMigrations_NilDB(t *testing.T) {
	err := RunMigrations(nil)
	assert.EqualError(t, err, "GORM DB instance is nil")
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	assert.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_documents.up.sql")
	assert.Contains(t, names, "000002_create_local_accounts.up.sql")
}

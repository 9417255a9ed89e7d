package test

import (
	"path/filepath"
	"testing"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TmpFile returns the path to a unique file to be used in tests
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// Database connects to a new in-memory database with the full schema.
func Database(t *testing.T) *gorm.DB {
	db, err := models.Connect(sqlite.Open(":memory:?_pragma=foreign_keys(1)"))
	require.Nil(t, err, "Database connection failed")

	return db
}

// Close closes the database connection. This enables testing the handling
// of database errors.
func Close(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	require.Nil(t, err, "Failed to get database resource for teardown")
	sqlDB.Close()
}

// Create saves a resource and fails the test if that is not possible.
func Create[T any](t *testing.T, db *gorm.DB, resource T) T {
	err := db.Create(&resource).Error
	if err != nil {
		require.FailNow(t, "Resource could not be saved", "Error: %s, %T: %#v", err, resource, resource)
	}

	return resource
}

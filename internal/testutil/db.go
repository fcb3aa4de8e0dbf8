// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/db"
	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	require.NoError(t, err, "failed to connect to in-memory db")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every new connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "failed to migrate tables")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// CreateUser inserts a user with a bcrypt hash of password.
func CreateUser(t *testing.T, gdb *gorm.DB, email, password, role string, verified bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := &models.User{
		Username:     email,
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsVerified:   verified,
		PasswordHash: pwHash,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biomimic/models"
	"biomimic/storage"
)

// newTestDB öffnet eine frische In-Memory-Datenbank mit allen Tabellen.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createProblem(t *testing.T, db *gorm.DB, userID uint, title, category string) models.Problem {
	t.Helper()
	p := models.Problem{
		Title:       title,
		Description: title + " description",
		Category:    category,
		SubmittedBy: userID,
		Status:      models.StatusPending,
		Tags:        []string{},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

var nopLogger = zap.NewNop()

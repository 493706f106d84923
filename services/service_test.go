package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studyhub/database"
	"studyhub/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
// Single connection: the in-memory database lives and dies with it, and
// serialized writes keep concurrent tests free of SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	testUserSeq++
	user := &models.User{
		Name:                 fmt.Sprintf("User %d", testUserSeq),
		Email:                fmt.Sprintf("user%d@example.com", testUserSeq),
		Password:             "hashed",
		NotificationsEnabled: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// capturePusher records live pushes so tests can assert on the push path
// without a socket.
type capturePusher struct {
	pushes []interface{}
}

func (p *capturePusher) SendToUser(userID uint, payload interface{}) int {
	p.pushes = append(p.pushes, payload)
	return 1
}

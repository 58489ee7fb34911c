// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"mkc-office-backend/config"
	"mkc-office-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IST is the office zone used by tests.
var IST = time.FixedZone("IST", 5*3600+1800)

// NewDB opens a private in-memory sqlite database with the production schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user whose password is "secret123".
func CreateUser(t *testing.T, db *gorm.DB, username, role string) model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Name:     username,
		Email:    username + "@mkc.test",
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&user).Error)
	return user
}

func Session(u model.User) model.Session {
	return model.Session{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{T: t} }

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

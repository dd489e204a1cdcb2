package service

import (
	"testing"

	"skillbarter/internal/database"
	"skillbarter/internal/models"
	"skillbarter/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newSessionStack(db *gorm.DB) (*SessionService, *TransferService) {
	transfers := NewTransferService(db)
	settlements := NewSettlementService(db, transfers)
	sessions := NewSessionService(
		db,
		repository.NewSessionRepository(db),
		repository.NewCourseRepository(db),
		repository.NewSkillRepository(db),
		settlements,
	)
	return sessions, transfers
}

func createUser(t *testing.T, db *gorm.DB, name string, credits int64) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "not-a-real-hash",
		TimeCredits:  credits,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createSkill(t *testing.T, db *gorm.DB, name string, totalSessions int, plan string) *models.Skill {
	t.Helper()
	s := &models.Skill{Name: name, TotalSessions: totalSessions, PaymentPlan: plan}
	require.NoError(t, db.Create(s).Error)
	return s
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, userID).Error)
	return u.TimeCredits
}

func sessionByID(t *testing.T, db *gorm.DB, id string) *models.Session {
	t.Helper()
	var s models.Session
	require.NoError(t, db.Where("id = ?", id).First(&s).Error)
	return &s
}

func courseByID(t *testing.T, db *gorm.DB, id string) *models.CourseInstance {
	t.Helper()
	var ci models.CourseInstance
	require.NoError(t, db.Where("id = ?", id).First(&ci).Error)
	return &ci
}

// totalCredits sums every balance plus every held counter. The sum must be
// invariant under any sequence of joins, completions and transfers.
func totalCredits(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var balances, sessionHeld, courseHeld int64
	require.NoError(t, db.Model(&models.User{}).
		Select("COALESCE(SUM(time_credits), 0)").Scan(&balances).Error)
	require.NoError(t, db.Model(&models.Session{}).
		Select("COALESCE(SUM(held_credits), 0)").Scan(&sessionHeld).Error)
	require.NoError(t, db.Model(&models.CourseInstance{}).
		Select("COALESCE(SUM(held_credits), 0)").Scan(&courseHeld).Error)
	return balances + sessionHeld + courseHeld
}

func transactionCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&n).Error)
	return n
}

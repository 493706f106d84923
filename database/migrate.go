// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"gorm.io/gorm"

	"studyhub/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	if err := Migrate(GetDB()); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ All migrations completed successfully")
}

// Migrate applies the schema to the given database handle. Split out from
// RunMigrations so tests can migrate an isolated database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.StudyGroup{},
		&models.GroupMember{},
		&models.StudySession{},
		&models.SessionParticipant{},
		&models.StudyResource{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
		&models.ChatMessage{},
	); err != nil {
		return err
	}

	createIndexes(db)
	return nil
}

// createIndexes creates supporting indexes AutoMigrate doesn't cover
func createIndexes(db *gorm.DB) {
	// Hot query paths: inbox reads, chat history, session reminders
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id, read)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_group_time ON chat_messages(group_id, timestamp)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_study_sessions_start ON study_sessions(start_time)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")
}

package database

import (
	"errors"

	"github.com/tutormatch/tutorbot/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUser inserts the user or overwrites role and status for an existing
// telegram id. Re-running with the same values leaves exactly one row.
func (db *Database) UpsertUser(telegramID int64, role, status string) error {
	user := models.User{TelegramID: telegramID, Role: role, Status: status}
	err := db.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "status"}),
	}).Create(&user).Error
	if err != nil {
		db.log.Errorln("Failed to upsert user:", err)
	}
	return err
}

// GetUser returns the user for the given telegram id, or nil if no such user
// exists.
func (db *Database) GetUser(telegramID int64) (*models.User, error) {
	var user models.User
	err := db.conn.Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		db.log.Errorln("Failed to get user from DB:", err)
		return nil, err
	}
	return &user, nil
}

package database

import (
	"errors"

	"github.com/tutormatch/tutorbot/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveStudentProfile inserts or overwrites the student profile. The caller is
// expected to have created the user row first.
func (db *Database) SaveStudentProfile(profile *models.StudentProfile) error {
	err := db.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		db.log.Errorln("Failed to save student profile:", err)
	}
	return err
}

// GetStudentProfile returns the student profile for the given telegram id, or
// nil if registration never completed.
func (db *Database) GetStudentProfile(telegramID int64) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := db.conn.Where("telegram_id = ?", telegramID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		db.log.Errorln("Failed to get student profile from DB:", err)
		return nil, err
	}
	return &profile, nil
}

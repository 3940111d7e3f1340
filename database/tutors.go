package database

import (
	"errors"
	"strings"

	"github.com/tutormatch/tutorbot/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveTutorProfile inserts or overwrites the tutor profile and updates the
// user's status in the same transaction. A reader must never observe the new
// test score with a stale status, or the other way around.
func (db *Database) SaveTutorProfile(profile *models.TutorProfile, status string) error {
	err := db.conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			UpdateAll: true,
		}).Create(profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("telegram_id = ?", profile.TelegramID).
			Update("status", status).Error
	})
	if err != nil {
		db.log.Errorln("Failed to save tutor profile:", err)
	}
	return err
}

// GetTutorProfile returns the tutor profile for the given telegram id, or nil
// if the tutor never finished screening.
func (db *Database) GetTutorProfile(telegramID int64) (*models.TutorProfile, error) {
	var profile models.TutorProfile
	err := db.conn.Where("telegram_id = ?", telegramID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		db.log.Errorln("Failed to get tutor profile from DB:", err)
		return nil, err
	}
	return &profile, nil
}

// SearchTutors returns approved tutors whose subjects contain subject as a
// case-insensitive substring, optionally narrowed by grade and city with the
// same substring semantics. Results are ordered by experience, most first.
// Tutors that are pending or rejected are never returned.
func (db *Database) SearchTutors(subject, grade, city string) ([]models.TutorProfile, error) {
	query := db.conn.Model(&models.TutorProfile{}).
		Joins("JOIN users ON users.telegram_id = tutor_profiles.telegram_id").
		Where("users.role = ? AND users.status = ?", models.RoleTutor, models.StatusApproved).
		Where("lower(tutor_profiles.subjects) LIKE ?", like(subject))
	if grade != "" {
		query = query.Where("lower(tutor_profiles.grades) LIKE ?", like(grade))
	}
	if city != "" {
		query = query.Where("lower(tutor_profiles.city) LIKE ?", like(city))
	}
	var tutors []models.TutorProfile
	err := query.Order("tutor_profiles.experience_years DESC").Find(&tutors).Error
	if err != nil {
		db.log.Errorln("Failed to search tutors:", err)
		return nil, err
	}
	return tutors, nil
}

func like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

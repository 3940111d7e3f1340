package database

import (
	"github.com/tutormatch/tutorbot/models"
)

// CreateContactRequest appends a new contact request. Duplicates are allowed;
// requests are never updated or deleted.
func (db *Database) CreateContactRequest(studentID, tutorID int64, message string) error {
	req := models.ContactRequest{
		StudentID: studentID,
		TutorID:   tutorID,
		Message:   message,
	}
	if err := db.conn.Create(&req).Error; err != nil {
		db.log.Errorln("Failed to create contact request:", err)
		return err
	}
	return nil
}

// RequestsForTutor returns the contact requests received by a tutor, newest
// first. If num is 0 all requests are returned.
func (db *Database) RequestsForTutor(tutorID int64, num int) (requests []models.ContactRequest, err error) {
	query := db.conn.Where("tutor_id = ?", tutorID).Order("created_at desc")
	if num > 0 {
		query = query.Limit(num)
	}
	err = query.Find(&requests).Error
	if err != nil {
		db.log.Errorln("Failed to get contact requests from DB:", err)
	}
	return
}

package database

import (
	"github.com/sirupsen/logrus"
	"github.com/tutormatch/tutorbot/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Database struct {
	conn *gorm.DB
	log  *logrus.Logger
}

func OpenDatabase(path string, logger *logrus.Logger) (*Database, error) {
	lgr, err := Zap()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lgr.Sync() }()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 NewGORMLogger(lgr),
		SkipDefaultTransaction: false,
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TutorProfile{},
		&models.ContactRequest{},
	)
	if err != nil {
		return nil, err
	}
	return &Database{db, logger}, nil
}

func (db *Database) Close() error {
	conn, err := db.conn.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}

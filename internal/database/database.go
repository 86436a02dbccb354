package database

import (
	"fmt"

	"github.com/kiennt169/quiz-core-go/internal/config"
	"github.com/kiennt169/quiz-core-go/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a MySQL connection, runs auto-migration and seeds the
// bootstrap admin account.
func Connect(cfg *config.AppConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.Database.DSNValue(),
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	if cfg.AdminSeed.IsEnabled() {
		if err := seedAdmin(db, cfg.AdminSeed); err != nil {
			return nil, fmt.Errorf("admin seed failed: %w", err)
		}
	}
	return db, nil
}

// migrate runs GORM auto-migration for all models.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.QuizModel{},
		&models.QuestionModel{},
		&models.AnswerModel{},
	)
}

// seedAdmin creates the bootstrap admin on an empty users table so a fresh
// deployment can sign in. The seed password comes from config/env; without
// one the seed is skipped rather than inventing a credential.
func seedAdmin(db *gorm.DB, seed config.AdminSeedConfig) error {
	var count int64
	if err := db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || seed.Password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.UserModel{
		Email:    seed.Email,
		Username: seed.Username,
		Password: string(hash),
		FullName: "Administrator",
		Active:   true,
		Roles:    models.StringArray{models.RoleAdmin, models.RoleUser},
	}
	return db.Create(&admin).Error
}

package database

import (
	"fmt"
	"log"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.Question{},
		&model.TestAttempt{},
		&model.TestAttemptQuestion{},
		&model.UserSkillRegistration{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed a starter skill catalog so a fresh install is usable before
	// an administrator adds their own.
	var count int64
	db.Model(&model.Skill{}).Count(&count)
	if count == 0 {
		defaultSkills := []model.Skill{
			{Name: "Go", Description: "Go programming language"},
			{Name: "Python", Description: "Python programming language"},
			{Name: "SQL", Description: "Relational databases and SQL"},
			{Name: "Data Structures", Description: "Core data structures and algorithms"},
		}
		for _, s := range defaultSkills {
			db.Create(&s)
		}
	}

	return db, nil
}

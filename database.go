package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the Postgres connection and runs the idempotent
// create-if-missing migration for every entity. AutoMigrate only adds
// missing tables/columns, never drops data, which satisfies the
// "additive, inspect-then-alter" migration contract without hand
// rolling the PRAGMA-based column probing an older sqlite-backed
// version of this service used.
func InitDB(cfg *Config) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	DB = db

	err = DB.AutoMigrate(
		&User{},
		&Event{},
		&Conversation{},
		&ConversationMember{},
		&Message{},
		&ReadCursor{},
		&JoinRequest{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("database connected and migrated")
}

package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hackathon-api/config"
	"hackathon-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// singleActiveRoundIndex allows at most one row of rounds with is_active set
const singleActiveRoundIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_single_active ON rounds (is_active) WHERE is_active`

// InitDB opens the postgres connection described by cfg, migrates the schema and stores the handle in DB
func InitDB(cfg config.PostgresConfig) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if err := RegisterMetrics(db); err != nil {
		return fmt.Errorf("failed to register db metrics: %w", err)
	}
	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	slog.Info("database ready", slog.String("host", cfg.Host), slog.String("db", cfg.DB))
	return nil
}

// Migrate creates or updates every table used by the engine
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Track{},
		&models.Round{},
		&models.Team{},
		&models.TeamRound{},
		&models.Subtask{},
		&models.TeamSubtaskDisplay{},
		&models.TeamSubtaskSelection{},
		&models.Pairing{},
		&models.RoundOptions{},
		&models.Submission{},
		&models.Score{},
		&models.JudgeAssignment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Exec(singleActiveRoundIndex).Error; err != nil {
		return fmt.Errorf("failed to create active round index: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique index rejecting a write
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite drivers only expose the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"hackathon-api/database"
	"hackathon-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestPostgresConstraints(t *testing.T) {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("hackathon"),
		postgres.WithUsername("hackathon"),
		postgres.WithPassword("hackathon"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	require.NoError(t, db.Create(&models.Round{ID: "11111111-1111-1111-1111-111111111111", RoundNumber: 1, IsActive: true}).Error)
	err = db.Create(&models.Round{ID: "22222222-2222-2222-2222-222222222222", RoundNumber: 2, IsActive: true}).Error
	assert.True(t, database.IsUniqueViolation(err))

	fixture, err := database.LoadFixture("testdata/fixture.yaml")
	require.NoError(t, err)
	// Fixture round numbers collide with the rounds above, only teams and tracks matter here
	fixture.Rounds = nil
	fixture.Subtasks = nil
	fixture.JudgeAssignments = nil
	for i := range fixture.Teams {
		fixture.Teams[i].RoundsAccessible = nil
	}
	require.NoError(t, database.Populate(db, fixture))
	require.NoError(t, database.Populate(db, fixture))

	var teams int64
	require.NoError(t, db.Model(&models.Team{}).Count(&teams).Error)
	assert.EqualValues(t, 2, teams)
}

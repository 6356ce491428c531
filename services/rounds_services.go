package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hackathon-api/metrics"
	"hackathon-api/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// RoundStatus is derived from the activation flag and the schedule, never stored
type RoundStatus string

const (
	RoundStatusActive    RoundStatus = "active"
	RoundStatusUpcoming  RoundStatus = "upcoming"
	RoundStatusCompleted RoundStatus = "completed"
)

// Status derives the lifecycle status of round at now
func Status(round models.Round, now time.Time) RoundStatus {
	if round.IsActive {
		return RoundStatusActive
	}
	if round.StartTime != nil && round.StartTime.After(now) {
		return RoundStatusUpcoming
	}
	return RoundStatusCompleted
}

// RoundView is a round with its derived status
type RoundView struct {
	models.Round
	Status RoundStatus `json:"status"`
}

type CreateRoundRequest struct {
	RoundNumber       int
	StartTime         *time.Time
	EndTime           *time.Time
	SubmissionEnabled bool
	Instructions      string
}

// RoundService drives activation and submission windows of rounds
type RoundService struct {
	*core
}

func (s *RoundService) view(round *models.Round) *RoundView {
	return &RoundView{Round: *round, Status: Status(*round, s.now())}
}

// Activate makes roundID the single active round. Another active round is a Conflict.
func (s *RoundService) Activate(ctx context.Context, actor Actor, roundID string) (_ *RoundView, err error) {
	ctx, span := startSpan(ctx, "rounds.Activate", trace.WithAttributes(attribute.String("round.id", roundID)))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	var round *models.Round
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: Load the target round
		r, err := loadRound(tx, roundID)
		if err != nil {
			return err
		}
		if r.IsActive {
			round = r
			return nil
		}

		// Step 2: Refuse while another round is running
		var others []models.Round
		if err := tx.Where("is_active = ? AND id <> ?", true, roundID).Limit(1).Find(&others).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if len(others) > 0 {
			return conflict("round %d is already active, stop it first", others[0].RoundNumber)
		}

		// Step 3: Flip the flag, the single active index rejects a concurrent winner
		if err := tx.Model(r).Update("is_active", true).Error; err != nil {
			return mapWriteError(err, "another round was activated concurrently")
		}
		r.IsActive = true
		round = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RoundTransitions.WithLabelValues("start").Inc()
	s.logger.Info("round activated", slog.String("round_id", round.ID), slog.Int("round_number", round.RoundNumber))
	return s.view(round), nil
}

// Deactivate clears the active flag. Stopping an inactive round succeeds.
func (s *RoundService) Deactivate(ctx context.Context, actor Actor, roundID string) (_ *RoundView, err error) {
	ctx, span := startSpan(ctx, "rounds.Deactivate", trace.WithAttributes(attribute.String("round.id", roundID)))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	round, err := loadRound(db, roundID)
	if err != nil {
		return nil, err
	}
	if round.IsActive {
		if err := db.Model(round).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		round.IsActive = false
		metrics.RoundTransitions.WithLabelValues("stop").Inc()
		s.logger.Info("round deactivated", slog.String("round_id", round.ID), slog.Int("round_number", round.RoundNumber))
	}
	return s.view(round), nil
}

// ToggleSubmission flips whether teams may submit for the round
func (s *RoundService) ToggleSubmission(ctx context.Context, actor Actor, roundID string) (_ *RoundView, err error) {
	ctx, span := startSpan(ctx, "rounds.ToggleSubmission", trace.WithAttributes(attribute.String("round.id", roundID)))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.Round{}).
		Where("id = ?", roundID).
		Update("submission_enabled", gorm.Expr("NOT submission_enabled"))
	if res.Error != nil {
		return nil, fmt.Errorf("database error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("round %s not found", roundID)
	}

	round, err := loadRound(db, roundID)
	if err != nil {
		return nil, err
	}
	metrics.RoundTransitions.WithLabelValues("toggle").Inc()
	s.logger.Info("round submission toggled", slog.String("round_id", round.ID), slog.Bool("submission_enabled", round.SubmissionEnabled))
	return s.view(round), nil
}

// CreateRound adds an inactive round
func (s *RoundService) CreateRound(ctx context.Context, actor Actor, req CreateRoundRequest) (*RoundView, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	if req.RoundNumber <= 0 {
		return nil, validationError("round_number must be positive")
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, validationError("end_time must be after start_time")
	}

	round := models.Round{
		RoundNumber:       req.RoundNumber,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		SubmissionEnabled: req.SubmissionEnabled,
		Instructions:      req.Instructions,
	}
	if err := s.db.WithContext(ctx).Create(&round).Error; err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("round %d already exists", req.RoundNumber))
	}
	return s.view(&round), nil
}

// ListRounds returns every round by number
func (s *RoundService) ListRounds(ctx context.Context) ([]RoundView, error) {
	var rounds []models.Round
	if err := s.db.WithContext(ctx).Order("round_number").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	now := s.now()
	views := make([]RoundView, 0, len(rounds))
	for _, r := range rounds {
		views = append(views, RoundView{Round: r, Status: Status(r, now)})
	}
	return views, nil
}

func (s *RoundService) GetRound(ctx context.Context, roundID string) (*RoundView, error) {
	round, err := loadRound(s.db.WithContext(ctx), roundID)
	if err != nil {
		return nil, err
	}
	return s.view(round), nil
}

// ActiveRound reads the active round from the datastore on every call
func (s *RoundService) ActiveRound(ctx context.Context) (*RoundView, error) {
	var round models.Round
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("no round is active")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return s.view(&round), nil
}

// TeamRounds lists the rounds a team may access
func (s *RoundService) TeamRounds(ctx context.Context, actor Actor) ([]RoundView, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}
	var rounds []models.Round
	err := s.db.WithContext(ctx).
		Joins("JOIN team_rounds tr ON tr.round_id = rounds.id").
		Where("tr.team_id = ?", actor.ID).
		Order("rounds.round_number").
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	now := s.now()
	views := make([]RoundView, 0, len(rounds))
	for _, r := range rounds {
		views = append(views, RoundView{Round: r, Status: Status(r, now)})
	}
	return views, nil
}

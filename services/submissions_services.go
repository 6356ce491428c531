package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hackathon-api/metrics"
	"hackathon-api/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRequest struct {
	FileURL    string
	GithubLink string
	Overview   string
}

// SubmissionView is a submission with the scores judges have recorded for it
type SubmissionView struct {
	models.Submission
	RoundNumber int      `json:"round_number"`
	Score       *float64 `json:"score"`
	NumJudges   int      `json:"num_judges"`
}

// SubmissionService accepts team submissions while a round's window is open
type SubmissionService struct {
	*core
	scores *ScoreService
}

// Submit creates or replaces the calling team's submission for roundID.
// created tells whether this was the first submission.
func (s *SubmissionService) Submit(ctx context.Context, actor Actor, roundID string, req SubmissionRequest) (_ *models.Submission, created bool, err error) {
	ctx, span := startSpan(ctx, "submissions.Submit", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.String("team.id", actor.ID),
	))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleTeam); err != nil {
		return nil, false, err
	}
	req.FileURL = strings.TrimSpace(req.FileURL)
	req.GithubLink = strings.TrimSpace(req.GithubLink)
	if req.FileURL == "" && req.GithubLink == "" {
		return nil, false, validationError("file_url or github_link is required")
	}

	var saved models.Submission
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: The submission window must be open
		round, err := loadRound(tx, roundID)
		if err != nil {
			return err
		}
		if !round.IsActive {
			return invalidState("round is not active")
		}
		if !round.SubmissionEnabled {
			return invalidState("submissions are closed for this round")
		}
		if round.EndTime != nil && s.now().After(*round.EndTime) {
			return invalidState("round has ended")
		}

		// Step 2: The team must hold access and not be locked
		if err := lockRoundAccess(tx, actor.ID, roundID); err != nil {
			return err
		}
		team, err := loadTeam(tx, actor.ID)
		if err != nil {
			return err
		}
		if team.IsLocked {
			return invalidState("team is locked")
		}

		// Step 3: Upsert on (team, round)
		var count int64
		if err := tx.Model(&models.Submission{}).Where("team_id = ? AND round_id = ?", actor.ID, roundID).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		created = count == 0

		sub := models.Submission{
			TeamID:      actor.ID,
			RoundID:     roundID,
			FileURL:     req.FileURL,
			GithubLink:  req.GithubLink,
			Overview:    req.Overview,
			SubmittedAt: s.now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "round_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_url", "github_link", "overview", "submitted_at"}),
		}).Create(&sub).Error
		if err != nil {
			return fmt.Errorf("failed to store submission: %w", err)
		}
		return tx.Where("team_id = ? AND round_id = ?", actor.ID, roundID).First(&saved).Error
	})
	if err != nil {
		return nil, false, err
	}

	result := "updated"
	if created {
		result = "created"
	}
	metrics.Submissions.WithLabelValues(result).Inc()
	s.logger.Info("submission stored", slog.String("team_id", actor.ID), slog.String("round_id", roundID), slog.Bool("created", created))
	return &saved, created, nil
}

// ListTeamSubmissions returns the calling team's submissions, newest first, with their scored totals
func (s *SubmissionService) ListTeamSubmissions(ctx context.Context, actor Actor) ([]SubmissionView, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var views []SubmissionView
	err := db.Model(&models.Submission{}).
		Select("submissions.*, rounds.round_number").
		Joins("JOIN rounds ON rounds.id = submissions.round_id").
		Where("submissions.team_id = ?", actor.ID).
		Order("submissions.submitted_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(views) == 0 {
		return []SubmissionView{}, nil
	}

	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	var rows []struct {
		SubmissionID string
		RoundNumber  int
		Score        *float64
		SecScore     *float64
		FacultyScore *float64
	}
	err = db.Table("scores AS sc").
		Select("sc.submission_id, r.round_number, sc.score, sc.sec_score, sc.faculty_score").
		Joins("JOIN submissions sub ON sub.id = sc.submission_id").
		Joins("JOIN rounds r ON r.id = sub.round_id").
		Where("sc.submission_id IN ? AND sc.status = ?", ids, models.ScoreStatusScored).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Totals go through the same valuation as cumulative scores
	index := make(map[string]int, len(views))
	for i := range views {
		index[views[i].ID] = i
	}
	for _, row := range rows {
		v := &views[index[row.SubmissionID]]
		if v.Score == nil {
			v.Score = new(float64)
		}
		*v.Score += s.scores.value(scoredRow{
			RoundNumber:  row.RoundNumber,
			Score:        row.Score,
			SecScore:     row.SecScore,
			FacultyScore: row.FacultyScore,
		})
		v.NumJudges++
	}
	return views, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hackathon-api/models"

	"gorm.io/gorm"
)

// ScoreUpdate corrects a recorded score. Nil fields are left as they are.
type ScoreUpdate struct {
	Score        *float64
	SecScore     *float64
	FacultyScore *float64
	Remarks      *string
}

// SubmissionUpdate corrects a team's submission. Nil fields are left as they are.
type SubmissionUpdate struct {
	FileURL    *string
	GithubLink *string
	Overview   *string
}

func loadScore(tx *gorm.DB, scoreID string) (*models.Score, error) {
	var score models.Score
	if err := tx.Where("id = ?", scoreID).First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("score %s not found", scoreID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &score, nil
}

func loadSubmission(tx *gorm.DB, submissionID string) (*models.Submission, error) {
	var sub models.Submission
	if err := tx.Where("id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("submission %s not found", submissionID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sub, nil
}

// GetScore returns one recorded score
func (s *ScoreService) GetScore(ctx context.Context, actor Actor, scoreID string) (*models.Score, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	return loadScore(s.db.WithContext(ctx), scoreID)
}

// UpdateScore lets an admin correct a score. The fields must match the round's scoring shape.
func (s *ScoreService) UpdateScore(ctx context.Context, actor Actor, scoreID string, upd ScoreUpdate) (*models.Score, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	var saved *models.Score
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		score, err := loadScore(tx, scoreID)
		if err != nil {
			return err
		}
		sub, err := loadSubmission(tx, score.SubmissionID)
		if err != nil {
			return err
		}
		round, err := loadRound(tx, sub.RoundID)
		if err != nil {
			return err
		}

		if s.policy.IsDualScore(round.RoundNumber) {
			if upd.Score != nil {
				return validationError("score is not accepted for this round, use sec_score and faculty_score")
			}
		} else if upd.SecScore != nil || upd.FacultyScore != nil {
			return validationError("sec_score and faculty_score are not accepted for this round, use score")
		}

		changes := map[string]interface{}{}
		for field, v := range map[string]*float64{"score": upd.Score, "sec_score": upd.SecScore, "faculty_score": upd.FacultyScore} {
			if v == nil {
				continue
			}
			if err := checkRange(field, *v); err != nil {
				return err
			}
			changes[field] = *v
		}
		if upd.Remarks != nil {
			changes["remarks"] = *upd.Remarks
		}
		if len(changes) == 0 {
			saved = score
			return nil
		}
		changes["updated_at"] = s.now()
		if err := tx.Model(score).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
		saved, err = loadScore(tx, scoreID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score corrected", slog.String("score_id", scoreID), slog.String("admin_id", actor.ID))
	return saved, nil
}

// DeleteScore removes a score from every total
func (s *ScoreService) DeleteScore(ctx context.Context, actor Actor, scoreID string) error {
	if err := actor.require(RoleAdmin); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	score, err := loadScore(db, scoreID)
	if err != nil {
		return err
	}
	if err := db.Delete(score).Error; err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	s.logger.Info("score deleted", slog.String("score_id", scoreID), slog.String("admin_id", actor.ID))
	return nil
}

// GetSubmission returns one submission
func (s *SubmissionService) GetSubmission(ctx context.Context, actor Actor, submissionID string) (*models.Submission, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	return loadSubmission(s.db.WithContext(ctx), submissionID)
}

// UpdateSubmission lets an admin correct a submission's links. One link must remain.
func (s *SubmissionService) UpdateSubmission(ctx context.Context, actor Actor, submissionID string, upd SubmissionUpdate) (*models.Submission, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	var saved *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := loadSubmission(tx, submissionID)
		if err != nil {
			return err
		}

		fileURL, githubLink := sub.FileURL, sub.GithubLink
		changes := map[string]interface{}{}
		if upd.FileURL != nil {
			fileURL = strings.TrimSpace(*upd.FileURL)
			changes["file_url"] = fileURL
		}
		if upd.GithubLink != nil {
			githubLink = strings.TrimSpace(*upd.GithubLink)
			changes["github_link"] = githubLink
		}
		if upd.Overview != nil {
			changes["overview"] = *upd.Overview
		}
		if fileURL == "" && githubLink == "" {
			return validationError("file_url or github_link is required")
		}
		if len(changes) > 0 {
			if err := tx.Model(sub).Updates(changes).Error; err != nil {
				return fmt.Errorf("failed to update submission: %w", err)
			}
		}
		saved, err = loadSubmission(tx, submissionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission corrected", slog.String("submission_id", submissionID), slog.String("admin_id", actor.ID))
	return saved, nil
}

// DeleteSubmission removes a submission together with its scores
func (s *SubmissionService) DeleteSubmission(ctx context.Context, actor Actor, submissionID string) error {
	if err := actor.require(RoleAdmin); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := loadSubmission(tx, submissionID)
		if err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", sub.ID).Delete(&models.Score{}).Error; err != nil {
			return fmt.Errorf("failed to delete scores: %w", err)
		}
		if err := tx.Delete(sub).Error; err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("submission deleted", slog.String("submission_id", submissionID), slog.String("admin_id", actor.ID))
	return nil
}

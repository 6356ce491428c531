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
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pairOptionCount is how many subtasks a pair is offered in the pairing stage
const pairOptionCount = 2

// PairAllocation publishes SubtaskIDs to both teams of PairID
type PairAllocation struct {
	PairID     string
	SubtaskIDs []string
}

// PartnerSubmission is a submission of the caller or of its partner team
type PartnerSubmission struct {
	ID            string    `json:"id"`
	TeamID        string    `json:"team_id"`
	TeamName      string    `json:"team_name"`
	IsCurrentTeam bool      `json:"is_current_team"`
	RoundNumber   int       `json:"round_number"`
	SubmittedAt   time.Time `json:"submitted_at"`
	GithubLink    string    `json:"github_link"`
	FileURL       string    `json:"file_url"`
	Overview      string    `json:"overview"`
}

// PairService manages pairings and publishes shared options to paired teams
type PairService struct {
	*core
	scores *ScoreService
}

// CreatePair pairs two teams of the same track on the anchor round
func (s *PairService) CreatePair(ctx context.Context, actor Actor, anchorRoundID, teamAID, teamBID string) (*models.Pairing, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}
	if teamAID == "" || teamBID == "" {
		return nil, validationError("both team ids are required")
	}
	if teamAID == teamBID {
		return nil, validationError("a team cannot be paired with itself")
	}

	var pair *models.Pairing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: Pairs only exist on the anchor round
		round, err := loadRound(tx, anchorRoundID)
		if err != nil {
			return err
		}
		if !s.policy.IsPairAnchor(round.RoundNumber) {
			return invalidState("pairs can only be created on round %d", s.policy.PairAnchorRound)
		}

		// Step 2: Both teams exist and share a track
		teamA, err := loadTeam(tx, teamAID)
		if err != nil {
			return err
		}
		teamB, err := loadTeam(tx, teamBID)
		if err != nil {
			return err
		}
		if teamA.TrackID != teamB.TrackID {
			return validationError("paired teams must belong to the same track")
		}

		// Step 3: A team joins at most one pair per anchor
		var count int64
		err = tx.Model(&models.Pairing{}).
			Where("round_anchor_id = ?", anchorRoundID).
			Where("team_a_id IN ? OR team_b_id IN ?", []string{teamAID, teamBID}, []string{teamAID, teamBID}).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return conflict("one of the teams is already paired")
		}

		pair = &models.Pairing{
			RoundAnchorID: anchorRoundID,
			TrackID:       teamA.TrackID,
			TeamAID:       teamAID,
			TeamBID:       teamBID,
		}
		if err := tx.Create(pair).Error; err != nil {
			return mapWriteError(err, "pair already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pair created", slog.String("pair_id", pair.ID), slog.String("team_a_id", teamAID), slog.String("team_b_id", teamBID))
	return pair, nil
}

// ListPairs returns the pairings anchored to a round
func (s *PairService) ListPairs(ctx context.Context, actor Actor, anchorRoundID string) ([]models.Pairing, error) {
	if err := actor.require(RoleAdmin); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := loadRound(db, anchorRoundID); err != nil {
		return nil, err
	}
	var pairs []models.Pairing
	if err := db.Where("round_anchor_id = ?", anchorRoundID).Order("created_at, id").Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return pairs, nil
}

// AllocatePairs publishes identical pair-mode options to both teams of every allocation.
// Either every allocation is applied or none is.
func (s *PairService) AllocatePairs(ctx context.Context, actor Actor, roundID string, allocations []PairAllocation) (_ int, err error) {
	ctx, span := startSpan(ctx, "pairs.AllocatePairs", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.Int("allocations", len(allocations)),
	))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleAdmin); err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: Only the pairing stage round takes pair allocations
		round, err := loadRound(tx, roundID)
		if err != nil {
			return err
		}
		if !s.policy.IsPairStage(round.RoundNumber) {
			return invalidState("pair allocation is available only for round %d", s.policy.PairStageRound)
		}
		if len(allocations) == 0 {
			return validationError("allocations must be a non-empty array")
		}

		anchor, err := loadRoundByNumber(tx, s.policy.PairAnchorRound)
		if err != nil {
			return err
		}
		if anchor == nil {
			return notFound("round %d not found", s.policy.PairAnchorRound)
		}

		// Step 2: Apply each allocation, any failure rolls back all of them
		now := s.now()
		for _, alloc := range allocations {
			if err := s.allocatePair(tx, round, anchor, alloc, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.PairsAllocated.Add(float64(len(allocations)))
	s.logger.Info("pair options published", slog.String("round_id", roundID), slog.Int("count", len(allocations)))
	return len(allocations), nil
}

func (s *PairService) allocatePair(tx *gorm.DB, round, anchor *models.Round, alloc PairAllocation, now time.Time) error {
	var pair models.Pairing
	if err := tx.Where("id = ?", alloc.PairID).First(&pair).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("pair not found: %s", alloc.PairID)
		}
		return fmt.Errorf("database error: %w", err)
	}
	if pair.RoundAnchorID != anchor.ID {
		return invalidState("pair must belong to round %d", anchor.RoundNumber)
	}

	if err := grantRoundAccess(tx, round.ID, pair.TeamAID, pair.TeamBID); err != nil {
		return err
	}

	teamA, err := loadTeam(tx, pair.TeamAID)
	if err != nil {
		return err
	}
	teamB, err := loadTeam(tx, pair.TeamBID)
	if err != nil {
		return err
	}
	if teamA.TrackID == "" || teamA.TrackID != teamB.TrackID {
		return validationError("paired teams must belong to the same track")
	}

	// The pairing's own track may have drifted from its teams'
	if pair.TrackID != teamA.TrackID {
		if err := tx.Model(&pair).Update("track_id", teamA.TrackID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		s.logger.Warn("pair track repaired", slog.String("pair_id", pair.ID), slog.String("track_id", teamA.TrackID))
	}

	ids := uniqueIDs(alloc.SubtaskIDs)
	if len(ids) != pairOptionCount {
		return validationError("each pair must have exactly %d unique subtasks", pairOptionCount)
	}
	var count int64
	if err := tx.Model(&models.Subtask{}).Where("id IN ? AND track_id = ?", ids, teamA.TrackID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count != pairOptionCount {
		return validationError("both subtasks must belong to the pair's track")
	}

	standings, err := s.scores.standings(tx, pair.TeamAID, pair.TeamBID)
	if err != nil {
		return err
	}
	priority := ResolvePriority(standings[pair.TeamAID], standings[pair.TeamBID])

	for _, teamID := range pair.Members() {
		row := models.RoundOptions{
			TeamID:         teamID,
			RoundID:        round.ID,
			Options:        datatypes.JSONSlice[string](ids),
			AssignmentMode: models.AssignmentModePair,
			PairID:         &pair.ID,
			PriorityTeamID: &priority.PriorityTeamID,
			PairedTeamID:   &priority.PairedTeamID,
			PublishedAt:    &now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "team_id"}, {Name: "round_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"options", "selected", "selected_at", "assignment_mode", "pair_id",
				"priority_team_id", "paired_team_id", "published_at", "auto_assigned",
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to publish pair options: %w", err)
		}
	}
	return nil
}

// RemovePair deletes a pairing and returns both teams to team mode in the pairing stage
func (s *PairService) RemovePair(ctx context.Context, actor Actor, anchorRoundID, pairID string) (err error) {
	ctx, span := startSpan(ctx, "pairs.RemovePair", trace.WithAttributes(attribute.String("pair.id", pairID)))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleAdmin); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		round, err := loadRound(tx, anchorRoundID)
		if err != nil {
			return err
		}
		if !s.policy.IsPairAnchor(round.RoundNumber) {
			return invalidState("pairs can only be removed from round %d", s.policy.PairAnchorRound)
		}

		var pair models.Pairing
		if err := tx.Where("id = ? AND round_anchor_id = ?", pairID, anchorRoundID).First(&pair).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("pair not found: %s", pairID)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if err := tx.Delete(&pair).Error; err != nil {
			return fmt.Errorf("failed to delete pair: %w", err)
		}

		// Reset options tied to the pair, and both teams' pairing stage options
		reset := tx.Model(&models.RoundOptions{}).Where("pair_id = ?", pair.ID)
		stage, err := loadRoundByNumber(tx, s.policy.PairStageRound)
		if err != nil {
			return err
		}
		if stage != nil {
			reset = reset.Or("team_id IN ? AND round_id = ?", pair.Members(), stage.ID)
		}
		err = reset.Updates(map[string]interface{}{
			"assignment_mode":  models.AssignmentModeTeam,
			"pair_id":          nil,
			"priority_team_id": nil,
			"paired_team_id":   nil,
			"published_at":     nil,
			"auto_assigned":    false,
			"selected":         nil,
			"selected_at":      nil,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to reset pair options: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("pair removed", slog.String("pair_id", pairID))
	return nil
}

// PartnerSubmissions lists the submissions of the calling team and its partner up to the pairing stage
func (s *PairService) PartnerSubmissions(ctx context.Context, actor Actor) ([]PartnerSubmission, error) {
	if err := actor.require(RoleTeam); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	anchor, err := loadRoundByNumber(db, s.policy.PairAnchorRound)
	if err != nil || anchor == nil {
		return []PartnerSubmission{}, err
	}

	var pairs []models.Pairing
	err = db.Where("round_anchor_id = ? AND (team_a_id = ? OR team_b_id = ?)", anchor.ID, actor.ID, actor.ID).
		Limit(1).
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(pairs) == 0 {
		return []PartnerSubmission{}, nil
	}
	partner, err := loadTeam(db, pairs[0].Partner(actor.ID))
	if err != nil {
		return nil, err
	}

	var rows []struct {
		models.Submission
		RoundNumber int
	}
	err = db.Model(&models.Submission{}).
		Select("submissions.*, rounds.round_number").
		Joins("JOIN rounds ON rounds.id = submissions.round_id").
		Where("submissions.team_id IN ? AND rounds.round_number <= ?", []string{actor.ID, partner.ID}, s.policy.PairStageRound).
		Order("submissions.submitted_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	out := make([]PartnerSubmission, 0, len(rows))
	for _, r := range rows {
		entry := PartnerSubmission{
			ID:            r.ID,
			TeamID:        r.TeamID,
			TeamName:      partner.Name,
			IsCurrentTeam: r.TeamID == actor.ID,
			RoundNumber:   r.RoundNumber,
			SubmittedAt:   r.SubmittedAt,
			GithubLink:    r.GithubLink,
			FileURL:       r.FileURL,
			Overview:      r.Overview,
		}
		if entry.IsCurrentTeam {
			entry.TeamName = "Your Team"
		}
		out = append(out, entry)
	}
	return out, nil
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hackathon-api/metrics"
	"hackathon-api/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	minScoreValue = 0
	maxScoreValue = 100
)

// ScorePayload is a judge's evaluation. Single-score rounds use Score, dual-score rounds use the other two.
type ScorePayload struct {
	Score        *float64
	SecScore     *float64
	FacultyScore *float64
	Remarks      string
}

func (p ScorePayload) validate(dual bool) error {
	if dual {
		if p.Score != nil {
			return validationError("score is not accepted for this round, use sec_score and faculty_score")
		}
		if p.SecScore == nil || p.FacultyScore == nil {
			return validationError("sec_score and faculty_score are required for this round")
		}
		if err := checkRange("sec_score", *p.SecScore); err != nil {
			return err
		}
		return checkRange("faculty_score", *p.FacultyScore)
	}
	if p.SecScore != nil || p.FacultyScore != nil {
		return validationError("sec_score and faculty_score are not accepted for this round, use score")
	}
	if p.Score == nil {
		return validationError("score is required for this round")
	}
	return checkRange("score", *p.Score)
}

func checkRange(field string, v float64) error {
	if v < minScoreValue || v > maxScoreValue {
		return validationError("%s must be between %d and %d", field, minScoreValue, maxScoreValue)
	}
	return nil
}

// ScoreService is the score ledger: judges write scores, totals are derived on read
type ScoreService struct {
	*core
}

// UpsertScore records the calling judge's score for a submission
func (s *ScoreService) UpsertScore(ctx context.Context, actor Actor, submissionID string, payload ScorePayload) (_ *models.Score, err error) {
	ctx, span := startSpan(ctx, "scores.UpsertScore", trace.WithAttributes(attribute.String("submission.id", submissionID)))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleJudge); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var sub models.Submission
	if err := db.Where("id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubmission
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	round, err := loadRound(db, sub.RoundID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssigned(ctx, actor, sub.TeamID, sub.RoundID); err != nil {
		return nil, err
	}
	return s.writeScore(ctx, actor, &sub, round, payload)
}

// ScoreTeamRound records the calling judge's score for the team's submission in roundID
func (s *ScoreService) ScoreTeamRound(ctx context.Context, actor Actor, roundID, teamID string, payload ScorePayload) (_ *models.Score, err error) {
	ctx, span := startSpan(ctx, "scores.ScoreTeamRound", trace.WithAttributes(
		attribute.String("round.id", roundID),
		attribute.String("team.id", teamID),
	))
	defer func() { endSpan(span, err) }()

	if err := actor.require(RoleJudge); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	round, err := loadRound(db, roundID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssigned(ctx, actor, teamID, roundID); err != nil {
		return nil, err
	}

	var subs []models.Submission
	if err := db.Where("team_id = ? AND round_id = ?", teamID, roundID).Limit(1).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(subs) == 0 {
		return nil, ErrNoSubmission
	}
	return s.writeScore(ctx, actor, &subs[0], round, payload)
}

func (s *ScoreService) checkAssigned(ctx context.Context, actor Actor, teamID, roundID string) error {
	if s.assignments == nil {
		return forbidden("judge assignments are not configured")
	}
	ok, err := s.assignments.IsAssigned(ctx, actor.ID, teamID, roundID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("judge is not assigned to this team")
	}
	return nil
}

func (s *ScoreService) writeScore(ctx context.Context, actor Actor, sub *models.Submission, round *models.Round, payload ScorePayload) (*models.Score, error) {
	dual := s.policy.IsDualScore(round.RoundNumber)
	if err := payload.validate(dual); err != nil {
		return nil, err
	}

	score := models.Score{
		JudgeID:      actor.ID,
		SubmissionID: sub.ID,
		Remarks:      payload.Remarks,
		Status:       models.ScoreStatusScored,
	}
	mode := "single"
	if dual {
		score.SecScore, score.FacultyScore = payload.SecScore, payload.FacultyScore
		mode = "dual"
	} else {
		score.Score = payload.Score
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "judge_id"}, {Name: "submission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "sec_score", "faculty_score", "remarks", "status", "updated_at"}),
	}).Create(&score).Error
	if err != nil {
		return nil, fmt.Errorf("failed to store score: %w", err)
	}

	var saved models.Score
	if err := db.Where("judge_id = ? AND submission_id = ?", actor.ID, sub.ID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	metrics.ScoresRecorded.WithLabelValues(mode).Inc()
	s.logger.Info("score recorded",
		slog.String("judge_id", actor.ID),
		slog.String("team_id", sub.TeamID),
		slog.Int("round_number", round.RoundNumber),
		slog.String("mode", mode),
	)
	return &saved, nil
}

// scoredRow is one scored evaluation with the team and round it counts for
type scoredRow struct {
	TeamID       string
	RoundID      string
	RoundNumber  int
	Score        *float64
	SecScore     *float64
	FacultyScore *float64
}

// teamLedger holds the derived totals of one team
type teamLedger struct {
	Total    float64
	ByRound  map[string]float64
	ByNumber map[int]float64
}

// scoredRows reads scored evaluations. A nil teamIDs reads every team; an empty
// roundID reads every round. accessibleOnly drops rounds the team has no grant for.
func scoredRows(tx *gorm.DB, teamIDs []string, roundID string, accessibleOnly bool) ([]scoredRow, error) {
	q := tx.Table("scores AS sc").
		Select("sub.team_id, sub.round_id, r.round_number, sc.score, sc.sec_score, sc.faculty_score").
		Joins("JOIN submissions sub ON sub.id = sc.submission_id").
		Joins("JOIN rounds r ON r.id = sub.round_id").
		Where("sc.status = ?", models.ScoreStatusScored)
	if accessibleOnly {
		q = q.Joins("JOIN team_rounds tr ON tr.team_id = sub.team_id AND tr.round_id = sub.round_id")
	}
	if teamIDs != nil {
		q = q.Where("sub.team_id IN ?", teamIDs)
	}
	if roundID != "" {
		q = q.Where("sub.round_id = ?", roundID)
	}

	var rows []scoredRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rows, nil
}

// value is what one evaluation adds to its team's round total
func (s *ScoreService) value(row scoredRow) float64 {
	if s.policy.IsDualScore(row.RoundNumber) {
		if s.combine == nil || row.SecScore == nil || row.FacultyScore == nil {
			return 0
		}
		return s.combine(*row.SecScore, *row.FacultyScore)
	}
	if row.Score == nil {
		return 0
	}
	return *row.Score
}

// ledgers sums cumulative totals over accessible rounds. Every id in teamIDs gets an entry.
func (s *ScoreService) ledgers(tx *gorm.DB, teamIDs []string) (map[string]*teamLedger, error) {
	rows, err := scoredRows(tx, teamIDs, "", true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*teamLedger, len(teamIDs))
	get := func(id string) *teamLedger {
		l, ok := out[id]
		if !ok {
			l = &teamLedger{ByRound: map[string]float64{}, ByNumber: map[int]float64{}}
			out[id] = l
		}
		return l
	}
	for _, id := range teamIDs {
		get(id)
	}
	for _, row := range rows {
		v := s.value(row)
		l := get(row.TeamID)
		l.Total += v
		l.ByRound[row.RoundID] += v
		l.ByNumber[row.RoundNumber] += v
	}
	return out, nil
}

// RoundScore is the sum of every judge's scored value for the team in roundID
func (s *ScoreService) RoundScore(ctx context.Context, teamID, roundID string) (float64, error) {
	rows, err := scoredRows(s.db.WithContext(ctx), []string{teamID}, roundID, false)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, row := range rows {
		total += s.value(row)
	}
	return total, nil
}

// CumulativeScore sums RoundScore over the rounds the team can access
func (s *ScoreService) CumulativeScore(ctx context.Context, teamID string) (float64, error) {
	ledgers, err := s.ledgers(s.db.WithContext(ctx), []string{teamID})
	if err != nil {
		return 0, err
	}
	return ledgers[teamID].Total, nil
}

// Standing returns the totals used to resolve pair priority
func (s *ScoreService) Standing(ctx context.Context, teamID string) (TeamStanding, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadTeam(db, teamID); err != nil {
		return TeamStanding{}, err
	}
	standings, err := s.standings(db, teamID)
	if err != nil {
		return TeamStanding{}, err
	}
	return standings[teamID], nil
}

func (s *ScoreService) standings(tx *gorm.DB, teamIDs ...string) (map[string]TeamStanding, error) {
	ledgers, err := s.ledgers(tx, teamIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]TeamStanding, len(teamIDs))
	for _, id := range teamIDs {
		l := ledgers[id]
		out[id] = TeamStanding{
			TeamID:      id,
			Cumulative:  l.Total,
			AnchorRound: l.ByNumber[s.policy.PairAnchorRound],
		}
	}
	return out, nil
}

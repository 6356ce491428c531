package services

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"hackathon-api/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("hackathon-api/services")

// DualScoreCombiner folds the two criteria of a dual-score round into the single value counted in totals
type DualScoreCombiner func(secScore, facultyScore float64) float64

// core carries what every component needs
type core struct {
	db          *gorm.DB
	policy      config.RoundPolicy
	logger      *slog.Logger
	now         func() time.Time
	perm        func(n int) []int
	assignments AssignmentChecker
	combine     DualScoreCombiner
}

// Services groups the components of the progression engine around one datastore
type Services struct {
	Rounds      *RoundService
	Displays    *DisplayService
	Selections  *SelectionService
	Options     *OptionsService
	Pairs       *PairService
	Scores      *ScoreService
	Submissions *SubmissionService
	Teams       *TeamService
	Leaderboard *LeaderboardService

	now func() time.Time
}

// Now reads the clock the services run on
func (s *Services) Now() time.Time {
	return s.now()
}

type Option func(*core)

// WithLogger replaces slog.Default
func WithLogger(l *slog.Logger) Option {
	return func(c *core) { c.logger = l }
}

// WithClock replaces time.Now, used by tests to pin round windows
func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// WithPermutation replaces rand.Perm when picking displayed subtasks
func WithPermutation(perm func(n int) []int) Option {
	return func(c *core) { c.perm = perm }
}

// WithAssignmentChecker replaces the judge_assignments lookup
func WithAssignmentChecker(a AssignmentChecker) Option {
	return func(c *core) { c.assignments = a }
}

// WithDualScoreCombiner sets how dual-score rounds count in totals. Without one they count 0.
func WithDualScoreCombiner(f DualScoreCombiner) Option {
	return func(c *core) { c.combine = f }
}

func New(db *gorm.DB, policy config.RoundPolicy, opts ...Option) *Services {
	c := &core{
		db:     db,
		policy: policy,
		logger: slog.Default(),
		now:    time.Now,
		perm:   rand.Perm,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.assignments == nil {
		c.assignments = &DBAssignments{DB: db}
	}

	scores := &ScoreService{core: c}
	return &Services{
		Rounds:      &RoundService{core: c},
		Displays:    &DisplayService{core: c},
		Selections:  &SelectionService{core: c},
		Options:     &OptionsService{core: c},
		Pairs:       &PairService{core: c, scores: scores},
		Scores:      scores,
		Submissions: &SubmissionService{core: c, scores: scores},
		Teams:       &TeamService{core: c, scores: scores},
		Leaderboard: &LeaderboardService{core: c, scores: scores},
		now:         c.now,
	}
}

// startSpan opens a span for an engine operation
func startSpan(ctx context.Context, name string, attrs ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, attrs...)
}

// endSpan records err on span before ending it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

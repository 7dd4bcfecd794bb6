package match

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/profile"
	"github.com/spigell/jobmatch/internal/scoring"
)

// Store is the slice of storage the engine consumes. The engine depends on
// this interface only, never on a concrete database.
type Store interface {
	GetCV(ctx context.Context, id string) (*profile.CVProfile, error)
	GetJob(ctx context.Context, id string) (*profile.JobPosting, error)
	SaveMatchResult(ctx context.Context, result *MatchResult) (string, error)
	GetMatchResult(ctx context.Context, id string) (*MatchResult, error)
}

// Service is the engine facade the CLI and any future front end talk to.
type Service struct {
	cfg     *Config
	store   Store
	history *history.Aggregator

	qualification *scoring.QualificationScorer
	competition   *scoring.CompetitionScorer
	strategic     *scoring.StrategicScorer

	logger *zap.Logger
	now    func() time.Time
}

// NewService validates the policy and wires the three scorers. The strategic
// scorer reads outcome statistics through the history aggregator, by value.
func NewService(cfg *Config, store Store, hist *history.Aggregator, logger *zap.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	strategic := &scoring.StrategicScorer{}
	if hist != nil {
		strategic.Stats = hist
	}

	return &Service{
		cfg:     cfg,
		store:   store,
		history: hist,
		qualification: &scoring.QualificationScorer{
			ExperienceWeight: cfg.ExperienceWeight,
		},
		competition: &scoring.CompetitionScorer{
			FreshnessWindowDays: cfg.FreshnessWindowDays,
		},
		strategic: strategic,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Score evaluates a stored CV against a stored job posting and persists the
// result. Apart from the timestamp the result is a pure function of the two
// records and the policy.
func (s *Service) Score(ctx context.Context, cvID, jobID string) (*MatchResult, error) {
	cv, err := s.store.GetCV(ctx, cvID)
	if err != nil {
		return nil, fmt.Errorf("get cv: %w", err)
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	result := &MatchResult{
		CVID:      cvID,
		JobID:     jobID,
		CreatedAt: s.now().UTC(),
	}

	for _, scorer := range []scoring.Scorer{s.qualification, s.competition, s.strategic} {
		sub, err := scorer.Score(cv, job)
		if err != nil {
			return nil, fmt.Errorf("%s scorer: %w", scorer.Kind(), err)
		}

		s.logger.Info("sub-score computed",
			zap.String("kind", string(sub.Kind)),
			zap.Float64("value", sub.Value),
			zap.Int("rationale_lines", len(sub.Rationale)),
		)

		for _, line := range sub.Rationale {
			result.Rationale = append(result.Rationale, fmt.Sprintf("%s: %s", sub.Kind, line))
		}

		switch sub.Kind {
		case scoring.KindQualification:
			result.QualificationScore = sub.Value
			result.KeyMatches = sub.Matched
			result.Gaps = sub.Missing
		case scoring.KindCompetition:
			result.CompetitionScore = sub.Value
		case scoring.KindStrategic:
			result.StrategicScore = sub.Value
		}
	}

	q := &scoring.SubScore{Kind: scoring.KindQualification, Value: result.QualificationScore}
	c := &scoring.SubScore{Kind: scoring.KindCompetition, Value: result.CompetitionScore}
	st := &scoring.SubScore{Kind: scoring.KindStrategic, Value: result.StrategicScore}

	final, err := Combine(s.cfg, q, c, st)
	if err != nil {
		return nil, err
	}
	result.FinalScore = final
	result.Recommendation = Recommend(s.cfg, final)
	result.Confidence = Confidence(result.QualificationScore, result.CompetitionScore, result.StrategicScore)

	id, err := s.store.SaveMatchResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("save match result: %w", err)
	}
	result.ID = id

	s.logger.Info("match scored",
		zap.String("match_result_id", result.ID),
		zap.String("cv_id", cvID),
		zap.String("job_id", jobID),
		zap.Float64("final_score", result.FinalScore),
		zap.String("recommendation", string(result.Recommendation)),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

// RecordOutcome updates the application record derived from a match result.
func (s *Service) RecordOutcome(ctx context.Context, matchResultID string, outcome history.Outcome) (*history.ApplicationRecord, error) {
	result, err := s.store.GetMatchResult(ctx, matchResultID)
	if err != nil {
		return nil, fmt.Errorf("get match result: %w", err)
	}
	job, err := s.store.GetJob(ctx, result.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	seed := &history.ApplicationRecord{
		MatchResultID:  result.ID,
		CVID:           result.CVID,
		JobID:          result.JobID,
		Seniority:      job.EffectiveSeniority(),
		Domain:         job.Domain,
		FinalScore:     result.FinalScore,
		Recommendation: string(result.Recommendation),
	}

	return s.history.RecordOutcome(ctx, seed, outcome)
}

// StatsFor returns the historical success rate for a (seniority, domain)
// bucket.
func (s *Service) StatsFor(ctx context.Context, seniority profile.Seniority, domain string) (*history.HistoricalStats, error) {
	return s.history.StatsFor(ctx, seniority, domain)
}

// OverallTrends returns the dashboard aggregation over all recorded
// applications.
func (s *Service) OverallTrends(ctx context.Context) (*history.TrendSummary, error) {
	return s.history.OverallTrends(ctx)
}

package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/profile"
)

// neutralSuccessRate is reported for empty buckets so downstream consumers
// never divide by zero or bias toward an extreme.
const neutralSuccessRate = 0.5

// Filter narrows a record listing.
type Filter struct {
	Seniority profile.Seniority
	Domain    string
	CVID      string
}

// RecordStore is the slice of storage the aggregator needs. Records are
// append-or-update only; past match results are never touched.
type RecordStore interface {
	GetApplicationRecordByMatch(ctx context.Context, matchResultID string) (*ApplicationRecord, error)
	SaveApplicationRecord(ctx context.Context, record *ApplicationRecord) (string, error)
	ListApplicationRecords(ctx context.Context, filter Filter) ([]*ApplicationRecord, error)
}

// HistoricalStats is the derived success-rate aggregate for one
// (seniority, domain) bucket. Always recomputed from records, never stored.
type HistoricalStats struct {
	Seniority   profile.Seniority `json:"seniority,omitempty"`
	Domain      string            `json:"domain,omitempty"`
	SampleCount int               `json:"sample_count"`
	Successes   int               `json:"successes"`
	SuccessRate float64           `json:"success_rate"`
}

// TrendBucket is one month of application activity.
type TrendBucket struct {
	Month        string  `json:"month"`
	Applications int     `json:"applications"`
	Successes    int     `json:"successes"`
	SuccessRate  float64 `json:"success_rate"`
}

// TrendSummary is the dashboard-facing aggregation over all records.
type TrendSummary struct {
	TotalRecords      int            `json:"total_records"`
	Buckets           []TrendBucket  `json:"buckets"`
	ScoreDistribution map[string]int `json:"score_distribution"`
	Recommendations   map[string]int `json:"recommendations"`
	ResponseRate      float64        `json:"response_rate"`
	InterviewRate     float64        `json:"interview_rate"`
}

// Aggregator answers analytics queries and records outcome updates.
type Aggregator struct {
	store  RecordStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAggregator(store RecordStore, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: store, logger: logger, now: time.Now}
}

// RecordOutcome creates the application record for a match result on first
// call and advances its outcome on subsequent calls. The forward-only
// invariant is enforced by ApplyOutcome.
func (a *Aggregator) RecordOutcome(ctx context.Context, seed *ApplicationRecord, outcome Outcome) (*ApplicationRecord, error) {
	if seed == nil || seed.MatchResultID == "" {
		return nil, &apperrors.ValidationError{Field: "match_result_id", Reason: "match result reference is required"}
	}

	record, err := a.store.GetApplicationRecordByMatch(ctx, seed.MatchResultID)
	switch {
	case apperrors.IsNotFound(err):
		record = seed
		record.Applied = true
		record.AppliedAt = a.now().UTC()
		record.Outcome = OutcomePending
	case err != nil:
		return nil, fmt.Errorf("get application record: %w", err)
	}

	// A pending request keeps a pending record as-is; asking a settled
	// record to go back to pending is a reset and must fail.
	if outcome == OutcomePending {
		if record.Outcome != OutcomePending {
			return nil, &apperrors.ValidationError{
				Field:  "outcome",
				Reason: fmt.Sprintf("illegal transition %s -> %s: record is already settled", record.Outcome, outcome),
			}
		}
	} else if err := record.ApplyOutcome(outcome, a.now().UTC()); err != nil {
		return nil, err
	}

	id, err := a.store.SaveApplicationRecord(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("save application record: %w", err)
	}
	record.ID = id

	a.logger.Info("application outcome recorded",
		zap.String("match_result_id", record.MatchResultID),
		zap.String("outcome", string(record.Outcome)),
	)

	return record, nil
}

// StatsFor computes the success rate for a (seniority, domain) bucket. An
// empty bucket yields a zero-sample result with a neutral rate, not an error.
func (a *Aggregator) StatsFor(ctx context.Context, seniority profile.Seniority, domain string) (*HistoricalStats, error) {
	records, err := a.store.ListApplicationRecords(ctx, Filter{Seniority: seniority, Domain: domain})
	if err != nil {
		return nil, fmt.Errorf("list application records: %w", err)
	}

	stats := &HistoricalStats{Seniority: seniority, Domain: domain}
	for _, record := range records {
		if !record.Applied {
			continue
		}
		stats.SampleCount++
		if record.Outcome.Success() {
			stats.Successes++
		}
	}

	if stats.SampleCount == 0 {
		stats.SuccessRate = neutralSuccessRate
		return stats, nil
	}

	stats.SuccessRate = float64(stats.Successes) / float64(stats.SampleCount)
	return stats, nil
}

// OverallTrends recomputes the dashboard summary from the full record set.
// No incremental caching: staleness is worse than the recompute cost at
// human-paced application volumes.
func (a *Aggregator) OverallTrends(ctx context.Context) (*TrendSummary, error) {
	records, err := a.store.ListApplicationRecords(ctx, Filter{})
	if err != nil {
		return nil, fmt.Errorf("list application records: %w", err)
	}

	summary := &TrendSummary{
		TotalRecords:      len(records),
		ScoreDistribution: map[string]int{"0-25": 0, "25-50": 0, "50-75": 0, "75-100": 0},
		Recommendations:   map[string]int{},
	}

	months := make(map[string]*TrendBucket)
	applied, responses, interviews := 0, 0, 0

	for _, record := range records {
		summary.ScoreDistribution[scoreBand(record.FinalScore)]++
		if record.Recommendation != "" {
			summary.Recommendations[record.Recommendation]++
		}

		if !record.Applied {
			continue
		}
		applied++
		if record.Outcome.Terminal() && record.Outcome != OutcomeNoResponse {
			responses++
		}
		if record.Outcome.Success() {
			interviews++
		}

		month := record.AppliedAt.UTC().Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = &TrendBucket{Month: month}
			months[month] = bucket
		}
		bucket.Applications++
		if record.Outcome.Success() {
			bucket.Successes++
		}
	}

	for _, bucket := range months {
		bucket.SuccessRate = float64(bucket.Successes) / float64(bucket.Applications)
		summary.Buckets = append(summary.Buckets, *bucket)
	}
	sort.Slice(summary.Buckets, func(i, j int) bool {
		return summary.Buckets[i].Month < summary.Buckets[j].Month
	})

	if applied > 0 {
		summary.ResponseRate = float64(responses) / float64(applied)
		summary.InterviewRate = float64(interviews) / float64(applied)
	}

	return summary, nil
}

func scoreBand(score float64) string {
	switch {
	case score < 25:
		return "0-25"
	case score < 50:
		return "25-50"
	case score < 75:
		return "50-75"
	default:
		return "75-100"
	}
}

package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/profile"
)

// Strategic blend shares.
const (
	growthShare  = 0.4
	domainShare  = 0.3
	historyShare = 0.3
)

// neutralHistoryScore stands in when no outcome history exists for the
// (seniority, domain) bucket.
const neutralHistoryScore = 50.0

// StatsProvider supplies a by-value snapshot of historical outcome
// statistics. Analytics never calls back into scoring.
type StatsProvider interface {
	StatsFor(ctx context.Context, seniority profile.Seniority, domain string) (*history.HistoricalStats, error)
}

// StrategicScorer blends career growth, domain fit and the historical
// success rate for similar applications.
type StrategicScorer struct {
	Stats StatsProvider
}

func (s *StrategicScorer) Kind() Kind { return KindStrategic }

func (s *StrategicScorer) Score(cv *profile.CVProfile, job *profile.JobPosting) (*SubScore, error) {
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	result := &SubScore{Kind: KindStrategic}

	growth := growthScore(cv.HighestSeniority(), job.EffectiveSeniority(), result)
	domain := domainFitScore(cv.DominantDomain(), job.Domain, result)
	hist, err := s.historyScore(job, result)
	if err != nil {
		return nil, err
	}

	result.Value = clamp(growth*growthShare+domain*domainShare+hist*historyShare, 0, 100)
	return result, nil
}

// growthScore rewards a one-level promotion the most, tolerates lateral
// moves and stretch jumps, and discounts regressions by their depth.
func growthScore(current, target profile.Seniority, result *SubScore) float64 {
	if !current.Known() || !target.Known() {
		result.Rationale = append(result.Rationale, "career growth unknown, neutral term used")
		return 60
	}

	diff := target.Rank() - current.Rank()
	var score float64
	switch {
	case diff == 1:
		score = 90
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("promotion from %s to %s", current, target))
	case diff == 0:
		score = 75
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("lateral move at %s level", target))
	case diff >= 2:
		score = 60
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("stretch jump of %d levels from %s to %s", diff, current, target))
	case diff == -1:
		score = 50
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("step down from %s to %s", current, target))
	default:
		score = 30
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("regression of %d levels from %s to %s", -diff, current, target))
	}
	return score
}

func domainFitScore(cvDomain, jobDomain string, result *SubScore) float64 {
	cvDomain = strings.ToLower(strings.TrimSpace(cvDomain))
	jobDomain = strings.ToLower(strings.TrimSpace(jobDomain))

	switch {
	case cvDomain == "" || jobDomain == "":
		result.Rationale = append(result.Rationale, "domain fit unknown, neutral term used")
		return 60
	case cvDomain == jobDomain:
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("dominant domain %q matches the posting", jobDomain))
		return 100
	case strings.Contains(cvDomain, jobDomain) || strings.Contains(jobDomain, cvDomain):
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("dominant domain %q is adjacent to %q", cvDomain, jobDomain))
		return 80
	default:
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("dominant domain %q differs from %q", cvDomain, jobDomain))
		return 40
	}
}

func (s *StrategicScorer) historyScore(job *profile.JobPosting, result *SubScore) (float64, error) {
	if s.Stats == nil {
		result.Rationale = append(result.Rationale, "no outcome history source configured, neutral term used")
		return neutralHistoryScore, nil
	}

	stats, err := s.Stats.StatsFor(context.Background(), job.EffectiveSeniority(), job.Domain)
	if err != nil {
		return 0, fmt.Errorf("historical stats: %w", err)
	}

	if stats.SampleCount == 0 {
		result.Rationale = append(result.Rationale,
			"no outcome history for this seniority/domain bucket, neutral term used")
		return neutralHistoryScore, nil
	}

	result.Rationale = append(result.Rationale,
		fmt.Sprintf("historical success rate %.0f%% over %d applications", stats.SuccessRate*100, stats.SampleCount))
	return stats.SuccessRate * 100, nil
}

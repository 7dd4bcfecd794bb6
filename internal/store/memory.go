package store

import (
	"context"
	"sort"
	"sync"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/match"
	"github.com/spigell/jobmatch/internal/profile"
)

// Memory keeps all records in process memory. It backs tests and ad-hoc runs
// where persistence across invocations does not matter.
type Memory struct {
	mu      sync.RWMutex
	cvs     map[string]profile.CVProfile
	jobs    map[string]profile.JobPosting
	results map[string]match.MatchResult
	records map[string]history.ApplicationRecord
}

func NewMemory() *Memory {
	return &Memory{
		cvs:     make(map[string]profile.CVProfile),
		jobs:    make(map[string]profile.JobPosting),
		results: make(map[string]match.MatchResult),
		records: make(map[string]history.ApplicationRecord),
	}
}

func (m *Memory) SaveCV(_ context.Context, cv *profile.CVProfile) (string, error) {
	if err := cv.Validate(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cv.ID == "" {
		cv.ID = newID("cv")
	}
	m.cvs[cv.ID] = *cv
	return cv.ID, nil
}

func (m *Memory) GetCV(_ context.Context, id string) (*profile.CVProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cv, ok := m.cvs[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "cv", ID: id}
	}
	return &cv, nil
}

func (m *Memory) ListCVs(_ context.Context) ([]*profile.CVProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*profile.CVProfile, 0, len(m.cvs))
	for id := range m.cvs {
		cv := m.cvs[id]
		out = append(out, &cv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveJob(_ context.Context, job *profile.JobPosting) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if job.ID == "" {
		job.ID = newID("job")
	}
	m.jobs[job.ID] = *job
	return job.ID, nil
}

func (m *Memory) GetJob(_ context.Context, id string) (*profile.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "job", ID: id}
	}
	return &job, nil
}

func (m *Memory) SaveMatchResult(_ context.Context, result *match.MatchResult) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if result.ID == "" {
		result.ID = newID("match")
	}
	m.results[result.ID] = *result
	return result.ID, nil
}

func (m *Memory) GetMatchResult(_ context.Context, id string) (*match.MatchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "match_result", ID: id}
	}
	return &result, nil
}

// AnalysesByCV returns all persisted match results for one CV, newest first.
func (m *Memory) AnalysesByCV(_ context.Context, cvID string) ([]*match.MatchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*match.MatchResult
	for id := range m.results {
		result := m.results[id]
		if result.CVID == cvID {
			out = append(out, &result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetApplicationRecordByMatch(_ context.Context, matchResultID string) (*history.ApplicationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id := range m.records {
		record := m.records[id]
		if record.MatchResultID == matchResultID {
			return &record, nil
		}
	}
	return nil, &apperrors.NotFoundError{Resource: "application_record", ID: matchResultID}
}

func (m *Memory) SaveApplicationRecord(_ context.Context, record *history.ApplicationRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = newID("app")
	}
	m.records[record.ID] = *record
	return record.ID, nil
}

func (m *Memory) ListApplicationRecords(_ context.Context, filter history.Filter) ([]*history.ApplicationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*history.ApplicationRecord
	for id := range m.records {
		record := m.records[id]
		if filter.Seniority != "" && record.Seniority != filter.Seniority {
			continue
		}
		if filter.Domain != "" && record.Domain != filter.Domain {
			continue
		}
		if filter.CVID != "" && record.CVID != filter.CVID {
			continue
		}
		out = append(out, &record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

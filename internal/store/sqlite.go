package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/jobmatch/internal/apperrors"
	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/match"
	"github.com/spigell/jobmatch/internal/profile"
)

// SQLite persists all records in a single database file. Structured fields
// (skills, rationale and the like) are stored as JSON text columns,
// timestamps as RFC 3339 text.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// The special path ":memory:" keeps the database in process memory.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cvs (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			skills     TEXT NOT NULL,
			experience TEXT NOT NULL,
			education  TEXT,
			summary    TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS jobs (
			id               TEXT PRIMARY KEY,
			url              TEXT,
			title            TEXT NOT NULL,
			company          TEXT,
			seniority        TEXT,
			domain           TEXT,
			required_skills  TEXT NOT NULL,
			required_years   REAL NOT NULL DEFAULT 0,
			posting_age_days INTEGER NOT NULL DEFAULT 0,
			applicant_count  INTEGER,
			summary          TEXT,
			created_at       TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS match_results (
			id                  TEXT PRIMARY KEY,
			cv_id               TEXT NOT NULL,
			job_id              TEXT NOT NULL,
			qualification_score REAL NOT NULL,
			competition_score   REAL NOT NULL,
			strategic_score     REAL NOT NULL,
			final_score         REAL NOT NULL,
			recommendation      TEXT NOT NULL,
			confidence          REAL NOT NULL,
			key_matches         TEXT,
			gaps                TEXT,
			rationale           TEXT,
			created_at          TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS application_records (
			id              TEXT PRIMARY KEY,
			match_result_id TEXT NOT NULL UNIQUE,
			cv_id           TEXT NOT NULL,
			job_id          TEXT NOT NULL,
			seniority       TEXT,
			domain          TEXT,
			final_score     REAL NOT NULL,
			recommendation  TEXT,
			applied         INTEGER NOT NULL,
			applied_at      TEXT,
			outcome         TEXT NOT NULL,
			outcome_at      TEXT
		);
	`)
	return err
}

func marshalColumn(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal column: %w", err)
	}
	return string(raw), nil
}

func unmarshalColumn(raw sql.NullString, v any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), v); err != nil {
		return fmt.Errorf("unmarshal column: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw sql.NullString) (time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw.String, err)
	}
	return t, nil
}

func (s *SQLite) SaveCV(ctx context.Context, cv *profile.CVProfile) (string, error) {
	if err := cv.Validate(); err != nil {
		return "", err
	}
	if cv.ID == "" {
		cv.ID = newID("cv")
	}
	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = time.Now().UTC()
	}

	skills, err := marshalColumn(cv.Skills)
	if err != nil {
		return "", err
	}
	experience, err := marshalColumn(cv.Experience)
	if err != nil {
		return "", err
	}
	education, err := marshalColumn(cv.Education)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cvs (id, name, skills, experience, education, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cv.ID, cv.Name, skills, experience, education, cv.Summary, formatTime(cv.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert cv: %w", err)
	}
	return cv.ID, nil
}

func (s *SQLite) GetCV(ctx context.Context, id string) (*profile.CVProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, skills, experience, education, summary, created_at FROM cvs WHERE id = ?`, id)

	cv, err := scanCV(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperrors.NotFoundError{Resource: "cv", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get cv: %w", err)
	}
	return cv, nil
}

func (s *SQLite) ListCVs(ctx context.Context) ([]*profile.CVProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, skills, experience, education, summary, created_at FROM cvs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	defer rows.Close()

	var out []*profile.CVProfile
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, fmt.Errorf("list cvs: %w", err)
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCV(row rowScanner) (*profile.CVProfile, error) {
	var cv profile.CVProfile
	var skills, experience, education, summary, createdAt sql.NullString

	if err := row.Scan(&cv.ID, &cv.Name, &skills, &experience, &education, &summary, &createdAt); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(skills, &cv.Skills); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(experience, &cv.Experience); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(education, &cv.Education); err != nil {
		return nil, err
	}
	cv.Summary = summary.String

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	cv.CreatedAt = created
	return &cv, nil
}

func (s *SQLite) SaveJob(ctx context.Context, job *profile.JobPosting) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}
	if job.ID == "" {
		job.ID = newID("job")
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	skills, err := marshalColumn(job.RequiredSkills)
	if err != nil {
		return "", err
	}

	var applicants any
	if job.ApplicantCount != nil {
		applicants = *job.ApplicantCount
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO jobs
		 (id, url, title, company, seniority, domain, required_skills, required_years,
		  posting_age_days, applicant_count, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.URL, job.Title, job.Company, string(job.Seniority), job.Domain,
		skills, job.RequiredYears, job.PostingAgeDays, applicants, job.Summary,
		formatTime(job.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}
	return job.ID, nil
}

func (s *SQLite) GetJob(ctx context.Context, id string) (*profile.JobPosting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, title, company, seniority, domain, required_skills, required_years,
		        posting_age_days, applicant_count, summary, created_at
		 FROM jobs WHERE id = ?`, id)

	var job profile.JobPosting
	var url, company, seniority, domain, skills, summary, createdAt sql.NullString
	var applicants sql.NullInt64

	err := row.Scan(&job.ID, &url, &job.Title, &company, &seniority, &domain, &skills,
		&job.RequiredYears, &job.PostingAgeDays, &applicants, &summary, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperrors.NotFoundError{Resource: "job", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	job.URL = url.String
	job.Company = company.String
	job.Seniority = profile.Seniority(seniority.String)
	job.Domain = domain.String
	job.Summary = summary.String
	if applicants.Valid {
		count := int(applicants.Int64)
		job.ApplicantCount = &count
	}
	if err := unmarshalColumn(skills, &job.RequiredSkills); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job.CreatedAt = created
	return &job, nil
}

func (s *SQLite) SaveMatchResult(ctx context.Context, result *match.MatchResult) (string, error) {
	if result.ID == "" {
		result.ID = newID("match")
	}

	keyMatches, err := marshalColumn(result.KeyMatches)
	if err != nil {
		return "", err
	}
	gaps, err := marshalColumn(result.Gaps)
	if err != nil {
		return "", err
	}
	rationale, err := marshalColumn(result.Rationale)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO match_results
		 (id, cv_id, job_id, qualification_score, competition_score, strategic_score,
		  final_score, recommendation, confidence, key_matches, gaps, rationale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.CVID, result.JobID,
		result.QualificationScore, result.CompetitionScore, result.StrategicScore,
		result.FinalScore, string(result.Recommendation), result.Confidence,
		keyMatches, gaps, rationale, formatTime(result.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert match result: %w", err)
	}
	return result.ID, nil
}

func (s *SQLite) GetMatchResult(ctx context.Context, id string) (*match.MatchResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, cv_id, job_id, qualification_score, competition_score, strategic_score,
		        final_score, recommendation, confidence, key_matches, gaps, rationale, created_at
		 FROM match_results WHERE id = ?`, id)

	result, err := scanMatchResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperrors.NotFoundError{Resource: "match_result", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get match result: %w", err)
	}
	return result, nil
}

// AnalysesByCV returns all persisted match results for one CV, newest first.
func (s *SQLite) AnalysesByCV(ctx context.Context, cvID string) ([]*match.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cv_id, job_id, qualification_score, competition_score, strategic_score,
		        final_score, recommendation, confidence, key_matches, gaps, rationale, created_at
		 FROM match_results WHERE cv_id = ? ORDER BY created_at DESC`, cvID)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*match.MatchResult
	for rows.Next() {
		result, err := scanMatchResult(rows)
		if err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

func scanMatchResult(row rowScanner) (*match.MatchResult, error) {
	var result match.MatchResult
	var recommendation string
	var keyMatches, gaps, rationale, createdAt sql.NullString

	if err := row.Scan(&result.ID, &result.CVID, &result.JobID,
		&result.QualificationScore, &result.CompetitionScore, &result.StrategicScore,
		&result.FinalScore, &recommendation, &result.Confidence,
		&keyMatches, &gaps, &rationale, &createdAt); err != nil {
		return nil, err
	}

	result.Recommendation = match.Recommendation(recommendation)
	if err := unmarshalColumn(keyMatches, &result.KeyMatches); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(gaps, &result.Gaps); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(rationale, &result.Rationale); err != nil {
		return nil, err
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	result.CreatedAt = created
	return &result, nil
}

func (s *SQLite) SaveApplicationRecord(ctx context.Context, record *history.ApplicationRecord) (string, error) {
	if record.ID == "" {
		record.ID = newID("app")
	}

	applied := 0
	if record.Applied {
		applied = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO application_records
		 (id, match_result_id, cv_id, job_id, seniority, domain, final_score,
		  recommendation, applied, applied_at, outcome, outcome_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.MatchResultID, record.CVID, record.JobID,
		string(record.Seniority), record.Domain, record.FinalScore,
		record.Recommendation, applied, formatTime(record.AppliedAt),
		string(record.Outcome), formatTime(record.OutcomeAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert application record: %w", err)
	}
	return record.ID, nil
}

func (s *SQLite) GetApplicationRecordByMatch(ctx context.Context, matchResultID string) (*history.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, match_result_id, cv_id, job_id, seniority, domain, final_score,
		        recommendation, applied, applied_at, outcome, outcome_at
		 FROM application_records WHERE match_result_id = ?`, matchResultID)

	record, err := scanApplicationRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperrors.NotFoundError{Resource: "application_record", ID: matchResultID}
	}
	if err != nil {
		return nil, fmt.Errorf("get application record: %w", err)
	}
	return record, nil
}

func (s *SQLite) ListApplicationRecords(ctx context.Context, filter history.Filter) ([]*history.ApplicationRecord, error) {
	query := `SELECT id, match_result_id, cv_id, job_id, seniority, domain, final_score,
	                 recommendation, applied, applied_at, outcome, outcome_at
	          FROM application_records WHERE 1=1`
	var args []any
	if filter.Seniority != "" {
		query += " AND seniority = ?"
		args = append(args, string(filter.Seniority))
	}
	if filter.Domain != "" {
		query += " AND domain = ?"
		args = append(args, filter.Domain)
	}
	if filter.CVID != "" {
		query += " AND cv_id = ?"
		args = append(args, filter.CVID)
	}
	query += " ORDER BY applied_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list application records: %w", err)
	}
	defer rows.Close()

	var out []*history.ApplicationRecord
	for rows.Next() {
		record, err := scanApplicationRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list application records: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanApplicationRecord(row rowScanner) (*history.ApplicationRecord, error) {
	var record history.ApplicationRecord
	var seniority, domain, recommendation, outcome sql.NullString
	var appliedAt, outcomeAt sql.NullString
	var applied int

	if err := row.Scan(&record.ID, &record.MatchResultID, &record.CVID, &record.JobID,
		&seniority, &domain, &record.FinalScore, &recommendation,
		&applied, &appliedAt, &outcome, &outcomeAt); err != nil {
		return nil, err
	}

	record.Seniority = profile.Seniority(seniority.String)
	record.Domain = domain.String
	record.Recommendation = recommendation.String
	record.Applied = applied != 0
	record.Outcome = history.Outcome(outcome.String)

	appliedTime, err := parseTime(appliedAt)
	if err != nil {
		return nil, err
	}
	record.AppliedAt = appliedTime

	outcomeTime, err := parseTime(outcomeAt)
	if err != nil {
		return nil, err
	}
	record.OutcomeAt = outcomeTime
	return &record, nil
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"petmatch_server/models"
)

//go:embed migrations/001_initial.sql
var initialMigration string

// SQLiteStore is the embedded single-node backend
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(initialMigration); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const candidateColumns = `id, name, description, species, size, age_class, sex,
	compatibility_tags, health_tags, special_conditions, photo_keys,
	adopted, hidden, owner_id, created_at`

// SaveCandidate inserts or replaces a candidate
func (s *SQLiteStore) SaveCandidate(ctx context.Context, c *models.Candidate) error {
	if c.ID == "" {
		return fmt.Errorf("candidate id is empty: %w", models.ErrInvalidArgument)
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			species = excluded.species,
			size = excluded.size,
			age_class = excluded.age_class,
			sex = excluded.sex,
			compatibility_tags = excluded.compatibility_tags,
			health_tags = excluded.health_tags,
			special_conditions = excluded.special_conditions,
			photo_keys = excluded.photo_keys,
			adopted = excluded.adopted,
			hidden = excluded.hidden,
			owner_id = excluded.owner_id
	`, c.ID, c.Name, c.Description, c.Species, c.Size, c.AgeClass, c.Sex,
		encodeList(c.CompatibilityTags), encodeList(c.HealthTags),
		encodeList(c.SpecialConditions), encodeList(c.PhotoKeys),
		c.Adopted, c.Hidden, c.OwnerID, formatTime(createdAt))
	if err != nil {
		return fmt.Errorf("failed to save candidate %s: %w", c.ID, err)
	}
	return nil
}

// SavePreference inserts or replaces a user's declared preferences
func (s *SQLiteStore) SavePreference(ctx context.Context, p *models.ExplicitPreference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, species, sizes, age_classes, sexes,
			compatibility_tags, health_tags, accepts_special_needs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			species = excluded.species,
			sizes = excluded.sizes,
			age_classes = excluded.age_classes,
			sexes = excluded.sexes,
			compatibility_tags = excluded.compatibility_tags,
			health_tags = excluded.health_tags,
			accepts_special_needs = excluded.accepts_special_needs
	`, p.UserID, encodeList(p.Species), encodeList(p.Sizes), encodeList(p.AgeClasses),
		encodeList(p.Sexes), encodeList(p.CompatibilityTags), encodeList(p.HealthTags),
		p.AcceptsSpecialNeeds)
	if err != nil {
		return fmt.Errorf("failed to save preferences for %s: %w", p.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) ListAvailableCandidates(ctx context.Context, exclude map[string]struct{}) ([]*models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		WHERE adopted = 0 AND hidden = 0
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertJudgment(ctx context.Context, j models.Judgment) (*models.Judgment, bool, error) {
	now := formatTime(j.JudgedAt)
	var (
		out                 models.Judgment
		judgedAt, createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO judgments (user_id, candidate_id, outcome, judged_at, created_at, revision)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(user_id, candidate_id) DO UPDATE SET
			outcome = excluded.outcome,
			judged_at = excluded.judged_at,
			revision = judgments.revision + 1
		RETURNING user_id, candidate_id, outcome, judged_at, created_at, revision
	`, j.UserID, j.CandidateID, j.Outcome, now, now).Scan(
		&out.UserID, &out.CandidateID, &out.Outcome, &judgedAt, &createdAt, &out.Revision)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert judgment: %w", err)
	}
	out.JudgedAt = parseTime(judgedAt)
	out.CreatedAt = parseTime(createdAt)
	return &out, out.Revision == 1, nil
}

func (s *SQLiteStore) ListJudgmentsByUser(ctx context.Context, userID string) ([]*models.Judgment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, candidate_id, outcome, judged_at, created_at, revision
		FROM judgments WHERE user_id = ?
		ORDER BY judged_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judgments: %w", err)
	}
	defer rows.Close()

	var out []*models.Judgment
	for rows.Next() {
		var (
			j                   models.Judgment
			judgedAt, createdAt string
		)
		if err := rows.Scan(&j.UserID, &j.CandidateID, &j.Outcome, &judgedAt, &createdAt, &j.Revision); err != nil {
			return nil, fmt.Errorf("failed to scan judgment: %w", err)
		}
		j.JudgedAt = parseTime(judgedAt)
		j.CreatedAt = parseTime(createdAt)
		out = append(out, &j)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountLikes(ctx context.Context, candidateIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	if len(candidateIDs) == 0 {
		return counts, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(candidateIDs)), ",")
	args := make([]interface{}, 0, len(candidateIDs)+1)
	args = append(args, models.OutcomeLike)
	for _, id := range candidateIDs {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) FROM judgments
		WHERE outcome = ? AND candidate_id IN (`+placeholders+`)
		GROUP BY candidate_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan like count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) GetExplicitPreference(ctx context.Context, userID string) (*models.ExplicitPreference, error) {
	var (
		p                                                     models.ExplicitPreference
		species, sizes, ages, sexes, compatibility, healthTag string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, species, sizes, age_classes, sexes, compatibility_tags, health_tags, accepts_special_needs
		FROM preferences WHERE user_id = ?
	`, userID).Scan(&p.UserID, &species, &sizes, &ages, &sexes, &compatibility, &healthTag, &p.AcceptsSpecialNeeds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences for %s: %w", userID, err)
	}
	p.Species = decodeList(species)
	p.Sizes = decodeList(sizes)
	p.AgeClasses = decodeList(ages)
	p.Sexes = decodeList(sexes)
	p.CompatibilityTags = decodeList(compatibility)
	p.HealthTags = decodeList(healthTag)
	return &p, nil
}

func (s *SQLiteStore) GetOrCreateChannel(ctx context.Context, ch models.MatchChannel) (*models.MatchChannel, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO channels (id, candidate_id, user_id, counterpart_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(candidate_id, user_id) DO NOTHING
	`, ch.ID, ch.CandidateID, ch.UserID, ch.CounterpartID, ch.Active, formatTime(ch.CreatedAt))
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert channel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return &ch, true, nil
	}

	var (
		existing  models.MatchChannel
		createdAt string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, user_id, counterpart_id, active, created_at
		FROM channels WHERE candidate_id = ? AND user_id = ?
	`, ch.CandidateID, ch.UserID).Scan(&existing.ID, &existing.CandidateID, &existing.UserID,
		&existing.CounterpartID, &existing.Active, &createdAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read existing channel: %w", err)
	}
	existing.CreatedAt = parseTime(createdAt)
	return &existing, false, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c                                      models.Candidate
		compat, health, special, photos, since string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Species, &c.Size, &c.AgeClass, &c.Sex,
		&compat, &health, &special, &photos, &c.Adopted, &c.Hidden, &c.OwnerID, &since)
	if err != nil {
		return nil, err
	}
	c.CompatibilityTags = decodeList(compat)
	c.HealthTags = decodeList(health)
	c.SpecialConditions = decodeList(special)
	c.PhotoKeys = decodeList(photos)
	c.CreatedAt = parseTime(since)
	return &c, nil
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

func decodeList(s string) []string {
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil || len(values) == 0 {
		return nil
	}
	return values
}

// fixed width so text comparison orders chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

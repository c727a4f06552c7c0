package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"
	"onlinefdr/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL. The full
// artifact is stored as JSONB next to a few indexed columns for listing.
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun saves a screening run, replacing any previous run with the same ID
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, artifact *stream.RunArtifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return errors.Wrap(err, "failed to encode run payload")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO screening_runs (
			id, kind, num_tests, rejections, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			num_tests = EXCLUDED.num_tests,
			rejections = EXCLUDED.rejections,
			payload = EXCLUDED.payload`,
		artifact.ID, artifact.Kind, artifact.NumTests,
		artifact.Summary.Rejections, payload, artifact.CreatedAt.Time())
	if err != nil {
		return errors.DatabaseError("failed to save run", err)
	}
	return nil
}

// GetRun retrieves a screening run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*stream.RunArtifact, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM screening_runs WHERE id = $1
	`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("run")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load run", err)
	}

	var artifact stream.RunArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, errors.Wrap(err, "failed to decode run payload")
	}
	return &artifact, nil
}

// ListRuns returns screening runs newest first, optionally limited
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*stream.RunArtifact, error) {
	query := `SELECT payload FROM screening_runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	defer rows.Close()

	var artifacts []*stream.RunArtifact
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.DatabaseError("failed to scan run row", err)
		}
		var artifact stream.RunArtifact
		if err := json.Unmarshal(payload, &artifact); err != nil {
			return nil, errors.Wrap(err, "failed to decode run payload")
		}
		artifacts = append(artifacts, &artifact)
	}
	return artifacts, rows.Err()
}

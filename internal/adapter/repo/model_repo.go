package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// ModelRepositoryPG implements domain.ModelRepository backed by PostgreSQL.
type ModelRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewModelRepository creates a new model repository backed by PostgreSQL.
func NewModelRepository(pool *pgxpool.Pool) *ModelRepositoryPG {
	return &ModelRepositoryPG{pool: pool}
}

const modelColumns = `external_id, name, provider, provider_color, description, category, capabilities, badge, sort_order, is_active, input_schema, last_synced_at, created_at, updated_at`

// Create inserts a new catalog entry. A duplicate external id maps to
// domain.ErrDuplicate.
func (r *ModelRepositoryPG) Create(ctx context.Context, m *domain.Model) error {
	schema, err := json.Marshal(m.InputSchema)
	if err != nil {
		return fmt.Errorf("encode input schema: %w", err)
	}

	query := `
INSERT INTO models (external_id, name, provider, provider_color, description, category, capabilities, badge, sort_order, is_active, input_schema, last_synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err = r.pool.Exec(ctx, query,
		m.ExternalID,
		m.Name,
		m.Provider,
		m.ProviderColor,
		m.Description,
		m.Category,
		m.Capabilities,
		m.Badge,
		m.SortOrder,
		m.IsActive,
		schema,
		m.LastSyncedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicate
	}
	return err
}

// Upsert inserts the entry or, when the external id already exists, updates
// everything except the creation timestamp.
func (r *ModelRepositoryPG) Upsert(ctx context.Context, m *domain.Model) error {
	schema, err := json.Marshal(m.InputSchema)
	if err != nil {
		return fmt.Errorf("encode input schema: %w", err)
	}

	query := `
INSERT INTO models (external_id, name, provider, provider_color, description, category, capabilities, badge, sort_order, is_active, input_schema, last_synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (external_id) DO UPDATE
SET name = EXCLUDED.name,
    provider = EXCLUDED.provider,
    provider_color = EXCLUDED.provider_color,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    capabilities = EXCLUDED.capabilities,
    badge = EXCLUDED.badge,
    sort_order = EXCLUDED.sort_order,
    is_active = EXCLUDED.is_active,
    input_schema = EXCLUDED.input_schema,
    last_synced_at = EXCLUDED.last_synced_at,
    updated_at = NOW();
`
	_, err = r.pool.Exec(ctx, query,
		m.ExternalID,
		m.Name,
		m.Provider,
		m.ProviderColor,
		m.Description,
		m.Category,
		m.Capabilities,
		m.Badge,
		m.SortOrder,
		m.IsActive,
		schema,
		m.LastSyncedAt,
	)
	return err
}

// GetByExternalID fetches one catalog entry.
func (r *ModelRepositoryPG) GetByExternalID(ctx context.Context, externalID string) (*domain.Model, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE external_id = $1`, externalID)
	return scanModel(row)
}

// List returns catalog entries matching the filter, stable by sort order
// then name.
func (r *ModelRepositoryPG) List(ctx context.Context, f domain.ModelFilter) ([]domain.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE 1=1`
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY sort_order ASC, name ASC;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// SetActive toggles availability without touching anything else.
func (r *ModelRepositoryPG) SetActive(ctx context.Context, externalID string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE models SET is_active = $2, updated_at = NOW() WHERE external_id = $1`, externalID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a catalog entry.
func (r *ModelRepositoryPG) Delete(ctx context.Context, externalID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM models WHERE external_id = $1`, externalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanModel(row pgx.Row) (*domain.Model, error) {
	var (
		m      domain.Model
		schema []byte
	)
	if err := row.Scan(
		&m.ExternalID,
		&m.Name,
		&m.Provider,
		&m.ProviderColor,
		&m.Description,
		&m.Category,
		&m.Capabilities,
		&m.Badge,
		&m.SortOrder,
		&m.IsActive,
		&schema,
		&m.LastSyncedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &m.InputSchema); err != nil {
			return nil, fmt.Errorf("decode input schema for %s: %w", m.ExternalID, err)
		}
	} else {
		m.InputSchema = domain.EmptyInputSchema()
	}
	return &m, nil
}

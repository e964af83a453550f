package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radoslav1992/creative-studio/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository backed by
// PostgreSQL.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new generation repository backed by
// PostgreSQL.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

const generationColumns = `id, owner_id, model_id, model_name, prompt, category, status, provider_job_id, output_json, error_message, created_at, updated_at`

// Create inserts a new generation record.
func (r *GenerationRepositoryPG) Create(ctx context.Context, g *domain.Generation) error {
	query := `
INSERT INTO generations (id, owner_id, model_id, model_name, prompt, category, status, provider_job_id, output_json, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		g.ID,
		g.OwnerID,
		g.ModelID,
		g.ModelName,
		g.Prompt,
		g.Category,
		g.Status,
		g.ProviderJobID,
		nullableBytes(g.Output),
		g.ErrorMessage,
	)
	return err
}

// GetForOwner fetches a generation, scoped to its owner.
func (r *GenerationRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.Generation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+generationColumns+` FROM generations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanGeneration(row)
}

// ListByOwner returns a page of the owner's generations, newest first, plus
// the unpaged total.
func (r *GenerationRepositoryPG) ListByOwner(ctx context.Context, ownerID string, f domain.GenerationFilter) ([]domain.Generation, int, error) {
	countQuery := `SELECT COUNT(*) FROM generations WHERE owner_id = $1`
	listQuery := `SELECT ` + generationColumns + ` FROM generations WHERE owner_id = $1`
	args := []any{ownerID}
	if f.Category != "" {
		args = append(args, f.Category)
		cond := fmt.Sprintf(" AND category = $%d", len(args))
		countQuery += cond
		listQuery += cond
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		listQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		listQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var generations []domain.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, err
		}
		generations = append(generations, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return generations, total, nil
}

// SetProviderJob records the provider job id and advances the status in one
// write.
func (r *GenerationRepositoryPG) SetProviderJob(ctx context.Context, id, providerJobID string, status domain.GenerationStatus) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE generations
SET provider_job_id = $2,
    status = $3,
    updated_at = NOW()
WHERE id = $1;
`, id, providerJobID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus advances the status, keeping the stored error and output when
// the caller passes nil.
func (r *GenerationRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.GenerationStatus, errMsg *string, output []byte) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE generations
SET status = $2,
    updated_at = NOW(),
    error_message = COALESCE($3, error_message),
    output_json = COALESCE($4, output_json)
WHERE id = $1;
`, id, status, errMsg, nullableBytes(output))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a generation, scoped to its owner.
func (r *GenerationRepositoryPG) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM generations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var (
		g      domain.Generation
		output []byte
	)
	if err := row.Scan(
		&g.ID,
		&g.OwnerID,
		&g.ModelID,
		&g.ModelName,
		&g.Prompt,
		&g.Category,
		&g.Status,
		&g.ProviderJobID,
		&output,
		&g.ErrorMessage,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.Output = output
	return &g, nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

package repository

import (
	"context"
	"fmt"

	"github.com/modelgate/modelgate/internal/model"
)

// ListProviders returns all providers ordered by id.
func (r *Repository) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	query := `
		SELECT id, name, website
		FROM providers
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.Provider
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Website); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}

	return providers, nil
}

// ListModels returns all models with their owning company, ordered by id.
func (r *Repository) ListModels(ctx context.Context) ([]*model.Model, error) {
	query := `
		SELECT m.id, m.name, m.slug, c.id, c.name, c.website
		FROM models m
		JOIN providers c ON c.id = m.company_id
		ORDER BY m.id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var models []*model.Model
	for rows.Next() {
		var m model.Model
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Slug,
			&m.Company.ID,
			&m.Company.Name,
			&m.Company.Website,
		); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating models: %w", err)
	}

	return models, nil
}

// ListMappings returns model/provider pricing mappings ordered by id.
// When modelID is non-zero the result is filtered to that model.
func (r *Repository) ListMappings(ctx context.Context, modelID int64) ([]*model.Mapping, error) {
	query := `
		SELECT mp.id, mp.input_token_cost, mp.output_token_cost,
		       m.id, m.name, m.slug,
		       p.id, p.name, p.website
		FROM model_provider_mappings mp
		JOIN models m ON m.id = mp.model_id
		JOIN providers p ON p.id = mp.provider_id
		WHERE ($1 = 0 OR mp.model_id = $1)
		ORDER BY mp.id ASC
	`

	rows, err := r.pool.Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*model.Mapping
	for rows.Next() {
		var mp model.Mapping
		if err := rows.Scan(
			&mp.ID,
			&mp.InputTokenCost,
			&mp.OutputTokenCost,
			&mp.Model.ID,
			&mp.Model.Name,
			&mp.Model.Slug,
			&mp.Provider.ID,
			&mp.Provider.Name,
			&mp.Provider.Website,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, &mp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mappings: %w", err)
	}

	return mappings, nil
}

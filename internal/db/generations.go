package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cv-templater/internal/types"
)

const generationColumns = `id, template_id, source_path, source_hash, source_pages, source_chars,
	candidate, parsed_cv, docx_path, pdf_path, warnings, created_at`

// SaveGeneration stores a generation result. Saving the same ID twice overwrites the output paths.
func (db *DB) SaveGeneration(ctx context.Context, result *types.GenerateResult) error {
	row, err := GenerationFromResult(result)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO cv_generations (`+generationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET docx_path = $9, pdf_path = $10, warnings = $11`,
		row.ID, row.TemplateID, row.SourcePath, row.SourceHash, row.SourcePages, row.SourceChars,
		row.Candidate, row.ParsedCV, row.DocxPath, row.PDFPath, row.Warnings, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save generation %s: %w", row.ID, err)
	}
	return nil
}

// GetGeneration retrieves a generation by ID. Returns ErrNotFound if it does not exist.
func (db *DB) GetGeneration(ctx context.Context, id uuid.UUID) (*Generation, error) {
	g, err := scanGeneration(db.pool.QueryRow(ctx,
		`SELECT `+generationColumns+` FROM cv_generations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get generation %s: %w", id, err)
	}
	return g, nil
}

// ListGenerations returns the most recent generations, newest first.
func (db *DB) ListGenerations(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+generationColumns+` FROM cv_generations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var generations []Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return generations, nil
}

// FindBySourceHash returns the generations made from the same source document, newest first.
func (db *DB) FindBySourceHash(ctx context.Context, hash string) ([]Generation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+generationColumns+` FROM cv_generations WHERE source_hash = $1 ORDER BY created_at DESC`, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to find generations: %w", err)
	}
	defer rows.Close()

	var generations []Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, *g)
	}
	return generations, rows.Err()
}

func scanGeneration(row pgx.Row) (*Generation, error) {
	var g Generation
	err := row.Scan(&g.ID, &g.TemplateID, &g.SourcePath, &g.SourceHash, &g.SourcePages, &g.SourceChars,
		&g.Candidate, &g.ParsedCV, &g.DocxPath, &g.PDFPath, &g.Warnings, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

package diagnostic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type diagnosticRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &diagnosticRepoPG{pool: pool}
}

const diagnosticCols = `id, patient_id, chakra, result, confidence, explanation, origin, created_at`

func (r *diagnosticRepoPG) scanDiagnostic(row pgx.Row) (*Diagnostic, error) {
	var d Diagnostic
	err := row.Scan(&d.ID, &d.PatientID, &d.Chakra, &d.Result,
		&d.Confidence, &d.Explanation, &d.Origin, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *diagnosticRepoPG) Create(ctx context.Context, d *Diagnostic) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnostic (id, patient_id, chakra, result, confidence,
			explanation, origin, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.PatientID, d.Chakra, d.Result, d.Confidence,
		d.Explanation, d.Origin, d.CreatedAt)
	return err
}

func (r *diagnosticRepoPG) List(ctx context.Context, limit, offset int) ([]*Diagnostic, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnostic`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+diagnosticCols+` FROM diagnostic ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *diagnosticRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnostic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+diagnosticCols+` FROM diagnostic WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *diagnosticRepoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Diagnostic, error) {
	return r.scanDiagnostic(r.pool.QueryRow(ctx,
		`SELECT `+diagnosticCols+` FROM diagnostic WHERE patient_id = $1 ORDER BY created_at DESC LIMIT 1`,
		patientID))
}

func (r *diagnosticRepoPG) collect(rows pgx.Rows) ([]*Diagnostic, error) {
	var items []*Diagnostic
	for rows.Next() {
		d, err := r.scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

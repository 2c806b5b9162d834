package emergency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type alertRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &alertRepoPG{pool: pool}
}

const alertCols = `id, mission_id, patient_id, alert_type, severity, description,
	attended, created_at, attended_at`

func (r *alertRepoPG) scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.MissionID, &a.PatientID, &a.AlertType,
		&a.Severity, &a.Description, &a.Attended, &a.CreatedAt, &a.AttendedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO emergency_alert (id, mission_id, patient_id, alert_type,
			severity, description, attended, created_at, attended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.MissionID, a.PatientID, a.AlertType, a.Severity,
		a.Description, a.Attended, a.CreatedAt, a.AttendedAt)
	return err
}

func (r *alertRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return r.scanAlert(r.pool.QueryRow(ctx,
		`SELECT `+alertCols+` FROM emergency_alert WHERE id = $1`, id))
}

func (r *alertRepoPG) Update(ctx context.Context, a *Alert) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE emergency_alert SET mission_id=$2, alert_type=$3, severity=$4,
			description=$5
		WHERE id = $1`,
		a.ID, a.MissionID, a.AlertType, a.Severity, a.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *alertRepoPG) List(ctx context.Context, limit, offset int) ([]*Alert, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM emergency_alert`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertCols+` FROM emergency_alert ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *alertRepoPG) ListCritical(ctx context.Context) ([]*Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertCols+` FROM emergency_alert WHERE severity = $1 ORDER BY created_at DESC`,
		SeverityCritical)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *alertRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertCols+` FROM emergency_alert WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *alertRepoPG) MarkAttended(ctx context.Context, id uuid.UUID) (*Alert, bool, error) {
	a, err := r.scanAlert(r.pool.QueryRow(ctx, `
		UPDATE emergency_alert SET attended = true, attended_at = $2
		WHERE id = $1 AND attended = false
		RETURNING `+alertCols,
		id, time.Now().UTC()))
	if err == nil {
		return a, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	// Either the alert is already attended or it does not exist.
	a, err = r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return a, false, nil
}

func (r *alertRepoPG) collect(rows pgx.Rows) ([]*Alert, error) {
	var items []*Alert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

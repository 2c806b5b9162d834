package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type telemetryRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &telemetryRepoPG{pool: pool}
}

const recordCols = `id, mission_id, patient_id, pulse_rate, blood_pressure,
	chakra_level, oxygen_saturation, temperature_c, general_state,
	location_lat, location_lon, captured_at`

func (r *telemetryRepoPG) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var lat, lon *float64
	err := row.Scan(&rec.ID, &rec.MissionID, &rec.PatientID,
		&rec.Vitals.PulseRate, &rec.Vitals.BloodPressure,
		&rec.Vitals.ChakraLevel, &rec.Vitals.OxygenSaturation,
		&rec.Vitals.TemperatureC, &rec.Vitals.GeneralState,
		&lat, &lon, &rec.CapturedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		rec.Location = &Location{Lat: *lat, Lon: *lon}
	}
	return &rec, nil
}

func (r *telemetryRepoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	var lat, lon *float64
	if rec.Location != nil {
		lat, lon = &rec.Location.Lat, &rec.Location.Lon
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO telemetry_record (id, mission_id, patient_id, pulse_rate,
			blood_pressure, chakra_level, oxygen_saturation, temperature_c,
			general_state, location_lat, location_lon, captured_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.MissionID, rec.PatientID, rec.Vitals.PulseRate,
		rec.Vitals.BloodPressure, rec.Vitals.ChakraLevel,
		rec.Vitals.OxygenSaturation, rec.Vitals.TemperatureC,
		rec.Vitals.GeneralState, lat, lon, rec.CapturedAt)
	return err
}

func (r *telemetryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM telemetry_record WHERE id = $1`, id))
}

func (r *telemetryRepoPG) UpdateVitals(ctx context.Context, id uuid.UUID, v Vitals, capturedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE telemetry_record SET pulse_rate=$2, blood_pressure=$3,
			chakra_level=$4, oxygen_saturation=$5, temperature_c=$6,
			general_state=$7, captured_at=$8
		WHERE id = $1`,
		id, v.PulseRate, v.BloodPressure, v.ChakraLevel,
		v.OxygenSaturation, v.TemperatureC, v.GeneralState, capturedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *telemetryRepoPG) ListByMission(ctx context.Context, missionID string) ([]*Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordCols+` FROM telemetry_record WHERE mission_id = $1 ORDER BY captured_at DESC`,
		missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *telemetryRepoPG) ListAll(ctx context.Context) ([]*Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordCols+` FROM telemetry_record ORDER BY captured_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *telemetryRepoPG) collect(rows pgx.Rows) ([]*Record, error) {
	var items []*Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

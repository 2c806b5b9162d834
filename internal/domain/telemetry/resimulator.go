package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/ws"
)

// Resimulator is the periodic background task that refreshes the vitals
// of every tracked record. Each tick it rescans the full table, re-draws
// a sample per record from the record's own stored state, persists it
// onto the same record identity, and republishes to the record's mission
// channel. A failing record is retried once, then logged and skipped; it
// never aborts the rest of the batch or future ticks.
type Resimulator struct {
	records   Repository
	gen       *Generator
	publisher ws.Publisher
	interval  time.Duration
	logger    zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewResimulator(records Repository, gen *Generator, publisher ws.Publisher, interval time.Duration, logger zerolog.Logger) *Resimulator {
	return &Resimulator{
		records:   records,
		gen:       gen,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the tick loop. It returns immediately; use Stop for a
// clean shutdown.
func (r *Resimulator) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.loop(ctx)
}

// Stop cancels the loop and blocks until it has exited. No tick fires
// after Stop returns. Safe to call when the loop was never started.
func (r *Resimulator) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Resimulator) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one resimulation pass. Exported so tests can drive the
// scheduler without waiting on the ticker.
func (r *Resimulator) Tick(ctx context.Context) {
	records, err := r.records.ListAll(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("resimulation: list records")
		return
	}

	updated := 0
	for _, rec := range records {
		if err := r.resimulate(ctx, rec); err != nil {
			r.logger.Error().Err(err).
				Str("record_id", rec.ID.String()).
				Str("mission_id", rec.MissionID).
				Msg("resimulation: record skipped")
			continue
		}
		updated++
	}

	r.logger.Debug().Int("updated", updated).Int("total", len(records)).
		Msg("resimulation tick complete")
}

func (r *Resimulator) resimulate(ctx context.Context, rec *Record) error {
	vitals := r.gen.Generate(rec.Vitals.Category())
	capturedAt := time.Now().UTC()

	err := r.records.UpdateVitals(ctx, rec.ID, vitals, capturedAt)
	if err != nil {
		// One retry for transient store hiccups.
		err = r.records.UpdateVitals(ctx, rec.ID, vitals, capturedAt)
	}
	if err != nil {
		return err
	}

	rec.Vitals = vitals
	rec.CapturedAt = capturedAt
	r.publisher.Broadcast(rec.MissionID, ws.NewEvent(ws.EventTelemetryUpdate, rec.MissionID, rec))
	return nil
}

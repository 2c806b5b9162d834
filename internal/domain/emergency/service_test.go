package emergency

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/ws"
)

type mockRepo struct {
	mu    sync.Mutex
	store map[uuid.UUID]*Alert
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Alert)}
}

func (m *mockRepo) Create(_ context.Context, a *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Alert, int, error) {
	all := m.sorted(func(*Alert) bool { return true })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockRepo) ListCritical(_ context.Context) ([]*Alert, error) {
	return m.sorted(func(a *Alert) bool { return a.Severity == SeverityCritical }), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Alert, error) {
	return m.sorted(func(a *Alert) bool { return a.PatientID == patientID }), nil
}

func (m *mockRepo) MarkAttended(_ context.Context, id uuid.UUID) (*Alert, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if a.Attended {
		cp := *a
		return &cp, false, nil
	}
	now := time.Now().UTC()
	a.Attended = true
	a.AttendedAt = &now
	cp := *a
	return &cp, true, nil
}

func (m *mockRepo) sorted(keep func(*Alert) bool) []*Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Alert
	for _, a := range m.store {
		if keep(a) {
			cp := *a
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items
}

type mockDirectory struct {
	known map[uuid.UUID]bool
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

type published struct {
	missionID string
	event     ws.Event
	global    bool
}

type mockPublisher struct {
	mu     sync.Mutex
	events []published
}

func (m *mockPublisher) Broadcast(missionID string, event ws.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{missionID: missionID, event: event})
}

func (m *mockPublisher) BroadcastAll(event ws.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{event: event, global: true})
}

func (m *mockPublisher) all() []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]published(nil), m.events...)
}

func newTestService(known ...uuid.UUID) (*Service, *mockRepo, *mockPublisher) {
	repo := newMockRepo()
	dir := &mockDirectory{known: make(map[uuid.UUID]bool)}
	for _, id := range known {
		dir.known[id] = true
	}
	pub := &mockPublisher{}
	return NewService(repo, dir, pub), repo, pub
}

func validRequest(patientID uuid.UUID) RaiseRequest {
	return RaiseRequest{
		MissionID:   "M-7",
		PatientID:   patientID,
		AlertType:   TypeChakra,
		Severity:    SeverityCritical,
		Description: "chakra exhaustion after sustained jutsu",
	}
}

func TestRaiseAlert(t *testing.T) {
	patientID := uuid.New()
	svc, repo, pub := newTestService(patientID)

	a, err := svc.Raise(context.Background(), validRequest(patientID))
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatal("alert was not assigned an id")
	}
	if a.Attended {
		t.Fatal("new alert must start unattended")
	}
	if _, ok := repo.store[a.ID]; !ok {
		t.Fatal("alert was not persisted")
	}

	events := pub.all()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if !events[0].global {
		t.Error("alert_raised must go to all clients, not one mission")
	}
	if events[0].event.Type != ws.EventAlertRaised {
		t.Errorf("event type = %q, want %q", events[0].event.Type, ws.EventAlertRaised)
	}
}

func TestRaiseAlertDefaults(t *testing.T) {
	patientID := uuid.New()
	svc, _, _ := newTestService(patientID)

	a, err := svc.Raise(context.Background(), RaiseRequest{
		PatientID:   patientID,
		Severity:    SeverityModerate,
		Description: "minor chakra depletion",
	})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if a.MissionID != DefaultMissionID {
		t.Errorf("mission = %q, want %q", a.MissionID, DefaultMissionID)
	}
	if a.AlertType != TypeOther {
		t.Errorf("alert type = %q, want %q", a.AlertType, TypeOther)
	}
}

func TestRaiseAlertValidation(t *testing.T) {
	patientID := uuid.New()
	svc, _, pub := newTestService(patientID)

	tests := []struct {
		name    string
		mutate  func(*RaiseRequest)
		wantErr error
	}{
		{"missing subject", func(r *RaiseRequest) { r.PatientID = uuid.Nil }, ErrMissingPatientID},
		{"missing description", func(r *RaiseRequest) { r.Description = "" }, ErrInvalidAlert},
		{"unknown severity", func(r *RaiseRequest) { r.Severity = "apocalyptic" }, ErrInvalidAlert},
		{"missing severity", func(r *RaiseRequest) { r.Severity = "" }, ErrInvalidAlert},
		{"unknown alert type", func(r *RaiseRequest) { r.AlertType = "genjutsu" }, ErrInvalidAlert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(patientID)
			tt.mutate(&req)
			if _, err := svc.Raise(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Raise(context.Background(), validRequest(uuid.New())); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("unknown patient err = %v, want ErrPatientNotFound", err)
	}
	if len(pub.all()) != 0 {
		t.Error("rejected alerts must not publish events")
	}
}

func TestAttendIsIdempotent(t *testing.T) {
	patientID := uuid.New()
	svc, _, pub := newTestService(patientID)

	a, err := svc.Raise(context.Background(), validRequest(patientID))
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	first, err := svc.Attend(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Attend: %v", err)
	}
	if !first.Attended || first.AttendedAt == nil {
		t.Fatalf("alert not marked attended: %+v", first)
	}

	second, err := svc.Attend(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("second Attend: %v", err)
	}
	if !second.Attended {
		t.Fatal("attended flag must stay set")
	}

	var resolved int
	for _, e := range pub.all() {
		if e.event.Type == ws.EventAlertResolved {
			resolved++
			if !e.global {
				t.Error("alert_resolved must go to all clients")
			}
		}
	}
	if resolved != 1 {
		t.Fatalf("published %d alert_resolved events, want exactly 1", resolved)
	}
}

func TestAttendUnknownAlert(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Attend(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAlert(t *testing.T) {
	patientID := uuid.New()
	svc, _, _ := newTestService(patientID)

	a, err := svc.Raise(context.Background(), validRequest(patientID))
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	got, err := svc.Update(context.Background(), a.ID, UpdateRequest{Severity: SeverityHigh})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", got.Severity, SeverityHigh)
	}
	if got.Description != a.Description {
		t.Errorf("empty fields must be left unchanged, description = %q", got.Description)
	}

	if _, err := svc.Update(context.Background(), a.ID, UpdateRequest{Severity: "mild"}); !errors.Is(err, ErrInvalidAlert) {
		t.Fatalf("err = %v, want ErrInvalidAlert", err)
	}
}

func TestListCritical(t *testing.T) {
	patientID := uuid.New()
	svc, _, _ := newTestService(patientID)

	req := validRequest(patientID)
	if _, err := svc.Raise(context.Background(), req); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	req.Severity = SeverityModerate
	if _, err := svc.Raise(context.Background(), req); err != nil {
		t.Fatalf("Raise: %v", err)
	}

	items, err := svc.ListCritical(context.Background())
	if err != nil {
		t.Fatalf("ListCritical: %v", err)
	}
	if len(items) != 1 || items[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical alert, got %d", len(items))
	}
}

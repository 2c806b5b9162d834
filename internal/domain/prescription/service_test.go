package prescription

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	mu    sync.Mutex
	store map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Prescription, int, error) {
	all := m.sorted(func(*Prescription) bool { return true })
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

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	return m.sorted(func(p *Prescription) bool { return p.PatientID == patientID }), nil
}

func (m *mockRepo) Validate(_ context.Context, id uuid.UUID, signature string, at time.Time) (*Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Validated {
		return nil, ErrAlreadyValidated
	}
	p.Validated = true
	p.DigitalSignature = &signature
	p.ValidatedAt = &at
	p.UpdatedAt = at
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) sorted(keep func(*Prescription) bool) []*Prescription {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Prescription
	for _, p := range m.store {
		if keep(p) {
			cp := *p
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

func newTestService(known ...uuid.UUID) (*Service, *mockRepo) {
	repo := newMockRepo()
	dir := &mockDirectory{known: make(map[uuid.UUID]bool)}
	for _, id := range known {
		dir.known[id] = true
	}
	return NewService(repo, dir), repo
}

func validPrescription(patientID uuid.UUID) *Prescription {
	return &Prescription{
		PatientID:      patientID,
		PrescriberName: "Tsunade Senju",
		Medications: []Medication{
			{Name: "soldier pill", Dose: "1 tablet", Frequency: "every 8h", Duration: "3 days"},
		},
	}
}

func TestCreatePrescription(t *testing.T) {
	patientID := uuid.New()
	svc, repo := newTestService(patientID)

	p := validPrescription(patientID)
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("prescription was not assigned an id")
	}
	if p.Validated || p.DigitalSignature != nil {
		t.Fatal("new prescription must start unsigned")
	}
	if _, ok := repo.store[p.ID]; !ok {
		t.Fatal("prescription was not persisted")
	}
}

func TestCreatePrescriptionStripsCallerSignature(t *testing.T) {
	patientID := uuid.New()
	svc, _ := newTestService(patientID)

	sig := "forged"
	p := validPrescription(patientID)
	p.Validated = true
	p.DigitalSignature = &sig

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Validated || p.DigitalSignature != nil {
		t.Fatal("caller must not be able to pre-sign a prescription")
	}
}

func TestCreatePrescriptionValidation(t *testing.T) {
	patientID := uuid.New()
	svc, _ := newTestService(patientID)

	tests := []struct {
		name   string
		mutate func(*Prescription)
	}{
		{"missing patient", func(p *Prescription) { p.PatientID = uuid.Nil }},
		{"missing prescriber", func(p *Prescription) { p.PrescriberName = "" }},
		{"no medications", func(p *Prescription) { p.Medications = nil }},
		{"medication without name", func(p *Prescription) { p.Medications[0].Name = "" }},
		{"medication without dose", func(p *Prescription) { p.Medications[0].Dose = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPrescription(patientID)
			tt.mutate(p)
			if err := svc.Create(context.Background(), p); !errors.Is(err, ErrInvalidPrescription) {
				t.Fatalf("err = %v, want ErrInvalidPrescription", err)
			}
		})
	}

	if err := svc.Create(context.Background(), validPrescription(uuid.New())); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("unknown patient err = %v, want ErrPatientNotFound", err)
	}
}

func TestValidatePrescription(t *testing.T) {
	patientID := uuid.New()
	svc, _ := newTestService(patientID)

	p := validPrescription(patientID)
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	signed, err := svc.Validate(context.Background(), p.ID, "sig:tsunade:4f2a")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !signed.Validated || signed.DigitalSignature == nil || *signed.DigitalSignature != "sig:tsunade:4f2a" {
		t.Fatalf("prescription not signed: %+v", signed)
	}
	if signed.ValidatedAt == nil {
		t.Fatal("validated_at must be set on signing")
	}

	if _, err := svc.Validate(context.Background(), p.ID, "sig:other"); !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("second sign err = %v, want ErrAlreadyValidated", err)
	}

	if _, err := svc.Validate(context.Background(), p.ID, ""); !errors.Is(err, ErrInvalidPrescription) {
		t.Fatalf("empty signature err = %v, want ErrInvalidPrescription", err)
	}

	if _, err := svc.Validate(context.Background(), uuid.New(), "sig"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestListByPatientNewestFirst(t *testing.T) {
	patientID := uuid.New()
	svc, repo := newTestService(patientID)

	older := validPrescription(patientID)
	repo.Create(context.Background(), older)
	repo.store[older.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)

	newer := validPrescription(patientID)
	repo.Create(context.Background(), newer)

	items, err := svc.ListByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(items) != 2 || items[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %d items", len(items))
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/draft"
	"github.com/head-marketing/backend/internal/events"
	"github.com/head-marketing/backend/internal/models"
)

type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]byte)}
}

func (m *memorySnapshots) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	return raw, ok, nil
}

func (m *memorySnapshots) Store(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeCampaignStore counts creates/updates and can hold a save open to
// observe serialization.
type fakeCampaignStore struct {
	mu        sync.Mutex
	records   map[uuid.UUID]models.Campaign
	creates   int
	updates   int
	inFlight  int
	maxActive int
	block     chan struct{}
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{records: make(map[uuid.UUID]models.Campaign)}
}

func (f *fakeCampaignStore) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxActive {
		f.maxActive = f.inFlight
	}
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeCampaignStore) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeCampaignStore) Create(_ context.Context, c *models.Campaign) error {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.records[c.ID] = *c
	f.creates++
	return nil
}

func (f *fakeCampaignStore) Update(_ context.Context, c *models.Campaign) error {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[c.ID]; !ok {
		return errors.New("no such campaign")
	}
	f.records[c.ID] = *c
	f.updates++
	return nil
}

func (f *fakeCampaignStore) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[id]
	if !ok || c.UserID != userID {
		return nil, errors.New("no such campaign")
	}
	out := c
	return &out, nil
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, models.AuditLog) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, events.Event) error { return nil }

type nopAnalyzer struct{}

func (nopAnalyzer) Analyze(context.Context, string) (*models.WebsiteAnalysis, error) {
	return nil, errors.New("not configured")
}

func newTestWizard(store CampaignStore, snaps SnapshotStore) *WizardService {
	return NewWizardService(store, nopAudit{}, nopPublisher{}, snaps, nopAnalyzer{},
		time.Millisecond, time.Hour, zap.NewNop())
}

// completeDraft fills every step so the submit predicate passes.
func completeDraft(d *draft.Draft) {
	d.SetSelectedStrategies([]models.Strategy{{Type: "Influencer marketing"}})
	d.SetBusinessName("Acme")
	d.SetProductType("Web app")
	d.SetDeliveryType(draft.DeliveryVideo)
	d.SetVideoAssetLink("https://x.co/v")
	_ = d.SetBusinessIntroduction("We sell widgets")
	_ = d.UpdateSellingPoint(0, "Fast")
	d.UpdateAudienceTitle(0, "Devs")
	d.UpdateAudienceDescription(0, "Build tools")
	d.SetLandingPageURL("https://acme.example")
	d.SetBudget(1000)
}

func TestSubmitRejectsIncompleteWizard(t *testing.T) {
	svc := newTestWizard(newFakeCampaignStore(), newMemorySnapshots())
	userID := uuid.New()

	if _, err := svc.Open(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(context.Background(), userID); !errors.Is(err, ErrWizardIncomplete) {
		t.Fatalf("err = %v, want ErrWizardIncomplete", err)
	}
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	store := newFakeCampaignStore()
	svc := newTestWizard(store, newMemorySnapshots())
	userID := uuid.New()

	sess, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	completeDraft(sess.Draft)

	first, err := svc.Submit(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "Acme Campaign" || first.Status != models.CampaignStatusDraft {
		t.Errorf("record = %q/%q", first.Name, first.Status)
	}
	if first.UserID != userID {
		t.Error("record not owned by submitting user")
	}

	sess.Draft.SetBusinessName("Acme 2")
	second, err := svc.Submit(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Error("second submit created a new record instead of updating")
	}
	if second.Name != "Acme 2 Campaign" {
		t.Errorf("updated name = %q", second.Name)
	}
	if store.creates != 1 || store.updates != 1 {
		t.Errorf("creates=%d updates=%d, want 1/1", store.creates, store.updates)
	}
}

// A submit issued while another save is in flight waits its turn rather than
// racing it.
func TestConcurrentSubmitsSerialize(t *testing.T) {
	store := newFakeCampaignStore()
	store.block = make(chan struct{})
	svc := newTestWizard(store, newMemorySnapshots())
	userID := uuid.New()

	sess, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	completeDraft(sess.Draft)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(context.Background(), userID); err != nil {
				t.Error(err)
			}
		}()
	}

	// Let both submits start, then release the store.
	time.Sleep(20 * time.Millisecond)
	close(store.block)
	wg.Wait()

	if store.maxActive != 1 {
		t.Fatalf("max concurrent saves = %d, want 1", store.maxActive)
	}
	if store.creates != 1 || store.updates != 1 {
		t.Errorf("creates=%d updates=%d, want 1/1", store.creates, store.updates)
	}
}

func TestOpenRestoresSnapshot(t *testing.T) {
	snaps := newMemorySnapshots()
	userID := uuid.New()

	saved := draft.New()
	saved.SetBusinessName("Restored Co")
	saved.BeginAnalysis("https://restored.example")
	raw, err := json.Marshal(wizardSnapshot{State: saved.Snapshot()})
	if err != nil {
		t.Fatal(err)
	}
	if err := snaps.Store(context.Background(), wizardKey(userID), raw, time.Hour); err != nil {
		t.Fatal(err)
	}

	svc := newTestWizard(newFakeCampaignStore(), snaps)
	sess, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	state := sess.Draft.Snapshot()
	if state.BusinessName != "Restored Co" {
		t.Errorf("business name = %q", state.BusinessName)
	}
	// A restart can never resurrect an in-flight request.
	if state.Thinking != draft.ThinkingIdle {
		t.Errorf("thinking = %q, want idle after restore", state.Thinking)
	}
}

func TestMutationPersistsSnapshot(t *testing.T) {
	snaps := newMemorySnapshots()
	svc := newTestWizard(newFakeCampaignStore(), snaps)
	userID := uuid.New()

	sess, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	sess.Draft.SetBusinessName("Persist Me")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if raw, ok, _ := snaps.Load(context.Background(), wizardKey(userID)); ok {
			var snap wizardSnapshot
			if err := json.Unmarshal(raw, &snap); err == nil && snap.State.BusinessName == "Persist Me" {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("snapshot never persisted after mutation")
}

func TestDiscardDropsSessionAndSnapshot(t *testing.T) {
	snaps := newMemorySnapshots()
	svc := newTestWizard(newFakeCampaignStore(), snaps)
	userID := uuid.New()

	sess, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	sess.Draft.SetBusinessName("Gone Soon")

	if err := svc.Discard(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(userID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if _, ok, _ := snaps.Load(context.Background(), wizardKey(userID)); ok {
		t.Fatal("snapshot survived discard")
	}

	// A fresh open starts clean.
	fresh, err := svc.Open(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if got := fresh.Draft.Snapshot().BusinessName; got != "" {
		t.Fatalf("business name after discard = %q, want empty", got)
	}
}

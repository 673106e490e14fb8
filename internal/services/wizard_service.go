package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/analyzer"
	"github.com/head-marketing/backend/internal/draft"
	"github.com/head-marketing/backend/internal/events"
	"github.com/head-marketing/backend/internal/models"
)

var (
	ErrNoSession        = errors.New("no wizard session")
	ErrWizardIncomplete = errors.New("wizard is not complete")
)

// CampaignStore is the subset of the campaign repository the wizard needs.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	Update(ctx context.Context, c *models.Campaign) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Campaign, error)
}

// AuditSink records wizard actions.
type AuditSink interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// SnapshotStore persists wizard drafts between logins and restarts.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisSnapshotStore keeps snapshots in redis with a TTL.
type RedisSnapshotStore struct {
	rdb *redis.Client
}

func NewRedisSnapshotStore(rdb *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb}
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisSnapshotStore) Store(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// WizardSession is one user's in-progress campaign draft plus its analysis
// driver. Saves are serialized through saveMu so a submit issued while a
// previous save is in flight waits instead of racing it.
type WizardSession struct {
	UserID   uuid.UUID
	Draft    *draft.Draft
	Analysis *analyzer.Session

	saveMu     sync.Mutex
	campaignID *uuid.UUID
	stop       func()
}

// CampaignID returns the record this session has been submitted to, if any.
func (s *WizardSession) CampaignID() *uuid.UUID {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.campaignID == nil {
		return nil
	}
	id := *s.campaignID
	return &id
}

// WizardService owns all live wizard sessions, one per user. Drafts are
// snapshotted to redis on every mutation so a session survives process
// restarts and re-logins until its TTL lapses.
type WizardService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*WizardSession

	store       CampaignStore
	audit       AuditSink
	publisher   events.Publisher
	snapshots   SnapshotStore
	analyzer    analyzer.Analyzer
	revealDelay time.Duration
	sessionTTL  time.Duration
	log         *zap.Logger
}

func NewWizardService(
	store CampaignStore,
	audit AuditSink,
	publisher events.Publisher,
	snapshots SnapshotStore,
	az analyzer.Analyzer,
	revealDelay, sessionTTL time.Duration,
	log *zap.Logger,
) *WizardService {
	return &WizardService{
		sessions:    make(map[uuid.UUID]*WizardSession),
		store:       store,
		audit:       audit,
		publisher:   publisher,
		snapshots:   snapshots,
		analyzer:    az,
		revealDelay: revealDelay,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

func wizardKey(userID uuid.UUID) string {
	return "wizard:" + userID.String()
}

type wizardSnapshot struct {
	State      draft.State `json:"state"`
	CampaignID *uuid.UUID  `json:"campaign_id,omitempty"`
}

// Open returns the user's wizard session, restoring it from the redis
// snapshot when one exists and starting fresh otherwise.
func (s *WizardService) Open(ctx context.Context, userID uuid.UUID) (*WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	var d *draft.Draft
	var campaignID *uuid.UUID
	raw, found, err := s.snapshots.Load(ctx, wizardKey(userID))
	if err != nil {
		return nil, err
	}
	if found {
		var snap wizardSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			s.log.Warn("corrupt wizard snapshot, starting fresh",
				zap.String("user_id", userID.String()), zap.Error(err))
			d = draft.New()
		} else {
			d = draft.NewFromState(snap.State)
			campaignID = snap.CampaignID
		}
	} else {
		d = draft.New()
	}

	sess := &WizardSession{
		UserID:     userID,
		Draft:      d,
		campaignID: campaignID,
	}
	sess.Analysis = analyzer.NewSession(d, s.analyzer, s.revealDelay, s.log)
	sess.Analysis.OnTransition(func(state draft.ThinkingState) {
		_ = s.publisher.Publish(context.Background(), events.StreamCampaign, events.Event{
			Type: events.EventAnalysisStateChanged,
			Payload: map[string]any{
				"user_id":  userID.String(),
				"thinking": string(state),
			},
		})
	})

	sess.stop = s.watchDraft(sess)
	s.sessions[userID] = sess
	return sess, nil
}

// Get returns the live session without touching redis.
func (s *WizardService) Get(userID uuid.UUID) (*WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// watchDraft persists a snapshot after every draft mutation. Notifications
// coalesce, so a burst of edits costs one write.
func (s *WizardService) watchDraft(sess *WizardSession) func() {
	ch, unsub := sess.Draft.Subscribe()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				s.persistSnapshot(sess)
			}
		}
	}()

	return func() {
		unsub()
		close(done)
	}
}

func (s *WizardService) persistSnapshot(sess *WizardSession) {
	snap := wizardSnapshot{
		State:      sess.Draft.Snapshot(),
		CampaignID: sess.CampaignID(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("wizard snapshot marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.snapshots.Store(ctx, wizardKey(sess.UserID), data, s.sessionTTL); err != nil {
		s.log.Warn("wizard snapshot write failed",
			zap.String("user_id", sess.UserID.String()), zap.Error(err))
	}
}

// Discard cancels any running analysis, drops the session and deletes its
// snapshot.
func (s *WizardService) Discard(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if ok {
		sess.Analysis.Cancel()
		sess.stop()
	}
	return s.snapshots.Delete(ctx, wizardKey(userID))
}

// Submit reconciles the draft into a campaign record. The first submit
// creates the record; later submits update it in place. Concurrent submits
// for the same session run one at a time.
func (s *WizardService) Submit(ctx context.Context, userID uuid.UUID) (*models.Campaign, error) {
	sess, err := s.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	state := sess.Draft.Snapshot()
	for _, step := range draft.Steps() {
		if !state.StepComplete(step) {
			return nil, fmt.Errorf("%w: step %s", ErrWizardIncomplete, step)
		}
	}

	var existing *models.Campaign
	if sess.campaignID != nil {
		existing, err = s.store.GetByIDForUser(ctx, *sess.campaignID, userID)
		if err != nil {
			return nil, fmt.Errorf("campaign not found")
		}
	}

	record := draft.Reconcile(state, existing)
	record.UserID = userID

	created := existing == nil
	if created {
		if err := s.store.Create(ctx, &record); err != nil {
			return nil, err
		}
		id := record.ID
		sess.campaignID = &id
	} else {
		if err := s.store.Update(ctx, &record); err != nil {
			return nil, err
		}
	}

	go s.persistSnapshot(sess)

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorType:  models.ActorUser,
		ActorID:    &userID,
		Action:     "wizard_submitted",
		EntityType: "campaign",
		EntityID:   record.ID.String(),
	})

	eventType := events.EventCampaignUpdated
	if created {
		eventType = events.EventCampaignCreated
	}
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventWizardSubmitted,
		Payload: map[string]any{
			"user_id":     userID.String(),
			"campaign_id": record.ID.String(),
		},
	})
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"campaign_id": record.ID.String(),
			"status":      record.Status,
		},
	})

	return &record, nil
}

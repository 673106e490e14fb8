package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/config"
	"github.com/head-marketing/backend/internal/db"
	"github.com/head-marketing/backend/internal/events"
	"github.com/head-marketing/backend/internal/models"
	"github.com/head-marketing/backend/internal/repositories"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	campaignRepo := repositories.NewCampaignRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)

	log.Info("worker started",
		zap.Duration("sweep_interval", cfg.WindowSweepInterval),
		zap.Duration("draft_archive_after", cfg.DraftArchiveAfter),
	)

	sweepTicker := time.NewTicker(cfg.WindowSweepInterval)
	defer sweepTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			runWindowSweep(ctx, campaignRepo, auditRepo, publisher, log)
			runDraftArchiver(ctx, campaignRepo, auditRepo, cfg.DraftArchiveAfter, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runWindowSweep completes active campaigns whose posting window has closed.
func runWindowSweep(
	ctx context.Context,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) {
	campaigns, err := campaignRepo.ListActivePastDue(ctx, time.Now())
	if err != nil {
		log.Error("failed to list past-due campaigns", zap.Error(err))
		return
	}

	for _, c := range campaigns {
		if !models.IsValidCampaignTransition(c.Status, models.CampaignStatusCompleted) {
			continue
		}
		if err := campaignRepo.UpdateStatus(ctx, c.ID, models.CampaignStatusCompleted); err != nil {
			log.Error("failed to complete campaign",
				zap.String("campaign_id", c.ID.String()), zap.Error(err))
			continue
		}

		log.Info("campaign window closed, marked completed",
			zap.String("campaign_id", c.ID.String()))

		_ = auditRepo.Log(ctx, models.AuditLog{
			ActorType:  models.ActorSystem,
			Action:     "campaign_window_closed",
			EntityType: "campaign",
			EntityID:   c.ID.String(),
		})
		_ = publisher.Publish(ctx, events.StreamCampaign, events.Event{
			Type: events.EventCampaignCompleted,
			Payload: map[string]any{
				"campaign_id": c.ID.String(),
				"status":      models.CampaignStatusCompleted,
			},
		})
	}
}

// runDraftArchiver archives draft records nobody has touched for the
// configured period.
func runDraftArchiver(
	ctx context.Context,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	archiveAfter time.Duration,
	log *zap.Logger,
) {
	cutoff := time.Now().Add(-archiveAfter)
	drafts, err := campaignRepo.ListStaleDrafts(ctx, cutoff)
	if err != nil {
		log.Error("failed to list stale drafts", zap.Error(err))
		return
	}

	for _, c := range drafts {
		if err := campaignRepo.UpdateStatus(ctx, c.ID, models.CampaignStatusArchived); err != nil {
			log.Error("failed to archive draft",
				zap.String("campaign_id", c.ID.String()), zap.Error(err))
			continue
		}

		log.Info("stale draft archived", zap.String("campaign_id", c.ID.String()))

		_ = auditRepo.Log(ctx, models.AuditLog{
			ActorType:  models.ActorSystem,
			Action:     "draft_archived",
			EntityType: "campaign",
			EntityID:   c.ID.String(),
		})
	}
}

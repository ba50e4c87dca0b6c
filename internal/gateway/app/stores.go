package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"appforge/internal/gateway/config"
	"appforge/internal/gateway/repository"
	artifactrepo "appforge/internal/gateway/repository/artifact"
	projectrepo "appforge/internal/gateway/repository/project"
	"appforge/internal/ledger"
)

type gatewayStores struct {
	project  projectrepo.Store
	ledger   ledger.Store
	artifact artifactrepo.Store

	// artifactPing is nil when no durable snapshot backend is configured;
	// the readiness probe reports that as degraded rather than unhealthy.
	artifactPing func(ctx context.Context) error
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	stores := &gatewayStores{}

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		if err := repository.RunMigrations(dsn); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		db, err := repository.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		stores.project = projectrepo.NewPostgresStore(db)
		stores.ledger = ledger.NewPostgresStore(db)
		log.Printf("project store: postgres")
	} else {
		stores.project = projectrepo.NewMemoryStore()
		stores.ledger = ledger.NewMemoryStore()
		log.Printf("project store: in-memory (DATABASE_URL not set)")
	}

	if cfg.Artifact.Configured() {
		s3Store, err := artifactrepo.NewS3Store(artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		stores.artifact = s3Store
		stores.artifactPing = s3Store.Ping
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
	} else {
		stores.artifact = artifactrepo.NewMemoryStore()
		log.Printf("artifact store: in-memory (s3 config incomplete)")
	}

	return stores, nil
}

package app

import (
	"context"
	"fmt"
	"log"

	projectcache "appforge/internal/cache/project"
	"appforge/internal/gateway/config"
	"appforge/internal/gateway/handler"
	"appforge/internal/gateway/server"
	projectuc "appforge/internal/gateway/usecase/project"
	"appforge/internal/health"
	"appforge/internal/ledger"
	"appforge/internal/llm"
	"appforge/internal/session"
	"appforge/internal/tools"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	// Dependencies
	sessions := session.NewManager()
	projectStore := projectcache.NewCachedStore(stores.project, projectcache.DefaultCacheConfig())
	projectSvc := projectuc.New(projectStore, sessions)

	recorder := ledger.NewRecorder(stores.ledger)
	registry := tools.NewRegistry(tools.NewDocsSearchTool())
	toolset := tools.NewInstrumented(registry, recorder)

	var gemini *llm.GeminiClient
	if cfg.GoogleAPIKey != "" {
		model, _ := llm.Resolve(llm.ProviderGoogle)
		gemini, err = llm.NewGeminiClient(context.Background(), cfg.GoogleAPIKey, model)
		if err != nil {
			log.Printf("gemini client unavailable: %v", err)
			gemini = nil
		}
	}

	checks := health.NewAggregator(
		health.StorageProbe(projectStore.Ping),
		health.CredentialProbe("sandbox-provider", cfg.SandboxAPIKey),
		health.CredentialProbe("model-provider", firstCredential(cfg.GoogleAPIKey, cfg.AnthropicAPIKey, cfg.OpenAIAPIKey)),
		health.ArtifactStoreProbe(stores.artifactPing),
	)

	svc := handler.NewService(projectSvc, stores.artifact, toolset, checks, gemini)

	// Routing & Server
	mux := server.NewMux(svc)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

func firstCredential(keys ...string) string {
	for _, k := range keys {
		if k != "" {
			return k
		}
	}
	return ""
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

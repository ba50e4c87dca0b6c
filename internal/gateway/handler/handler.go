package handler

import (
	"appforge/internal/gateway/repository/artifact"
	projectuc "appforge/internal/gateway/usecase/project"
	"appforge/internal/health"
	"appforge/internal/llm"
	"appforge/internal/tools"
)

// Service holds the gateway's HTTP handlers and their collaborators.
type Service struct {
	projects  *projectuc.Service
	artifacts artifact.Store
	tools     *tools.Instrumented
	checks    *health.Aggregator

	// gemini is nil when the google provider credential is absent; the
	// chat route reports the provider as unconfigured in that case.
	gemini *llm.GeminiClient
}

func NewService(
	projects *projectuc.Service,
	artifacts artifact.Store,
	toolset *tools.Instrumented,
	checks *health.Aggregator,
	gemini *llm.GeminiClient,
) *Service {
	return &Service{
		projects:  projects,
		artifacts: artifacts,
		tools:     toolset,
		checks:    checks,
		gemini:    gemini,
	}
}

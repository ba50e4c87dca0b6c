package server

import (
	"net/http"

	"appforge/internal/gateway/handler"
	"appforge/internal/gateway/middleware"
)

func NewMux(svc *handler.Service) http.Handler {
	mux := http.NewServeMux()

	// Project surface
	mux.HandleFunc("GET /projects", svc.HandleListProjects)
	mux.HandleFunc("POST /projects", svc.HandleCreateProject)
	mux.HandleFunc("GET /projects/{id}", svc.HandleGetProject)
	mux.HandleFunc("PATCH /projects/{id}", svc.HandleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", svc.HandleDeleteProject)
	mux.HandleFunc("GET /projects/{id}/state", svc.HandleProjectState)
	mux.HandleFunc("POST /projects/{id}/context", svc.HandleAppendContext)
	mux.HandleFunc("GET /projects/{id}/artifacts", svc.HandleListArtifacts)
	mux.HandleFunc("PUT /projects/{id}/artifacts/{path...}", svc.HandlePutArtifact)
	mux.HandleFunc("GET /projects/{id}/artifacts/{path...}", svc.HandleGetArtifact)

	// Agent surface
	mux.HandleFunc("POST /api/chat", svc.HandleChat)
	mux.HandleFunc("GET /api/watch", svc.HandleWatchWS)
	mux.HandleFunc("GET /api/tools", svc.HandleListTools)
	mux.HandleFunc("POST /api/tools/{name}", svc.HandleCallTool)

	// Readiness
	mux.HandleFunc("GET /health/ready", svc.HandleReady)

	return middleware.CORS(mux)
}

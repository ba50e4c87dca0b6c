package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"appforge/internal/gateway/repository/artifact"
	projectrepo "appforge/internal/gateway/repository/project"
	projectuc "appforge/internal/gateway/usecase/project"
)

func (s *Service) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.projects.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Service) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if r.URL.Query().Get("includeMessages") == "true" {
		p, msgs, err := s.projects.GetWithMessages(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"project": p, "messages": msgs})
		return
	}
	p, err := s.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *Service) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.projects.Update(r.Context(), r.PathValue("id"), projectrepo.Patch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Service) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Service) HandleProjectState(w http.ResponseWriter, r *http.Request) {
	st, err := s.projects.DerivedState(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type appendContextRequest struct {
	Content json.RawMessage `json:"content"`
}

func (s *Service) HandleAppendContext(w http.ResponseWriter, r *http.Request) {
	var req appendContextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.projects.AppendContext(r.Context(), r.PathValue("id"), req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"accepted": true})
}

func (s *Service) HandleListArtifacts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.projects.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	names, err := s.artifacts.List(r.Context(), id)
	if err != nil {
		writeError(w, &projectuc.PersistenceError{Op: "artifact.list", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifacts": names})
}

// HandlePutArtifact stores one generated file for a project. The body is the
// raw file content.
func (s *Service) HandlePutArtifact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.projects.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	path := r.PathValue("path")
	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read request body: " + err.Error()})
		return
	}
	if err := s.artifacts.Put(r.Context(), id, path, content); err != nil {
		writeError(w, &projectuc.PersistenceError{Op: "artifact.put", Err: err})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *Service) HandleGetArtifact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.projects.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	path := r.PathValue("path")
	if r.URL.Query().Get("url") == "true" {
		url, err := s.artifacts.GetURL(r.Context(), id, path)
		if err != nil {
			writeArtifactErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}
	content, err := s.artifacts.Get(r.Context(), id, path)
	if err != nil {
		writeArtifactErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func writeArtifactErr(w http.ResponseWriter, err error) {
	if errors.Is(err, artifact.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	writeError(w, &projectuc.PersistenceError{Op: "artifact.get", Err: err})
}

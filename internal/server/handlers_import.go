package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/go-chi/chi/v5"
)

// maxImportSize bounds an uploaded workout log.
const maxImportSize = 1 << 20

// handleStageImport accepts a log either as a multipart "file" field or as
// the raw request body, with ?name= naming it.
func (s *Server) handleStageImport(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, "date")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	name := r.URL.Query().Get("name")
	var content []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field required: " + err.Error()})
			return
		}
		defer f.Close()
		if name == "" {
			name = hdr.Filename
		}
		content, err = io.ReadAll(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading file: " + err.Error()})
			return
		}
	} else {
		content, err = io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
			return
		}
	}
	if len(content) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty file"})
		return
	}
	if name == "" {
		name = "upload.txt"
	}

	plan, err := s.importer.Stage(r.Context(), name, content, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleImportPlan(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, "date")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	plan, err := s.importer.Plan(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type aliasRequest struct {
	Name       string `json:"name"`
	ExerciseID int64  `json:"exercise_id"`
}

func (s *Server) handleConfirmAlias(w http.ResponseWriter, r *http.Request) {
	var req aliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" || req.ExerciseID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and exercise_id are required"})
		return
	}
	plan, err := s.importer.ConfirmAlias(r.Context(), chi.URLParam(r, "id"), req.Name, req.ExerciseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type importExerciseRequest struct {
	Name         string `json:"name"`
	ExerciseName string `json:"exercise_name"`
	Category     string `json:"category"`
	BodyPart     string `json:"body_part"`
}

func (s *Server) handleImportAddExercise(w http.ResponseWriter, r *http.Request) {
	var req importExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	plan, err := s.importer.AddExercise(r.Context(), chi.URLParam(r, "id"), req.Name, models.Exercise{
		Name: req.ExerciseName, Category: req.Category, BodyPart: req.BodyPart,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCommitImport(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, "date")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := s.importer.Commit(r.Context(), chi.URLParam(r, "id"), date)
	if s.inst != nil {
		s.inst.ObserveImport(err)
	}
	if err != nil {
		s.writeError(w, fmt.Errorf("commit: %w", err))
		return
	}
	s.reports.Invalidate()
	s.log.Info("import committed", "session_id", result.SessionID, "sets", result.SetsInserted)
	writeJSON(w, http.StatusOK, result)
}

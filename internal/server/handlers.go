package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/dashboard"
	"github.com/claude/liftlog/internal/ingest/txtlog"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := s.reports.Metrics(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleMetricGroup(w http.ResponseWriter, r *http.Request) {
	body, err := s.reports.Group(r.Context(), r.URL.Query().Get("month"), chi.URLParam(r, "group"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := s.reports.Sets(r.Context(), q.Get("month"), q.Get("exercise"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	body, err := s.reports.KPI(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.reports.ListExercises(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDataStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := s.store.QueryImportLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if logs == nil {
		logs = []storage.ImportLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var e models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(e.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	e.ID = 0

	created, err := s.store.AddExercise(r.Context(), e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

type measurementRequest struct {
	Date    string   `json:"date"`
	Chest   *float64 `json:"chest"`
	Waist   *float64 `json:"waist"`
	Abdomen *float64 `json:"abdomen"`
	Hips    *float64 `json:"hips"`
	Thigh   *float64 `json:"thigh"`
	Calf    *float64 `json:"calf"`
	Biceps  *float64 `json:"biceps"`
}

func (s *Server) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	row := models.BodyMeasurementRow{
		Date: date, Chest: req.Chest, Waist: req.Waist, Abdomen: req.Abdomen,
		Hips: req.Hips, Thigh: req.Thigh, Calf: req.Calf, Biceps: req.Biceps,
	}
	if row.Empty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one circumference is required"})
		return
	}

	id, err := s.store.InsertBodyMeasurement(r.Context(), row)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type compositionRequest struct {
	Date          string   `json:"date"`
	Weight        float64  `json:"weight"`
	MuscleMass    *float64 `json:"muscle_mass"`
	FatMass       *float64 `json:"fat_mass"`
	WaterMass     *float64 `json:"water_mass"`
	FatPercentage *float64 `json:"body_fat_percentage"`
	Method        string   `json:"method"`
}

func (s *Server) handleAddComposition(w http.ResponseWriter, r *http.Request) {
	var req compositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.Weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight must be positive"})
		return
	}

	id, err := s.store.UpsertBodyComposition(r.Context(), models.BodyComposition{
		Date: date, Weight: req.Weight, MuscleMass: req.MuscleMass, FatMass: req.FatMass,
		WaterMass: req.WaterMass, FatPercentage: req.FatPercentage, Method: req.Method,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	if err := s.store.DeleteSession(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.reports.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, metrics.ErrInvalidMonth),
		errors.Is(err, txtlog.ErrUnknownExercise),
		errors.Is(err, txtlog.ErrUnknownName):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownGroup),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, txtlog.ErrNotStaged):
		status = http.StatusNotFound
	case errors.Is(err, txtlog.ErrUnresolved),
		errors.Is(err, storage.ErrExists):
		status = http.StatusConflict
	case errors.Is(err, txtlog.ErrNoBlocks),
		errors.Is(err, txtlog.ErrNoDate):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// parseDate reads an optional YYYY-MM-DD query parameter.
func parseDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return nil, errors.New(name + " must be YYYY-MM-DD")
	}
	return &d, nil
}

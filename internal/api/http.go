package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"PhoneStore/internal/analytics"
	"PhoneStore/internal/phone"
	"PhoneStore/pkg/kit"
)

const (
	msgNotFound = "Phone not found"
	msgBadID    = "invalid id"
)

type Server struct {
	Store    *phone.Store
	Log      *zap.Logger
	Validate *validator.Validate

	// MaxUploadBytes caps the multipart body of an upload.
	MaxUploadBytes int64
}

func NewServer(store *phone.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Store:          store,
		Log:            log,
		Validate:       newValidator(),
		MaxUploadBytes: defaultMaxUpload,
	}
}

func (s *Server) Routes(uploadLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/phones", s.list)
		r.Post("/phones", s.create)
		r.Get("/phones/{id}", s.get)
		r.Put("/phones/{id}", s.update)
		r.Delete("/phones/{id}", s.delete)

		r.Get("/analytics", s.analytics)
		r.Get("/export", s.export)

		if uploadLimit != nil {
			r.With(uploadLimit).Post("/upload", s.upload)
		} else {
			r.Post("/upload", s.upload)
		}
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	recs := s.Store.LoadAll(r.Context()).Records
	kit.WriteList(w, recs, len(recs))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, found := s.Store.Get(r.Context(), id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound, map[string]any{"id": id})
		return
	}
	kit.WriteData(w, http.StatusOK, "", rec)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.trim()
	if err := s.Validate.Struct(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "brand or model is required", validationDetails(err))
		return
	}

	rec, err := s.Store.Create(r.Context(), req.fields())
	if err != nil {
		s.writeStoreError(w, r, "Failed to add phone", err)
		return
	}
	kit.WriteData(w, http.StatusCreated, "Phone added successfully", rec)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var u phone.Update
	if err := decodeJSON(w, r, &u); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	trimUpdate(&u)

	// An update that empties both brand and model would make the record
	// vanish on the next load.
	if u.Brand != nil && *u.Brand == "" && u.Model != nil && *u.Model == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "brand or model is required", nil)
		return
	}

	rec, found, err := s.Store.Update(r.Context(), id, u)
	if errors.Is(err, phone.ErrBlankRecord) {
		kit.WriteError(w, r, http.StatusBadRequest, "brand or model is required", nil)
		return
	}
	if err != nil {
		s.writeStoreError(w, r, "Failed to update phone", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound, map[string]any{"id": id})
		return
	}
	kit.WriteData(w, http.StatusOK, "Phone updated successfully", rec)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, found, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "Failed to delete phone", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, msgNotFound, map[string]any{"id": id})
		return
	}
	kit.WriteData(w, http.StatusOK, "Phone deleted successfully", rec)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	recs := s.Store.LoadAll(r.Context()).Records
	kit.WriteData(w, http.StatusOK, "", analytics.Compute(recs))
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var reason string
	switch {
	case errors.Is(err, phone.ErrLoadFailed):
		reason = "phone data could not be read"
	case errors.Is(err, phone.ErrSaveFailed):
		reason = "phone data could not be saved"
	default:
		reason = "unexpected error"
	}

	s.Log.Error(msg, zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, msg, map[string]any{"reason": reason})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

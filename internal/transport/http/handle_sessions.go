package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-battle-service/internal/app"
	"quiz-battle-service/internal/domain"
)

type CreateSessionRequest struct {
	CatalogID string `json:"catalogId,omitempty" description:"Catalog to play; the server default when empty."`
}

type SessionResponse struct {
	SessionID string          `json:"sessionId"`
	Snapshot  domain.Snapshot `json:"snapshot"`
}

// ActionResponse carries the snapshot after an action. Error is set when the
// action was rejected; the snapshot is then unchanged.
type ActionResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Error    string          `json:"error,omitempty"`
}

type CatalogResponse struct {
	CatalogID  string                   `json:"catalogId"`
	Categories []domain.CategorySummary `json:"categories"`
}

func handleCreateSession(service *app.GameService, defaultCatalog string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		catalogID := req.CatalogID
		if catalogID == "" {
			catalogID = defaultCatalog
		}
		if catalogID == "" {
			writeError(w, http.StatusBadRequest, "missing catalogId")
			return
		}

		id, snap, err := service.CreateSession(r.Context(), catalogID)
		if err != nil {
			writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), SessionID: id})
			return
		}
		writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id, Snapshot: snap})
	}
}

func handleGetSession(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		snap, err := service.Snapshot(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, Snapshot: snap})
	}
}

func handleDeleteSession(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAction(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var action domain.Action
		if err := readJSON(r, &action); err != nil {
			writeError(w, http.StatusBadRequest, "invalid action payload")
			return
		}
		snap, err := service.Dispatch(r.Context(), chi.URLParam(r, "id"), action)
		if err != nil {
			if domain.IsValidation(err) {
				writeJSON(w, http.StatusUnprocessableEntity, ActionResponse{Snapshot: snap, Error: err.Error()})
				return
			}
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ActionResponse{Snapshot: snap})
	}
}

func handleGetCatalog(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		categories, err := service.Categories(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, CatalogResponse{CatalogID: id, Categories: categories})
	}
}

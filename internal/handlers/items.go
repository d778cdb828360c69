package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stashkeep/stash-api/internal/auth"
	"github.com/stashkeep/stash-api/internal/httpx"
	"github.com/stashkeep/stash-api/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100

	maxNameLength        = 256
	maxDescriptionLength = 4096
)

// ItemsHandler serves the item CRUD surface.
type ItemsHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewItemsHandler(s store.Store, logger *zap.Logger) *ItemsHandler {
	return &ItemsHandler{store: s, logger: logger}
}

// CreateItemRequest is the create payload.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (r *CreateItemRequest) validate() error {
	if r.Name == "" || len(r.Name) > maxNameLength {
		return errors.New("name must be 1-256 characters")
	}
	if len(r.Description) > maxDescriptionLength {
		return errors.New("description must be under 4096 characters")
	}
	return nil
}

// ListItemsResponse wraps a page of items with its count.
type ListItemsResponse struct {
	Items []store.Item `json:"items"`
	Count int          `json:"count"`
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	items, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	if principal, ok := auth.PrincipalFrom(r.Context()); ok {
		h.logger.Debug("listed items", zap.Int("count", len(items)), zap.String("sub", principal.ID))
	} else {
		h.logger.Debug("listed items anonymously", zap.Int("count", len(items)))
	}

	httpx.WriteJSON(w, http.StatusOK, ListItemsResponse{Items: items, Count: len(items)})
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	item := store.Item{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.Create(r.Context(), item); err != nil {
		h.logger.Error("failed to create item", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.logger.Info("created item", zap.String("id", item.ID), zap.String("sub", subjectFrom(r)))

	httpx.WriteJSON(w, http.StatusCreated, item)
}

func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing item ID")
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get item", zap.String("id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing item ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete item", zap.String("id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.logger.Info("deleted item", zap.String("id", id), zap.String("sub", subjectFrom(r)))

	httpx.WriteNoContent(w)
}

func subjectFrom(r *http.Request) string {
	if principal, ok := auth.PrincipalFrom(r.Context()); ok {
		return principal.ID
	}
	return ""
}

package note

import (
	"errors"
	"net/http"

	"github.com/oculusrep/commission-api/internal/auth"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type NoteRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

// Create handles POST /deals/{id}/notes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	var req NoteRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	brokerID, ok := auth.BrokerID(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	db := h.DB.WithContext(r.Context())
	if err := db.Select("id").First(&models.Deal{}, dealID).Error; err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}

	n := models.Note{Text: req.Text, DealID: dealID, BrokerID: &brokerID}
	if err := h.Repository.Create(db, &n); err != nil {
		http.Error(w, "error saving note", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

// List handles GET /deals/{id}/notes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	notes, err := h.Repository.ListByDeal(h.DB.WithContext(r.Context()), dealID)
	if err != nil {
		http.Error(w, "error listing notes", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, notes)
}

// Update handles PUT /notes/{id}. Only the author or an admin may edit, and
// system entries are read-only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadEditable(w, r)
	if !ok {
		return
	}
	var req NoteRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	db := h.DB.WithContext(r.Context())
	if err := h.Repository.UpdateText(db, n.ID, req.Text); err != nil {
		http.Error(w, "error updating note", http.StatusInternalServerError)
		return
	}
	n.Text = req.Text
	httpx.JSON(w, http.StatusOK, n)
}

// Delete handles DELETE /notes/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadEditable(w, r)
	if !ok {
		return
	}
	if err := h.Repository.Delete(h.DB.WithContext(r.Context()), n.ID); err != nil {
		http.Error(w, "error deleting note", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadEditable(w http.ResponseWriter, r *http.Request) (*models.Note, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return nil, false
	}
	n, err := h.Repository.FindByID(h.DB.WithContext(r.Context()), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "note not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "error loading note", http.StatusInternalServerError)
		return nil, false
	}
	if n.IsSystem {
		http.Error(w, "system notes cannot be changed", http.StatusForbidden)
		return nil, false
	}
	brokerID, _ := auth.BrokerID(r.Context())
	if !auth.IsAdmin(r.Context()) && (n.BrokerID == nil || *n.BrokerID != brokerID) {
		http.Error(w, "only the author can change this note", http.StatusForbidden)
		return nil, false
	}
	return n, true
}

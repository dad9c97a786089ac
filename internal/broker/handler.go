package broker

import (
	"errors"
	"log"
	"net/http"

	"github.com/oculusrep/commission-api/internal/auth"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Login checks the credentials and issues an access token plus refresh cookie.
//
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	db := h.DB.WithContext(r.Context())
	b, err := h.Repository.FindByEmail(db, req.Email)
	if err != nil || !b.Active || !utils.CheckPassword(b.Password, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	tokens, err := auth.IssueTokensOnLogin(db, w, b.ID, b.IsAdmin)
	if err != nil {
		log.Printf("[broker] issue tokens broker=%d: %v", b.ID, err)
		http.Error(w, "error issuing token", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, tokens)
}

// List handles GET /brokers. Every broker may see the roster, used to pick
// brokers for commission splits.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(h.DB.WithContext(r.Context()))
	if err != nil {
		http.Error(w, "error listing brokers", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Me handles GET /brokers/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.BrokerID(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	h.writeBroker(w, r, id)
}

// Get handles GET /brokers/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid broker id", http.StatusBadRequest)
		return
	}
	h.writeBroker(w, r, id)
}

func (h *Handler) writeBroker(w http.ResponseWriter, r *http.Request, id uint) {
	b, err := h.Repository.FindByID(h.DB.WithContext(r.Context()), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "broker not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading broker", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /brokers (admin only). Without a password a temporary
// one is generated and returned once.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	db := h.DB.WithContext(r.Context())
	if _, err := h.Repository.FindByEmail(db, req.Email); err == nil {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	password, temporary := req.Password, ""
	if password == "" {
		var err error
		if password, err = utils.TemporaryPassword(); err != nil {
			http.Error(w, "error generating password", http.StatusInternalServerError)
			return
		}
		temporary = password
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		http.Error(w, "error processing password", http.StatusInternalServerError)
		return
	}

	b := models.Broker{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: hash, IsAdmin: req.IsAdmin, Active: true}
	if err := h.Repository.Save(db, &b); err != nil {
		http.Error(w, "error saving broker", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreateResponse{
		ID:                b.ID,
		Name:              b.Name,
		Email:             b.Email,
		IsAdmin:           b.IsAdmin,
		TemporaryPassword: temporary,
	})
}

// Update handles PUT /brokers/{id}. Brokers may edit themselves; role and
// active flags are admin only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid broker id", http.StatusBadRequest)
		return
	}
	caller, _ := auth.BrokerID(r.Context())
	admin := auth.IsAdmin(r.Context())
	if !admin && caller != id {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req UpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !admin && (req.IsAdmin != nil || req.Active != nil) {
		http.Error(w, "only admins can change roles", http.StatusForbidden)
		return
	}

	db := h.DB.WithContext(r.Context())
	b, err := h.Repository.FindByID(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "broker not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading broker", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Phone != nil {
		b.Phone = *req.Phone
	}
	if req.IsAdmin != nil {
		b.IsAdmin = *req.IsAdmin
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "error processing password", http.StatusInternalServerError)
			return
		}
		b.Password = hash
	}
	if err := h.Repository.Save(db, b); err != nil {
		http.Error(w, "error saving broker", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /brokers/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid broker id", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Delete(h.DB.WithContext(r.Context()), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "broker not found", http.StatusNotFound)
			return
		}
		http.Error(w, "error deleting broker", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

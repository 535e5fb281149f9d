package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/web"
)

type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var all []Service
	if err := h.DB.WithContext(r.Context()).
		Order("category, price").Find(&all).Error; err != nil {
		h.Log.Error("list services", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch services")
		return
	}
	web.OK(w, web.Envelope{"services": all})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid service id")
		return
	}

	var svc Service
	if err := h.DB.WithContext(r.Context()).First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.Fail(w, http.StatusNotFound, "Service not found")
			return
		}
		h.Log.Error("get service", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch service")
		return
	}
	web.OK(w, web.Envelope{"service": svc})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Price       float64  `json:"price"`
		Features    []string `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Category == "" {
		web.Fail(w, http.StatusBadRequest, "Name and category are required")
		return
	}

	svc := Service{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Features:    req.Features,
	}
	if err := h.DB.WithContext(r.Context()).Create(&svc).Error; err != nil {
		h.Log.Error("create service", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to create service")
		return
	}
	web.OK(w, web.Envelope{"id": svc.ID})
}

// UpdateInput is the optional-field diff for partial updates. Absent fields
// leave the stored value untouched.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Features    *[]string `json:"features"`
}

// Columns materializes the diff as a GORM update map.
func (in UpdateInput) Columns() map[string]any {
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.Description != nil {
		cols["description"] = *in.Description
	}
	if in.Category != nil {
		cols["category"] = *in.Category
	}
	if in.Price != nil {
		cols["price"] = *in.Price
	}
	if in.Features != nil {
		cols["features"] = pq.StringArray(*in.Features)
	}
	return cols
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid service id")
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	cols := in.Columns()
	if len(cols) == 0 {
		web.Fail(w, http.StatusBadRequest, "No fields to update")
		return
	}

	res := h.DB.WithContext(r.Context()).Model(&Service{}).
		Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		h.Log.Error("update service", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to update service")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Service not found")
		return
	}
	web.OK(w, nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid service id")
		return
	}

	res := h.DB.WithContext(r.Context()).Where("id = ?", id).Delete(&Service{})
	if res.Error != nil {
		h.Log.Error("delete service", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Service not found")
		return
	}
	web.OK(w, nil)
}

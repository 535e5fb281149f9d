package enquiries

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/utils"
	"github.com/cybershield-it/backend/internal/web"
)

type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Create is the public contact-form endpoint.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Service string `json:"service"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		web.Fail(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	enquiry := Enquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
		Status:  StatusNew,
	}
	if err := h.DB.WithContext(r.Context()).Create(&enquiry).Error; err != nil {
		h.Log.Error("create enquiry", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to create enquiry")
		return
	}
	web.OK(w, web.Envelope{"id": enquiry.ID})
}

// List returns enquiries newest first, optionally filtered by ?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := h.DB.WithContext(r.Context()).Model(&Enquiry{})

	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		if !validStatus(status) {
			web.Fail(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		query = query.Where("status = ?", status)
	}

	var all []Enquiry
	if err := query.Order("created_at DESC").Find(&all).Error; err != nil {
		h.Log.Error("list enquiries", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch enquiries")
		return
	}
	web.OK(w, web.Envelope{"enquiries": all})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid enquiry id")
		return
	}

	var enquiry Enquiry
	if err := h.DB.WithContext(r.Context()).First(&enquiry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.Fail(w, http.StatusNotFound, "Enquiry not found")
			return
		}
		h.Log.Error("get enquiry", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch enquiry")
		return
	}
	web.OK(w, web.Envelope{"enquiry": enquiry})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid enquiry id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if !validStatus(req.Status) {
		web.Fail(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	res := h.DB.WithContext(r.Context()).Model(&Enquiry{}).
		Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		h.Log.Error("update enquiry status", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to update enquiry status")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Enquiry not found")
		return
	}
	web.OK(w, nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid enquiry id")
		return
	}

	res := h.DB.WithContext(r.Context()).Where("id = ?", id).Delete(&Enquiry{})
	if res.Error != nil {
		h.Log.Error("delete enquiry", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to delete enquiry")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Enquiry not found")
		return
	}
	web.OK(w, nil)
}

// Export streams every enquiry as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var all []Enquiry
	if err := h.DB.WithContext(r.Context()).
		Order("created_at DESC").Find(&all).Error; err != nil {
		h.Log.Error("export enquiries", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to export enquiries")
		return
	}
	if len(all) == 0 {
		web.Fail(w, http.StatusNotFound, "No enquiries to export")
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	h.Log.Info("enquiries exported",
		zap.Int("count", len(all)),
		zap.Uint("exported_by", adminID))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="enquiries.csv"`)
	if err := WriteCSV(w, all); err != nil {
		h.Log.Error("write enquiries csv", zap.Error(err))
	}
}

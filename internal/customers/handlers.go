package customers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/auth"
	"github.com/cybershield-it/backend/internal/utils"
	"github.com/cybershield-it/backend/internal/web"
)

type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger

	hasher auth.Hasher
}

func toCustomer(u *auth.User) Customer {
	return Customer{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Company:  u.Company,
		Phone:    u.Phone,
		Status:   u.Status,
		JoinDate: u.CreatedAt,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var users []auth.User
	if err := h.DB.WithContext(r.Context()).
		Where("role = ?", auth.RoleCustomer).
		Order("created_at DESC").Find(&users).Error; err != nil {
		h.Log.Error("list customers", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}

	out := make([]Customer, 0, len(users))
	for i := range users {
		out = append(out, toCustomer(&users[i]))
	}
	web.OK(w, web.Envelope{"customers": out})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var user auth.User
	if err := h.DB.WithContext(r.Context()).
		First(&user, "id = ? AND role = ?", id, auth.RoleCustomer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.Fail(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.Log.Error("get customer", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}

	var assigned []AssignedService
	if err := h.DB.WithContext(r.Context()).
		Table("crm.customer_services AS cs").
		Select("cs.id, s.name, s.description, s.category, s.price, cs.status, cs.start_date, cs.renewal_date").
		Joins("JOIN catalog.services s ON s.id = cs.service_id").
		Where("cs.user_id = ?", user.ID).
		Order("cs.created_at DESC").
		Scan(&assigned).Error; err != nil {
		h.Log.Error("get customer services", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}

	web.OK(w, web.Envelope{"customer": toCustomer(&user), "services": assigned})
}

// Create registers a customer from the admin console. It reuses the auth
// hasher so the account gets a real credential, not a placeholder.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Company  string `json:"company"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		web.Fail(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		web.Fail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	var existing auth.User
	err := h.DB.WithContext(r.Context()).First(&existing, "email = ?", req.Email).Error
	if err == nil {
		web.Fail(w, http.StatusConflict, "Email already in use")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("create customer: email lookup", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.Log.Error("create customer: hash", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	user := auth.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Company:      req.Company,
		Phone:        req.Phone,
		Role:         auth.RoleCustomer,
		Status:       auth.StatusActive,
	}
	if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		h.Log.Error("create customer", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	web.OK(w, web.Envelope{"id": user.ID})
}

// UpdateInput is the optional-field diff for partial customer updates.
type UpdateInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Status  *string `json:"status"`
}

var validStatuses = map[string]struct{}{
	auth.StatusActive:   {},
	auth.StatusInactive: {},
	auth.StatusPending:  {},
}

// Columns materializes the diff as a GORM update map. Returns an error message
// for invalid values, empty string otherwise.
func (in UpdateInput) Columns() (map[string]any, string) {
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.Email != nil && *in.Email != "" {
		cols["email"] = *in.Email
	}
	if in.Company != nil {
		cols["company"] = *in.Company
	}
	if in.Phone != nil {
		cols["phone"] = *in.Phone
	}
	if in.Status != nil {
		if _, ok := validStatuses[*in.Status]; !ok {
			return nil, "Invalid status value"
		}
		cols["status"] = *in.Status
	}
	return cols, ""
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	cols, msg := in.Columns()
	if msg != "" {
		web.Fail(w, http.StatusBadRequest, msg)
		return
	}
	if len(cols) == 0 {
		web.Fail(w, http.StatusBadRequest, "No fields to update")
		return
	}

	if email, ok := cols["email"]; ok {
		var other auth.User
		err := h.DB.WithContext(r.Context()).
			First(&other, "email = ? AND id != ?", email, id).Error
		if err == nil {
			web.Fail(w, http.StatusConflict, "Email already in use")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Log.Error("update customer: email lookup", zap.Error(err))
			web.Fail(w, http.StatusInternalServerError, "Failed to update customer")
			return
		}
	}

	res := h.DB.WithContext(r.Context()).Model(&auth.User{}).
		Where("id = ? AND role = ?", id, auth.RoleCustomer).Updates(cols)
	if res.Error != nil {
		h.Log.Error("update customer", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Customer not found")
		return
	}
	web.OK(w, nil)
}

// Delete removes the customer, their service assignments, and their sessions
// as one transaction; a failed step leaves the customer intact.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	notFound := errors.New("customer not found")
	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&ServiceAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&auth.Session{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND role = ?", id, auth.RoleCustomer).Delete(&auth.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound
		}
		return nil
	})
	if errors.Is(err, notFound) {
		web.Fail(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		h.Log.Error("delete customer", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	h.Log.Info("customer deleted",
		zap.Int("customer_id", id),
		zap.Uint("deleted_by", adminID))
	web.OK(w, nil)
}

func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var req struct {
		ServiceID   uint       `json:"service_id"`
		RenewalDate *time.Time `json:"renewal_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.ServiceID == 0 {
		web.Fail(w, http.StatusBadRequest, "service_id is required")
		return
	}

	var customer auth.User
	if err := h.DB.WithContext(r.Context()).
		First(&customer, "id = ? AND role = ?", id, auth.RoleCustomer).Error; err != nil {
		web.Fail(w, http.StatusNotFound, "Customer not found")
		return
	}

	var count int64
	if err := h.DB.WithContext(r.Context()).
		Table("catalog.services").Where("id = ?", req.ServiceID).
		Count(&count).Error; err != nil || count == 0 {
		web.Fail(w, http.StatusNotFound, "Service not found")
		return
	}

	var existing ServiceAssignment
	err = h.DB.WithContext(r.Context()).
		First(&existing, "user_id = ? AND service_id = ?", id, req.ServiceID).Error
	if err == nil {
		web.Fail(w, http.StatusConflict, "Customer already has this service")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("add service: assignment lookup", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to add service to customer")
		return
	}

	renewal := time.Now().AddDate(1, 0, 0)
	if req.RenewalDate != nil {
		renewal = *req.RenewalDate
	}
	assignment := ServiceAssignment{
		UserID:      uint(id),
		ServiceID:   req.ServiceID,
		Status:      AssignmentActive,
		RenewalDate: renewal,
	}
	if err := h.DB.WithContext(r.Context()).Create(&assignment).Error; err != nil {
		h.Log.Error("add service", zap.Error(err))
		web.Fail(w, http.StatusInternalServerError, "Failed to add service to customer")
		return
	}
	web.OK(w, web.Envelope{"id": assignment.ID})
}

func (h *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	assignmentID, err := strconv.Atoi(chi.URLParam(r, "assignmentID"))
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	res := h.DB.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", assignmentID, id).
		Delete(&ServiceAssignment{})
	if res.Error != nil {
		h.Log.Error("remove service", zap.Error(res.Error))
		web.Fail(w, http.StatusInternalServerError, "Failed to remove service from customer")
		return
	}
	if res.RowsAffected == 0 {
		web.Fail(w, http.StatusNotFound, "Service not found for this customer")
		return
	}
	web.OK(w, nil)
}

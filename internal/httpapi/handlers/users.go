package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/models"
)

type addUserReq struct {
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	Department   string      `json:"department"`
	Designation  string      `json:"designation"`
	EmployeeCode string      `json:"employee_code"`
}

// AddUser provisions an account from the admin dashboard.
func (h *Handler) AddUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if !auth.CanManageUsers(actor) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var req addUserReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" || req.EmployeeCode == "" {
		jsonError(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleTechnician, models.RoleEmployee:
	default:
		jsonError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	var cnt int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR email = ? OR employee_code = ?", req.Username, req.Email, req.EmployeeCode).
		Count(&cnt).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	if cnt > 0 {
		jsonError(c, http.StatusBadRequest, "Username, email or employee code already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Department:   req.Department,
		Designation:  req.Designation,
		EmployeeCode: req.EmployeeCode,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		jsonError(c, http.StatusBadRequest, "Failed to create user")
		return
	}

	success(c, gin.H{"id": user.ID, "username": user.Username})
}

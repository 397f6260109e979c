package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/common"
	"github.com/suPer8Hu/helpdesk/internal/models"
)

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}

	token, err := auth.SignJWT(user.ID, user.Role, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"token":    token,
	})
}

type registerReq struct {
	Username     string      `json:"username" binding:"required"`
	Email        string      `json:"email" binding:"required"`
	Password     string      `json:"password" binding:"required"`
	Role         models.Role `json:"role" binding:"required"`
	Department   string      `json:"department"`
	Designation  string      `json:"designation"`
	EmployeeCode string      `json:"employee_code" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleTechnician, models.RoleEmployee:
	default:
		common.Fail(c, http.StatusBadRequest, 10005, "invalid role")
		return
	}

	uniqueChecks := []struct {
		col  string
		val  string
		code int
		msg  string
	}{
		{"username", req.Username, 10010, "username already exists"},
		{"email", req.Email, 10011, "email already exists"},
		{"employee_code", req.EmployeeCode, 10012, "employee code already exists"},
	}
	for _, chk := range uniqueChecks {
		var cnt int64
		if err := h.DB.Model(&models.User{}).Where(chk.col+" = ?", chk.val).Count(&cnt).Error; err != nil {
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
			return
		}
		if cnt > 0 {
			common.Fail(c, http.StatusBadRequest, chk.code, chk.msg)
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
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
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user")
		return
	}

	common.OK(c, gin.H{"id": user.ID, "username": user.Username})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"department":    user.Department,
		"designation":   user.Designation,
		"employee_code": user.EmployeeCode,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

func complaintID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid complaint id")
		return 0, false
	}
	return id, true
}

type createComplaintReq struct {
	Issue string `json:"issue"`
}

// CreateComplaint is the direct (non-chatbot) intake for employees.
func (h *Handler) CreateComplaint(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.Role != models.RoleEmployee {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	var req createComplaintReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Issue == "" {
		jsonError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	created, err := h.Tickets.CreateManual(c.Request.Context(), *user, req.Issue)
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrNoTechnicians):
			jsonError(c, http.StatusInternalServerError, "No technicians available")
		case errors.Is(err, ticket.ErrMissingProblem):
			jsonError(c, http.StatusBadRequest, "Invalid request data")
		default:
			jsonError(c, http.StatusInternalServerError, "Failed to save complaint")
		}
		return
	}

	success(c, gin.H{
		"complaint_no":        created.ComplaintNo,
		"assigned_technician": created.TechnicianName,
	})
}

// GetComplaint returns the normalized detail projection, role-gated.
func (h *Handler) GetComplaint(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	complaint, err := h.Tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}

	if !auth.CanViewComplaint(actor, complaint) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, complaintProjection(complaint))
}

func complaintProjection(complaint *models.Complaint) gin.H {
	var technician gin.H
	if complaint.Technician != nil {
		technician = gin.H{"username": complaint.Technician.Username}
	}

	name := complaint.EmployeeName
	if name == "" {
		name = complaint.User.Username
	}
	designation := complaint.EmployeeDesignation
	if designation == "" {
		designation = complaint.User.Designation
	}
	department := complaint.EmployeeDepartment
	if department == "" {
		department = complaint.User.Department
	}

	comments := make([]gin.H, 0, len(complaint.Comments))
	for i := range complaint.Comments {
		cm := &complaint.Comments[i]
		comments = append(comments, gin.H{
			"content":    cm.Content,
			"created_at": cm.CreatedAt,
			"user":       gin.H{"username": cm.User.Username},
		})
	}

	return gin.H{
		"complaint_no":          complaint.ComplaintNo,
		"issue":                 complaint.Issue,
		"status":                complaint.Status,
		"priority":              complaint.Priority,
		"created_at":            complaint.CreatedAt,
		"resolved_at":           complaint.ResolvedAt,
		"technician":            technician,
		"employee_name":         name,
		"employee_designation":  designation,
		"employee_department":   department,
		"troubleshooting_steps": complaint.TroubleshootingSteps,
		"resolution_attempted":  complaint.ResolutionAttempted,
		"comments":              comments,
	}
}

type updateStatusReq struct {
	Status models.Status `json:"status"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidStatus(req.Status) {
		jsonError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	complaint, err := h.Tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	if !auth.CanUpdateStatus(actor, complaint) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.Tickets.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, nil)
}

type updatePriorityReq struct {
	Priority models.Priority `json:"priority"`
}

func (h *Handler) UpdatePriority(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if !auth.CanChangePriority(actor) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req updatePriorityReq
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidPriority(req.Priority) {
		jsonError(c, http.StatusBadRequest, "Missing priority in request")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Tickets.UpdatePriority(c.Request.Context(), *user, id, req.Priority); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, nil)
}

type assignReq struct {
	TechnicianID uint64 `json:"technician_id"`
}

func (h *Handler) AssignTechnician(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if !auth.CanReassign(actor) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil || req.TechnicianID == 0 {
		jsonError(c, http.StatusBadRequest, "Missing technician_id in request")
		return
	}

	if err := h.Tickets.Reassign(c.Request.Context(), id, req.TechnicianID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint or technician not found")
			return
		}
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, nil)
}

type commentReq struct {
	Content string `json:"content"`
}

func (h *Handler) AddComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		jsonError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	complaint, err := h.Tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	if !auth.CanComment(actor, complaint) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.Tickets.AddComment(c.Request.Context(), actor.ID, id, req.Content); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, nil)
}

// DeleteComplaint is permanent and cascades to comments.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if !auth.CanDeleteComplaint(actor) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}
	id, ok := complaintID(c)
	if !ok {
		return
	}

	if err := h.Tickets.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Complaint not found")
			return
		}
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, nil)
}

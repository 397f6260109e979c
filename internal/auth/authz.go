package auth

import "github.com/suPer8Hu/helpdesk/internal/models"

// Authorization rules live here as pure functions of (actor, resource) so the
// storage layer never has to know about roles.

type Actor struct {
	ID   uint64
	Role models.Role
}

// CanViewComplaint: admins see everything, employees their own reports,
// technicians only complaints assigned to them.
func CanViewComplaint(actor Actor, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleEmployee:
		return c.UserID == actor.ID
	case models.RoleTechnician:
		return c.TechnicianID != nil && *c.TechnicianID == actor.ID
	}
	return false
}

// CanUpdateStatus: the assigned technician or any admin.
func CanUpdateStatus(actor Actor, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTechnician:
		return c.TechnicianID != nil && *c.TechnicianID == actor.ID
	}
	return false
}

// CanComment: only the complaint's currently assigned technician.
func CanComment(actor Actor, c *models.Complaint) bool {
	if actor.Role != models.RoleTechnician {
		return false
	}
	return c.TechnicianID != nil && *c.TechnicianID == actor.ID
}

func CanChangePriority(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanReassign(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanDeleteComplaint(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanManageUsers(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanExport(actor Actor) bool { return actor.Role == models.RoleAdmin }

package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleEmployee   Role = "employee"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusEscalated  Status = "Escalated"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusEscalated:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(120);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);index;not null" json:"role"`
	Department   string `gorm:"type:varchar(50)" json:"department"`
	Designation  string `gorm:"type:varchar(50)" json:"designation"`
	EmployeeCode string `gorm:"type:varchar(20);uniqueIndex" json:"employee_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Complaint struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintNo  string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"complaint_no"`
	UserID       uint64  `gorm:"index;not null" json:"user_id"`
	TechnicianID *uint64 `gorm:"index" json:"technician_id,omitempty"`

	Issue    string   `gorm:"type:text;not null" json:"issue"`
	Status   Status   `gorm:"type:varchar(20);index;not null;default:Open" json:"status"`
	Priority Priority `gorm:"type:varchar(20);index;not null;default:Medium" json:"priority"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// snapshot of the chatbot intake; later profile edits do not change these
	EmployeeName        string `gorm:"type:varchar(100)" json:"employee_name"`
	EmployeeDesignation string `gorm:"type:varchar(100)" json:"employee_designation"`
	EmployeeDepartment  string `gorm:"type:varchar(100)" json:"employee_department"`

	TroubleshootingSteps string `gorm:"type:text" json:"troubleshooting_steps"`
	ResolutionAttempted  bool   `gorm:"not null;default:false" json:"resolution_attempted"`

	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Technician *User     `gorm:"foreignKey:TechnicianID" json:"-"`
	Comments   []Comment `gorm:"foreignKey:ComplaintID" json:"-"`
}

func (Complaint) TableName() string { return "complaints" }

type Comment struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID uint64    `gorm:"index;not null" json:"complaint_id"`
	UserID      uint64    `gorm:"index;not null" json:"user_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Comment) TableName() string { return "comments" }

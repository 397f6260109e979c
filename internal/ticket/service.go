package ticket

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/auditlog"
	"github.com/suPer8Hu/helpdesk/internal/common"
	"github.com/suPer8Hu/helpdesk/internal/models"
)

var (
	ErrNoTechnicians  = errors.New("ticket: no technicians available")
	ErrMissingProblem = errors.New("ticket: missing problem description")
	ErrNotFound       = gorm.ErrRecordNotFound
)

// highPriorityTags mark calendar-critical issues; matched case-insensitively.
var highPriorityTags = []string{"[MEETING]", "[WEBINAR]", "[SEMINAR]"}

// Intake carries what the chatbot collected before escalating.
type Intake struct {
	Reporter    models.User
	Problem     string
	Name        string
	Designation string
	Department  string
	Steps       string
}

// Created is the part of a new ticket shown back to the user.
type Created struct {
	ComplaintNo    string
	TechnicianName string
}

type Service struct {
	db     *gorm.DB
	events auditlog.Publisher
}

func NewService(db *gorm.DB, events auditlog.Publisher) *Service {
	return &Service{db: db, events: events}
}

func derivePriority(issue string) models.Priority {
	up := strings.ToUpper(issue)
	for _, tag := range highPriorityTags {
		if strings.Contains(up, tag) {
			return models.PriorityHigh
		}
	}
	return models.PriorityMedium
}

func newComplaintNo() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// leastLoadedTechnician picks the technician with the fewest non-Resolved
// assignments; ties go to the lowest id (roster enumeration order).
func leastLoadedTechnician(tx *gorm.DB) (*models.User, error) {
	var technicians []models.User
	if err := tx.Where("role = ?", models.RoleTechnician).Order("id ASC").Find(&technicians).Error; err != nil {
		return nil, err
	}
	if len(technicians) == 0 {
		return nil, ErrNoTechnicians
	}

	best := &technicians[0]
	bestLoad := int64(-1)
	for i := range technicians {
		t := &technicians[i]
		var load int64
		if err := tx.Model(&models.Complaint{}).
			Where("technician_id = ? AND status <> ?", t.ID, models.StatusResolved).
			Count(&load).Error; err != nil {
			return nil, err
		}
		if bestLoad < 0 || load < bestLoad {
			best = t
			bestLoad = load
		}
	}
	return best, nil
}

// CreateFromChat persists the escalated complaint with the intake snapshot,
// then emits the audit event. The event is best-effort: a publish failure is
// logged and never rolls the ticket back.
func (s *Service) CreateFromChat(ctx context.Context, intake Intake) (*Created, error) {
	if strings.TrimSpace(intake.Problem) == "" {
		return nil, ErrMissingProblem
	}

	name := intake.Name
	if name == "" {
		name = intake.Reporter.Username
	}
	designation := intake.Designation
	if designation == "" {
		designation = intake.Reporter.Designation
	}
	department := intake.Department
	if department == "" {
		department = intake.Reporter.Department
	}

	complaint, technician, err := s.create(ctx, &models.Complaint{
		UserID:               intake.Reporter.ID,
		Issue:                intake.Problem,
		Status:               models.StatusOpen,
		Priority:             derivePriority(intake.Problem),
		EmployeeName:         name,
		EmployeeDesignation:  designation,
		EmployeeDepartment:   department,
		TroubleshootingSteps: intake.Steps,
		ResolutionAttempted:  true,
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, complaint, &intake.Reporter, technician,
		"Created through chatbot - Automatically created after troubleshooting failed")

	return &Created{ComplaintNo: complaint.ComplaintNo, TechnicianName: technician.Username}, nil
}

// CreateManual is the direct intake path (no troubleshooting history); same
// assignment, priority, and logging pipeline.
func (s *Service) CreateManual(ctx context.Context, reporter models.User, issue string) (*Created, error) {
	if strings.TrimSpace(issue) == "" {
		return nil, ErrMissingProblem
	}

	complaint, technician, err := s.create(ctx, &models.Complaint{
		UserID:              reporter.ID,
		Issue:               issue,
		Status:              models.StatusOpen,
		Priority:            derivePriority(issue),
		EmployeeName:        reporter.Username,
		EmployeeDesignation: reporter.Designation,
		EmployeeDepartment:  reporter.Department,
		ResolutionAttempted: false,
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, complaint, &reporter, technician, "")

	return &Created{ComplaintNo: complaint.ComplaintNo, TechnicianName: technician.Username}, nil
}

// create assigns a technician and inserts the complaint in one transaction.
// The complaint number is unique-indexed; one retry absorbs the rare
// collision of an 8-char token.
func (s *Service) create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, *models.User, error) {
	var technician *models.User

	run := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			t, err := leastLoadedTechnician(tx)
			if err != nil {
				return err
			}
			technician = t
			complaint.TechnicianID = &t.ID
			complaint.ComplaintNo = newComplaintNo()
			complaint.CreatedAt = time.Now().UTC()
			return tx.Create(complaint).Error
		})
	}

	err := run()
	if err != nil && isDuplicate(err) {
		complaint.ID = 0
		err = run()
	}
	if err != nil {
		return nil, nil, err
	}
	return complaint, technician, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func (s *Service) publishCreated(ctx context.Context, c *models.Complaint, reporter, technician *models.User, note string) {
	id, err := common.NewULID()
	if err != nil {
		log.Printf("[ticket] audit event id failed complaint=%s err=%v", c.ComplaintNo, err)
		return
	}
	ev := auditlog.Event{
		ID:           id,
		Kind:         auditlog.KindTicketCreated,
		ComplaintNo:  c.ComplaintNo,
		EmployeeName: c.EmployeeName,
		Department:   c.EmployeeDepartment,
		EmployeeCode: reporter.EmployeeCode,
		Issue:        c.Issue,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		ResolvedAt:   c.ResolvedAt,
		Technician:   technician.Username,
		Comments:     note,
	}
	if err := s.events.PublishEvent(ctx, ev); err != nil {
		log.Printf("[ticket] audit event publish failed complaint=%s err=%v", c.ComplaintNo, err)
	}
}

func (s *Service) GetByID(ctx context.Context, id uint64) (*models.Complaint, error) {
	var c models.Complaint
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Technician").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.User").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Complaint, error) {
	var cs []models.Complaint
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Technician").
		Preload("Comments").
		Preload("Comments.User").
		Order("created_at DESC").
		Find(&cs).Error
	return cs, err
}

func (s *Service) ListByReporter(ctx context.Context, userID uint64) ([]models.Complaint, error) {
	var cs []models.Complaint
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cs).Error
	return cs, err
}

func (s *Service) ListByTechnician(ctx context.Context, technicianID uint64) ([]models.Complaint, error) {
	var cs []models.Complaint
	err := s.db.WithContext(ctx).
		Where("technician_id = ?", technicianID).
		Order("created_at DESC").
		Find(&cs).Error
	return cs, err
}

type Stats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx).Model(&models.Complaint{})
	if err := db.Count(&st.Total).Error; err != nil {
		return nil, err
	}
	counts := map[models.Status]*int64{
		models.StatusOpen:       &st.Open,
		models.StatusInProgress: &st.InProgress,
		models.StatusResolved:   &st.Resolved,
	}
	for status, dst := range counts {
		if err := s.db.WithContext(ctx).Model(&models.Complaint{}).
			Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	return &st, nil
}

// UpdateStatus transitions the complaint; Resolved stamps resolved_at.
func (s *Service) UpdateStatus(ctx context.Context, id uint64, status models.Status) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Complaint
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		changes := map[string]any{"status": status}
		if status == models.StatusResolved {
			now := time.Now().UTC()
			changes["resolved_at"] = &now
		}
		return tx.Model(&c).Updates(changes).Error
	})
}

// UpdatePriority changes the priority and appends an audit comment recording
// old value, new value, and actor.
func (s *Service) UpdatePriority(ctx context.Context, actor models.User, id uint64, priority models.Priority) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Complaint
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		old := c.Priority
		if err := tx.Model(&c).Update("priority", priority).Error; err != nil {
			return err
		}
		comment := models.Comment{
			ComplaintID: c.ID,
			UserID:      actor.ID,
			Content:     "Priority changed from " + string(old) + " to " + string(priority) + " by admin (" + actor.Username + ")",
		}
		return tx.Create(&comment).Error
	})
}

func (s *Service) Reassign(ctx context.Context, id uint64, technicianID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var technician models.User
		if err := tx.Where("id = ? AND role = ?", technicianID, models.RoleTechnician).
			First(&technician).Error; err != nil {
			return err
		}
		var c models.Complaint
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		return tx.Model(&c).Update("technician_id", technicianID).Error
	})
}

func (s *Service) AddComment(ctx context.Context, actorID, complaintID uint64, content string) error {
	return s.db.WithContext(ctx).Create(&models.Comment{
		ComplaintID: complaintID,
		UserID:      actorID,
		Content:     content,
	}).Error
}

// Delete removes the complaint and all of its comments in one transaction.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Complaint
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

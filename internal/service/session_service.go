package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"
	"skillbarter/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService drives a session through its lifecycle:
// scheduled → completed | cancelled | missed, with the escrow step at join
// time and settlement on completion.
type SessionService struct {
	db          *gorm.DB
	sessions    *repository.SessionRepository
	courses     *repository.CourseRepository
	skills      *repository.SkillRepository
	settlements *SettlementService
}

func NewSessionService(
	db *gorm.DB,
	sessions *repository.SessionRepository,
	courses *repository.CourseRepository,
	skills *repository.SkillRepository,
	settlements *SettlementService,
) *SessionService {
	return &SessionService{
		db:          db,
		sessions:    sessions,
		courses:     courses,
		skills:      skills,
		settlements: settlements,
	}
}

type ScheduleInput struct {
	TeacherID        uint
	SkillID          uint
	ScheduledTime    time.Time
	DurationMinutes  int
	CourseInstanceID *string
	SequenceNumber   int

	// CreateCourse opens a new course instance for this skill and attaches
	// the session as its first one. Shape and plan default from the skill
	// row, falling back to the explicit fields.
	CreateCourse  bool
	TotalSessions int
	PaymentPlan   string
}

// Schedule creates a session in the scheduled state. The price derives from
// the duration; the video room name is generated here and never changes.
func (s *SessionService) Schedule(studentID uint, in ScheduleInput) (*models.Session, error) {
	sessionID := uuid.NewString()
	sess := &models.Session{
		ID:               sessionID,
		StudentID:        studentID,
		TeacherID:        in.TeacherID,
		SkillID:          in.SkillID,
		CourseInstanceID: in.CourseInstanceID,
		SequenceNumber:   in.SequenceNumber,
		ScheduledTime:    in.ScheduledTime,
		DurationMinutes:  in.DurationMinutes,
		Status:           domain.SessionScheduled,
		CreditAmount:     domain.CreditPrice(in.DurationMinutes),
		RoomName:         "skillbarter_" + strings.ReplaceAll(sessionID, "-", ""),
	}
	if sess.SequenceNumber < 1 {
		sess.SequenceNumber = 1
	}

	if in.CreateCourse {
		totalSessions := in.TotalSessions
		paymentPlan := in.PaymentPlan
		if skill, err := s.skills.GetByID(in.SkillID); err == nil {
			if skill.TotalSessions > 0 {
				totalSessions = skill.TotalSessions
			}
			if domain.ValidPaymentPlan(skill.PaymentPlan) {
				paymentPlan = skill.PaymentPlan
			}
		}
		if totalSessions < 1 {
			totalSessions = 1
		}
		if !domain.ValidPaymentPlan(paymentPlan) {
			paymentPlan = domain.PlanPerSession
		}
		ci := &models.CourseInstance{
			ID:            uuid.NewString(),
			SkillID:       in.SkillID,
			StudentID:     studentID,
			TeacherID:     in.TeacherID,
			TotalSessions: totalSessions,
			PaymentPlan:   paymentPlan,
		}
		if err := s.courses.Create(ci); err != nil {
			return nil, err
		}
		sess.CourseInstanceID = &ci.ID
	} else if in.CourseInstanceID != nil {
		if _, err := s.courses.GetByID(*in.CourseInstanceID); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

type JoinResult struct {
	SessionID string `json:"session_id"`
	RoomName  string `json:"room_name"`
	Escrowed  bool   `json:"escrowed"`
}

// Join authorizes the requester into the session's video room. When the
// student joins a priced session for the first time, their credits move into
// escrow: the full price leaves their balance and lands in a held counter on
// the session (single sessions) or the course instance. Under the hybrid
// plan the teacher's immediate share is paid right here and only the
// remainder is held. Repeat joins are no-ops returning the cached room.
func (s *SessionService) Join(sessionID string, userID uint) (*JoinResult, error) {
	sess, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.StudentID != userID && sess.TeacherID != userID {
		return nil, domain.ErrNotAuthorized
	}

	result := &JoinResult{SessionID: sess.ID, RoomName: sess.RoomName}
	if sess.TeacherID == userID || sess.CreditAmount <= 0 || sess.Escrowed() {
		return result, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Claim the escrow slot. Losing the race (or a second join) means the
		// credits are already held, so there is nothing left to do.
		now := time.Now().UTC()
		res := tx.Model(&models.Session{}).
			Where("id = ? AND escrowed_at IS NULL AND status = ?", sess.ID, domain.SessionScheduled).
			Update("escrowed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := debitIn(tx, sess.StudentID, sess.CreditAmount); err != nil {
			return err
		}

		if sess.CourseInstanceID == nil {
			if err := tx.Model(&models.Session{}).Where("id = ?", sess.ID).
				Update("held_credits", gorm.Expr("held_credits + ?", sess.CreditAmount)).Error; err != nil {
				return err
			}
			result.Escrowed = true
			return nil
		}

		var ci models.CourseInstance
		if err := tx.Where("id = ?", *sess.CourseInstanceID).First(&ci).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCourseNotFound
			}
			return err
		}
		held := sess.CreditAmount
		if ci.PaymentPlan == domain.PlanHybrid {
			var immediate int64
			immediate, held = domain.HybridSplit(sess.CreditAmount)
			if immediate > 0 {
				if _, err := creditIn(tx, sess.StudentID, sess.TeacherID, immediate); err != nil {
					return err
				}
			}
		}
		if held > 0 {
			if err := tx.Model(&models.CourseInstance{}).Where("id = ?", ci.ID).
				Update("held_credits", gorm.Expr("held_credits + ?", held)).Error; err != nil {
				return err
			}
		}
		result.Escrowed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves a session to newStatus. Repeating the current status is
// an idempotent no-op; terminal states allow no further transitions. On the
// scheduled→completed transition settlement runs exactly once, after the
// status is persisted — a payout failure is logged for reconciliation and
// never rolls the completion back.
func (s *SessionService) UpdateStatus(sessionID string, userID uint, newStatus string) error {
	if !domain.ValidSessionStatus(newStatus) {
		return domain.ErrInvalidStatus
	}
	sess, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return err
	}
	if sess.StudentID != userID && sess.TeacherID != userID {
		return domain.ErrNotAuthorized
	}
	if sess.Status == newStatus {
		return nil
	}
	if domain.TerminalSessionStatus(sess.Status) {
		return domain.ErrInvalidStatus
	}

	res := s.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sess.ID, domain.SessionScheduled).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Raced with another transition; idempotent only if it matched ours.
		cur, err := s.sessions.GetByID(sessionID)
		if err != nil {
			return err
		}
		if cur.Status == newStatus {
			return nil
		}
		return domain.ErrInvalidStatus
	}

	if newStatus == domain.SessionCompleted {
		if err := s.settlements.Settle(sess); err != nil {
			log.Printf("[PAYOUT] settlement failed for session %s: %v", sess.ID, err)
		}
	}
	return nil
}

// List returns the sessions the user takes part in, optionally filtered by role.
func (s *SessionService) List(userID uint, role string) ([]repository.SessionView, error) {
	return s.sessions.ListByUser(userID, role)
}

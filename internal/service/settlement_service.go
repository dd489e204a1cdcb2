package service

import (
	"errors"
	"fmt"

	"skillbarter/internal/domain"
	"skillbarter/internal/models"

	"gorm.io/gorm"
)

// SettlementService pays the teacher when a session completes, according to
// the course's payment plan. It runs exactly once per scheduled→completed
// transition and is escrow-aware: when the student joined the session their
// credits already sit in a held counter, so settlement only releases them;
// when they never joined, the balance is drawn at settlement time.
type SettlementService struct {
	db        *gorm.DB
	transfers *TransferService
}

func NewSettlementService(db *gorm.DB, transfers *TransferService) *SettlementService {
	return &SettlementService{db: db, transfers: transfers}
}

// Settle distributes the credits for a session that just completed. Any
// error aborts only this payout attempt: the caller keeps the completed
// status and surfaces the failure as a reconciliation event, never to the
// user who marked the session done.
func (s *SettlementService) Settle(sess *models.Session) error {
	if sess.CourseInstanceID == nil {
		return s.settleSingle(sess)
	}
	return s.settleCourse(sess, *sess.CourseInstanceID)
}

func (s *SettlementService) settleSingle(sess *models.Session) error {
	if sess.CreditAmount <= 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row models.Session
		if err := tx.Where("id = ?", sess.ID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if row.HeldCredits > 0 {
			// Escrowed at join: release the held credits to the teacher.
			held := row.HeldCredits
			res := tx.Model(&models.Session{}).
				Where("id = ? AND held_credits = ?", row.ID, held).
				Update("held_credits", 0)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Another settlement got here first.
				return nil
			}
			_, err := creditIn(tx, row.StudentID, row.TeacherID, held)
			return err
		}
		// Never joined: draw the price from the student's balance directly.
		_, err := s.transfers.TransferIn(tx, row.StudentID, row.TeacherID, row.CreditAmount)
		return err
	})
}

func (s *SettlementService) settleCourse(sess *models.Session, courseID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Reload the session: the escrow flag may have been set after the
		// caller's copy was read.
		var row models.Session
		if err := tx.Where("id = ?", sess.ID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		sess = &row
		amount := sess.CreditAmount

		var ci models.CourseInstance
		if err := tx.Where("id = ?", courseID).First(&ci).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCourseNotFound
			}
			return err
		}

		// Count this session's completion first. The guarded increment keeps
		// the counter monotonic and capped even when two sessions of the same
		// course complete concurrently.
		if err := tx.Model(&models.CourseInstance{}).
			Where("id = ? AND completed_sessions < total_sessions", ci.ID).
			Update("completed_sessions", gorm.Expr("completed_sessions + 1")).Error; err != nil {
			return err
		}

		switch ci.PaymentPlan {
		case domain.PlanPerCourse:
			if err := s.holdForCourse(tx, sess, ci.ID, amount); err != nil {
				return err
			}
		case domain.PlanHybrid:
			if err := s.settleHybridSession(tx, sess, ci.ID, amount); err != nil {
				return err
			}
		default: // per_session
			if err := s.payPerSession(tx, sess, ci.ID, amount); err != nil {
				return err
			}
		}

		if ci.PaymentPlan == domain.PlanPerCourse || ci.PaymentPlan == domain.PlanHybrid {
			return s.releaseIfComplete(tx, &ci)
		}
		return nil
	})
}

// payPerSession pays the session price to the teacher right away, releasing
// the escrowed amount from the course accumulator when the student joined.
func (s *SettlementService) payPerSession(tx *gorm.DB, sess *models.Session, courseID string, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if !sess.Escrowed() {
		_, err := s.transfers.TransferIn(tx, sess.StudentID, sess.TeacherID, amount)
		return err
	}
	res := tx.Model(&models.CourseInstance{}).
		Where("id = ? AND held_credits >= ?", courseID, amount).
		Update("held_credits", gorm.Expr("held_credits - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %s holds fewer than %d credits for session %s", courseID, amount, sess.ID)
	}
	_, err := creditIn(tx, sess.StudentID, sess.TeacherID, amount)
	return err
}

// holdForCourse makes sure this session's price sits in the course
// accumulator. When the student joined, the escrow already happened; when
// they did not, their balance is debited into the accumulator now.
func (s *SettlementService) holdForCourse(tx *gorm.DB, sess *models.Session, courseID string, amount int64) error {
	if amount <= 0 || sess.Escrowed() {
		return nil
	}
	if err := debitIn(tx, sess.StudentID, amount); err != nil {
		return err
	}
	return tx.Model(&models.CourseInstance{}).Where("id = ?", courseID).
		Update("held_credits", gorm.Expr("held_credits + ?", amount)).Error
}

// settleHybridSession pays the immediate share and holds the remainder. When
// the student joined, both legs already happened at escrow time.
func (s *SettlementService) settleHybridSession(tx *gorm.DB, sess *models.Session, courseID string, amount int64) error {
	if amount <= 0 || sess.Escrowed() {
		return nil
	}
	immediate, held := domain.HybridSplit(amount)
	if err := debitIn(tx, sess.StudentID, amount); err != nil {
		return err
	}
	if immediate > 0 {
		if _, err := creditIn(tx, sess.StudentID, sess.TeacherID, immediate); err != nil {
			return err
		}
	}
	if held > 0 {
		return tx.Model(&models.CourseInstance{}).Where("id = ?", courseID).
			Update("held_credits", gorm.Expr("held_credits + ?", held)).Error
	}
	return nil
}

// releaseIfComplete pays out the whole accumulator once every session of the
// course has completed, in a single transfer, and resets it to zero. The
// guarded zeroing keeps the release from firing twice.
func (s *SettlementService) releaseIfComplete(tx *gorm.DB, ci *models.CourseInstance) error {
	var cur models.CourseInstance
	if err := tx.Where("id = ?", ci.ID).First(&cur).Error; err != nil {
		return err
	}
	if cur.CompletedSessions < cur.TotalSessions || cur.HeldCredits <= 0 {
		return nil
	}
	held := cur.HeldCredits
	res := tx.Model(&models.CourseInstance{}).
		Where("id = ? AND held_credits = ?", cur.ID, held).
		Update("held_credits", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	_, err := creditIn(tx, cur.StudentID, cur.TeacherID, held)
	return err
}

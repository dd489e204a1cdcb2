package domain

const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
	SessionMissed    = "missed"
)

const (
	PlanPerSession = "per_session"
	PlanPerCourse  = "per_course"
	PlanHybrid     = "hybrid"
)

// HybridImmediatePercent is the share of a session's price paid to the
// teacher up front under the hybrid plan; the remainder is held until the
// course completes.
const HybridImmediatePercent = 80

// ValidSessionStatus reports whether s is one of the four session states.
func ValidSessionStatus(s string) bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled, SessionMissed:
		return true
	}
	return false
}

// TerminalSessionStatus reports whether a session in state s allows no
// further transitions.
func TerminalSessionStatus(s string) bool {
	return s == SessionCompleted || s == SessionCancelled || s == SessionMissed
}

// ValidPaymentPlan reports whether p is a known course payment plan.
func ValidPaymentPlan(p string) bool {
	switch p {
	case PlanPerSession, PlanPerCourse, PlanHybrid:
		return true
	}
	return false
}

// HybridSplit divides a credit amount into the immediate teacher share and
// the held remainder. The immediate share is ceil(amount * 80%), so the held
// part rounds down.
func HybridSplit(amount int64) (immediate, held int64) {
	immediate = (amount*HybridImmediatePercent + 99) / 100
	return immediate, amount - immediate
}

// CreditPrice derives a session's price in time credits from its duration:
// one credit per started 30 minutes, with a minimum of one.
func CreditPrice(durationMinutes int) int64 {
	credits := int64((durationMinutes + 29) / 30)
	if credits < 1 {
		credits = 1
	}
	return credits
}

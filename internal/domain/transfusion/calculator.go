package transfusion

import (
	"time"

	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// NextDueDate computes the next transfusion due date from the last
// transfusion date and the patient's interval. Pure function.
func NextDueDate(lastTransfusion time.Time, intervalDays int) (time.Time, error) {
	if intervalDays < 1 {
		return time.Time{}, patient.ErrInvalidInterval
	}
	return calendar.AddDays(lastTransfusion, intervalDays), nil
}

// ClassifyStatus reclassifies an entry's status against the current date.
// Terminal statuses are sticky. An entry due today is still Scheduled; it
// becomes Overdue only once the scheduled date has passed.
func ClassifyStatus(scheduledDate, now time.Time, existing Status) Status {
	if existing.Terminal() {
		return existing
	}
	if calendar.Before(scheduledDate, now) {
		return StatusOverdue
	}
	return StatusScheduled
}

// DerivePriority maps patient risk and entry status to a display priority.
// Overdue entries are always high priority regardless of baseline risk.
func DerivePriority(risk patient.RiskLevel, status Status) Priority {
	if status == StatusOverdue {
		return PriorityHigh
	}
	switch risk {
	case patient.RiskHigh:
		return PriorityHigh
	case patient.RiskLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

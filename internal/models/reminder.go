package models

// Reminder modes. Initial rows come from the daily sweep, hourly rows from
// the urgent sweep, forced rows from the administrative force-remind command.
const (
	ModeInitial = "initial"
	ModeHourly  = "hourly"
	ModeForced  = "forced"
)

// SentAtLayout is the storage format of ReminderSent.SentAt, a UTC wall-clock
// string. Kept as text so a malformed historical row degrades to the
// documented fail-open path instead of a scan error.
const SentAtLayout = "2006-01-02 15:04:05"

// ReminderSent is the append-only audit record guarding against duplicate
// notification for the same requirement/due-date pair.
type ReminderSent struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	RequirementID uint   `gorm:"not null;index:idx_reminder_req_date" json:"requirement_id"`
	RemindForDate string `gorm:"size:10;not null;index:idx_reminder_req_date" json:"remind_for_date"`
	Mode          string `gorm:"size:10;not null" json:"mode"`
	SentAt        string `gorm:"size:30;not null" json:"sent_at"`
	Note          string `gorm:"size:100" json:"note"`
}

package domain

import (
	"errors"
	"time"
)

// Common validation errors for weekly planning inputs.
var (
	ErrEmptySubject      = errors.New("subject cannot be empty")
	ErrInvalidBlock      = errors.New("schedule block duration must be positive")
	ErrInvalidWeekNumber = errors.New("week number must be between 1 and 53")
)

// FocusItem is one subject in the caller's weekly focus configuration,
// carrying the hours the owner wants to spend on it each week. Subjects are
// unique within a plan.
type FocusItem struct {
	Subject           string  `json:"subject"`
	TargetWeeklyHours float64 `json:"target_weekly_hours"`
	// PreferredStart optionally pins the subject's daily block to a clock
	// time, expressed as "HH:MM". Empty means no preference.
	PreferredStart string `json:"preferred_start,omitempty"`
}

// Validate checks if the FocusItem has valid data.
func (f *FocusItem) Validate() error {
	if f.Subject == "" {
		return ErrEmptySubject
	}

	if f.TargetWeeklyHours < 0 {
		return ErrNegativeHours
	}

	return nil
}

// Exam is a read-only upcoming exam for a subject. Exams within seven days
// boost the subject's allocation in the weekly plan.
type Exam struct {
	Subject  string    `json:"subject"`
	ExamDate time.Time `json:"exam_date"`
}

// Validate checks if the Exam has valid data.
func (e *Exam) Validate() error {
	if e.Subject == "" {
		return ErrEmptySubject
	}

	if e.ExamDate.IsZero() {
		return ErrInvalidExamDate
	}

	return nil
}

// ScheduleBlock is a single study block within a day. Blocks are produced by
// the planner and never persisted by this service.
type ScheduleBlock struct {
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"` // Always > 0
	StartTime       string `json:"start_time,omitempty"`
	IsEmphasis      bool   `json:"is_emphasis"`
}

// DailySchedule is an ordered set of blocks for one named day.
type DailySchedule struct {
	Day          string          `json:"day"`
	Blocks       []ScheduleBlock `json:"blocks"`
	TotalMinutes int             `json:"total_minutes"`
}

// DateRange is the Monday..Sunday span a weekly schedule covers.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeeklySchedule is a full seven-day plan, Monday through Sunday. The sum of
// all block minutes equals the rounded total of the boosted weekly hours.
type WeeklySchedule struct {
	Days            [7]DailySchedule `json:"days"`
	TotalHours      float64          `json:"total_hours"`
	WeekNumber      int              `json:"week_number"` // ISO-8601 week index
	EmphasisSubject string           `json:"emphasis_subject,omitempty"`
	DateRange       DateRange        `json:"date_range"`
}

// DayNames lists the schedule days in order, Monday first, matching the
// ISO-8601 week used for date ranges.
var DayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

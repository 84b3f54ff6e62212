package domain

import "fmt"

// Priority orders constraints Critical..Low; search short-circuits at the
// first Critical failure and staged relaxation only ever drops Medium/Low.
type Priority int

const (
	Critical Priority = iota
	High
	Medium
	Low
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// ViolationWeight mirrors the repair loop's weighted-score table.
func (p Priority) ViolationWeight() float64 {
	switch p {
	case Critical:
		return 100
	case High:
		return 70
	case Medium:
		return 30
	case Low:
		return 5
	default:
		return 0
	}
}

// Weight identifiers for the two named soft-violation kinds that do not map
// 1:1 onto a Priority: daily duplicates and standard-hours shortage.
const (
	DailyDuplicateWeight     = 60.0
	StandardHoursShortWeight = 10.0
)

// RuleID identifies which constraint raised a Violation, for reporting and
// for the repair loop's "does this move fix rule X" bookkeeping.
type RuleID string

const (
	RuleProtectedSlot      RuleID = "protected-slot"
	RuleTeacherConflict     RuleID = "teacher-conflict"
	RuleTeacherAbsence      RuleID = "teacher-absence"
	RuleMeetingConflict     RuleID = "meeting-conflict"
	RuleGrade5Sync          RuleID = "grade5-sync"
	RuleExchangeSync        RuleID = "exchange-sync"
	RuleJiritsuParent       RuleID = "jiritsu-parent"
	RuleGymSingleton        RuleID = "gym-singleton"
	RuleDailyDuplicate      RuleID = "daily-duplicate"
	RuleStandardHours       RuleID = "standard-hours"
	RulePreferredTimeBand   RuleID = "preferred-time-band"
	RuleSubjectValidity     RuleID = "subject-validity"
	RuleTestPeriodProtected RuleID = "test-period-protected"
	RuleGrade5TestExclusion RuleID = "grade5-test-exclusion"
	RuleDataError           RuleID = "data-error"
	RuleUnassignable        RuleID = "unassignable"
)

// Violation is the sweep-check output contract.
type Violation struct {
	Rule     RuleID
	Severity Priority
	Slot     TimeSlot
	Class    *ClassRef
	Teacher  *Teacher
	Message  string
	// InTestPeriod marks violations detected inside a frozen test slot;
	// the repair loop must treat these as informational only.
	InTestPeriod bool
}

func (v Violation) String() string {
	class := "-"
	if v.Class != nil {
		class = v.Class.String()
	}
	return fmt.Sprintf("[%s/%s] %s class=%s slot=%s", v.Severity, v.Rule, v.Message, class, v.Slot)
}

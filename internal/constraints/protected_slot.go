package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// LockedCellConstraint enforces that a locked cell never changes. It is
// Critical and has no sweep violation of its own -- the store structurally
// refuses the mutation -- but CheckPoint still guards the pipeline's
// tentative-placement probing so search never wastes a branch on a locked
// target.
type LockedCellConstraint struct{}

func (LockedCellConstraint) ID() domain.RuleID          { return domain.RuleProtectedSlot }
func (LockedCellConstraint) Priority() domain.Priority  { return domain.Critical }

func (c LockedCellConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	return !ctx.Schedule.IsLocked(slot, a.Class)
}

func (c LockedCellConstraint) Validate(ctx *Context) []domain.Violation {
	return nil
}

// TestPeriodConstraint enforces that a designated test slot only ever holds
// the テスト subject: the placement pipeline must not introduce any
// other subject there, and the repair loop must treat a mismatch it finds
// during a sweep of externally-supplied input as informational, never
// something it tries to fix by moving cells inside the test window.
type TestPeriodConstraint struct{}

func (TestPeriodConstraint) ID() domain.RuleID         { return domain.RuleTestPeriodProtected }
func (TestPeriodConstraint) Priority() domain.Priority { return domain.Critical }

func (c TestPeriodConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if !ctx.FollowUp.IsTestSlot(slot) {
		return true
	}
	if a.Class.IsGrade5() {
		// 5-組 sits outside the ordinary test schedule: it keeps
		// receiving regular instruction during protected test slots, so it
		// is exempt from the テスト-only rule. Grade5TestExclusionConstraint
		// covers the complementary case -- 5-組 must not be given the
		// テスト subject itself.
		return true
	}
	return a.Subject.Code == domain.CodeTestPeriod
}

func (c TestPeriodConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		if !ctx.FollowUp.IsTestSlot(rec.Slot) || rec.Class.IsGrade5() {
			continue
		}
		if rec.Assignment.Subject.Code == domain.CodeTestPeriod {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:         domain.RuleTestPeriodProtected,
			Severity:     domain.Critical,
			Slot:         rec.Slot,
			Class:        &class,
			Message:      fmt.Sprintf("non-test subject %s placed in protected test slot", rec.Assignment.Subject.Code),
			InTestPeriod: true,
		})
	}
	return violations
}

// TeacherAbsenceConstraint rejects placing a teacher at a slot they are
// marked absent for (Input 3).
type TeacherAbsenceConstraint struct{}

func (TeacherAbsenceConstraint) ID() domain.RuleID         { return domain.RuleTeacherAbsence }
func (TeacherAbsenceConstraint) Priority() domain.Priority { return domain.Critical }

func (c TeacherAbsenceConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if a.Teacher == nil {
		return true
	}
	return !ctx.FollowUp.IsAbsent(a.Teacher.ID, slot)
}

func (c TeacherAbsenceConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		t := rec.Assignment.Teacher
		if t == nil || !ctx.FollowUp.IsAbsent(t.ID, rec.Slot) {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleTeacherAbsence,
			Severity: domain.Critical,
			Slot:     rec.Slot,
			Class:    &class,
			Teacher:  t,
			Message:  fmt.Sprintf("%s placed while marked absent", t.Name),
		})
	}
	return violations
}

// MeetingConflictConstraint rejects placing a teacher at a slot they are
// listed as attending a meeting for.
type MeetingConflictConstraint struct{}

func (MeetingConflictConstraint) ID() domain.RuleID         { return domain.RuleMeetingConflict }
func (MeetingConflictConstraint) Priority() domain.Priority { return domain.High }

func (c MeetingConflictConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if a.Teacher == nil {
		return true
	}
	return !ctx.FollowUp.IsInMeeting(a.Teacher.ID, slot)
}

func (c MeetingConflictConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		t := rec.Assignment.Teacher
		if t == nil || !ctx.FollowUp.IsInMeeting(t.ID, rec.Slot) {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleMeetingConflict,
			Severity: domain.High,
			Slot:     rec.Slot,
			Class:    &class,
			Teacher:  t,
			Message:  fmt.Sprintf("%s placed during a listed meeting", t.Name),
		})
	}
	return violations
}

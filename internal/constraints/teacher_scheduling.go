package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// TeacherConflictConstraint enforces that a teacher cannot hold two classes
// at the same slot unless they form a recognized joint group (5-組, or an
// exchange/parent pair). The tracker is the source of truth for what counts
// as recognized; this constraint is a thin adapter over it.
type TeacherConflictConstraint struct{}

func (TeacherConflictConstraint) ID() domain.RuleID         { return domain.RuleTeacherConflict }
func (TeacherConflictConstraint) Priority() domain.Priority { return domain.Critical }

func (c TeacherConflictConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if a.Teacher == nil {
		return true
	}
	ok, _ := ctx.Tracker.CanAssign(*a.Teacher, slot, a.Class)
	return ok
}

func (c TeacherConflictConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, conflict := range ctx.Tracker.FindConflicts() {
		teacher := conflict.Teacher
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleTeacherConflict,
			Severity: domain.Critical,
			Slot:     conflict.Slot,
			Teacher:  &teacher,
			Message:  fmt.Sprintf("%s double-booked across %v", teacher.Name, conflict.Classes),
		})
	}
	return violations
}

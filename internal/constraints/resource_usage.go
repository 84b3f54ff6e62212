package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// sameGymGroup reports whether a and b may legitimately share the gym at the
// same slot: identical class, the three 5-組 classes together, or an
// exchange class with its fixed parent.
func sameGymGroup(a, b domain.ClassRef) bool {
	if a == b {
		return true
	}
	if a.IsGrade5() && b.IsGrade5() {
		return true
	}
	if a.IsExchange() {
		if parent, ok := a.Parent(); ok && parent == b {
			return true
		}
	}
	if b.IsExchange() {
		if parent, ok := b.Parent(); ok && parent == a {
			return true
		}
	}
	return false
}

// GymSingletonConstraint enforces that the school has one gym, so at most one
// class (or one recognized joint group sharing it together, e.g. an
// exchange class and its parent doing PE jointly) may hold PE at a slot.
type GymSingletonConstraint struct{}

func (GymSingletonConstraint) ID() domain.RuleID         { return domain.RuleGymSingleton }
func (GymSingletonConstraint) Priority() domain.Priority { return domain.Critical }

func gymSubjectOf(ctx *Context) string {
	if ctx.GymSubject != "" {
		return ctx.GymSubject
	}
	return domain.CodePE
}

func (c GymSingletonConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if a.Subject.Code != gymSubjectOf(ctx) {
		return true
	}
	for _, other := range domain.AllClasses() {
		if sameGymGroup(other, a.Class) {
			continue
		}
		existing, ok := ctx.Schedule.Get(slot, other)
		if ok && existing.Subject.Code == gymSubjectOf(ctx) {
			return false
		}
	}
	return true
}

func (c GymSingletonConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	subject := gymSubjectOf(ctx)
	for _, slot := range domain.AllSlots() {
		var holders []domain.ClassRef
		for _, rec := range ctx.Schedule.AllFilled() {
			if rec.Slot == slot && rec.Assignment.Subject.Code == subject {
				holders = append(holders, rec.Class)
			}
		}
		for i := 1; i < len(holders); i++ {
			if sameGymGroup(holders[0], holders[i]) {
				continue
			}
			class := holders[i]
			violations = append(violations, domain.Violation{
				Rule:     domain.RuleGymSingleton,
				Severity: domain.Critical,
				Slot:     slot,
				Class:    &class,
				Message:  fmt.Sprintf("gym double-booked with %s", holders[0]),
			})
		}
	}
	return violations
}

// Grade5TestExclusionConstraint complements TestPeriodConstraint's 5-組
// exemption: 5-組 must not be given the テスト placeholder subject
// itself during a protected test slot, since it is not sitting the test and
// needs real instruction scheduled there instead.
type Grade5TestExclusionConstraint struct{}

func (Grade5TestExclusionConstraint) ID() domain.RuleID         { return domain.RuleGrade5TestExclusion }
func (Grade5TestExclusionConstraint) Priority() domain.Priority { return domain.Medium }

func (c Grade5TestExclusionConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if !a.Class.IsGrade5() || !ctx.FollowUp.IsTestSlot(slot) {
		return true
	}
	return a.Subject.Code != domain.CodeTestPeriod
}

func (c Grade5TestExclusionConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		if !rec.Class.IsGrade5() || !ctx.FollowUp.IsTestSlot(rec.Slot) {
			continue
		}
		if rec.Assignment.Subject.Code != domain.CodeTestPeriod {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:         domain.RuleGrade5TestExclusion,
			Severity:     domain.Medium,
			Slot:         rec.Slot,
			Class:        &class,
			Message:      "5-組 given placeholder test subject instead of regular instruction",
			InTestPeriod: true,
		})
	}
	return violations
}

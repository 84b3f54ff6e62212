package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// Grade5SyncConstraint enforces that the three 5-組 classes hold the same
// subject and teacher at every slot, or are all empty. The store's
// Grade5Sync flag enforces this structurally during placement (Assign/Remove
// mirror atomically); this constraint exists so the repair loop's sweep
// catches a drift introduced outside that path (e.g. loaded from input with
// the siblings already inconsistent).
type Grade5SyncConstraint struct{}

func (Grade5SyncConstraint) ID() domain.RuleID         { return domain.RuleGrade5Sync }
func (Grade5SyncConstraint) Priority() domain.Priority { return domain.Critical }

func (c Grade5SyncConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if !a.Class.IsGrade5() {
		return true
	}
	for _, sibling := range domain.Grade5Siblings() {
		if sibling == a.Class {
			continue
		}
		existing, ok := ctx.Schedule.Get(slot, sibling)
		if !ok {
			continue
		}
		if existing.Subject.Code != a.Subject.Code || existing.TeacherID() != a.TeacherID() {
			return false
		}
	}
	return true
}

func (c Grade5SyncConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, slot := range domain.AllSlots() {
		siblings := domain.Grade5Siblings()
		first, firstOK := ctx.Schedule.Get(slot, siblings[0])
		for _, sibling := range siblings[1:] {
			other, otherOK := ctx.Schedule.Get(slot, sibling)
			if firstOK != otherOK || (firstOK && (first.Subject.Code != other.Subject.Code || first.TeacherID() != other.TeacherID())) {
				class := sibling
				violations = append(violations, domain.Violation{
					Rule:     domain.RuleGrade5Sync,
					Severity: domain.Critical,
					Slot:     slot,
					Class:    &class,
					Message:  "5-組 classes out of sync",
				})
			}
		}
	}
	return violations
}

// ExchangeSyncConstraint enforces that an exchange class mirrors its fixed
// parent class's subject at every slot, unless the exchange class is
// legitimately exercising its 自立 option there (checked separately by
// JiritsuEligibilityConstraint).
type ExchangeSyncConstraint struct{}

func (ExchangeSyncConstraint) ID() domain.RuleID         { return domain.RuleExchangeSync }
func (ExchangeSyncConstraint) Priority() domain.Priority { return domain.Critical }

func (c ExchangeSyncConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if !a.Class.IsExchange() {
		return true
	}
	if a.Subject.Code == domain.CodeJiritsu {
		return true
	}
	parent, ok := a.Class.Parent()
	if !ok {
		return true
	}
	parentAssignment, placed := ctx.Schedule.Get(slot, parent)
	if !placed {
		return true
	}
	return parentAssignment.Subject.Code == a.Subject.Code
}

func (c ExchangeSyncConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		if !rec.Class.IsExchange() || rec.Assignment.Subject.Code == domain.CodeJiritsu {
			continue
		}
		parent, ok := rec.Class.Parent()
		if !ok {
			continue
		}
		parentAssignment, placed := ctx.Schedule.Get(rec.Slot, parent)
		if !placed || parentAssignment.Subject.Code == rec.Assignment.Subject.Code {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleExchangeSync,
			Severity: domain.Critical,
			Slot:     rec.Slot,
			Class:    &class,
			Message:  fmt.Sprintf("exchange class diverges from parent %s (%s vs %s)", parent, rec.Assignment.Subject.Code, parentAssignment.Subject.Code),
		})
	}
	return violations
}

// JiritsuEligibilityConstraint enforces that an exchange class may hold 自立
// at a slot only when its parent class holds 数 or 英 there.
type JiritsuEligibilityConstraint struct{}

func (JiritsuEligibilityConstraint) ID() domain.RuleID         { return domain.RuleJiritsuParent }
func (JiritsuEligibilityConstraint) Priority() domain.Priority { return domain.Critical }

func (c JiritsuEligibilityConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	if a.Subject.Code != domain.CodeJiritsu {
		return true
	}
	parent, ok := a.Class.Parent()
	if !ok {
		return true
	}
	parentAssignment, placed := ctx.Schedule.Get(slot, parent)
	if !placed {
		return false
	}
	return domain.IsJiritsuEligibleParentSubject(parentAssignment.Subject.Code)
}

func (c JiritsuEligibilityConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		if rec.Assignment.Subject.Code != domain.CodeJiritsu {
			continue
		}
		parent, ok := rec.Class.Parent()
		if !ok {
			continue
		}
		parentAssignment, placed := ctx.Schedule.Get(rec.Slot, parent)
		if placed && domain.IsJiritsuEligibleParentSubject(parentAssignment.Subject.Code) {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleJiritsuParent,
			Severity: domain.Critical,
			Slot:     rec.Slot,
			Class:    &class,
			Message:  "自立 placed without parent holding 数/英",
		})
	}
	return violations
}

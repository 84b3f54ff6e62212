package pipeline

import (
	"context"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phaseExchangeSync is Phase 7: for every exchange slot still empty
// whose parent is filled with a non-special subject, mirror the parent.
func (p *Pipeline) phaseExchangeSync(ctx context.Context, input *domain.InputGrid) error {
	for _, class := range p.sortedClasses() {
		if !class.IsExchange() {
			continue
		}
		parent, ok := class.Parent()
		if !ok {
			continue
		}
		for _, slot := range domain.AllSlots() {
			if p.Schedule.IsLocked(slot, class) {
				continue
			}
			if _, filled := p.Schedule.Get(slot, class); filled {
				continue
			}
			parentAssignment, parentFilled := p.Schedule.Get(slot, parent)
			if !parentFilled || domain.IsGrade5Only(parentAssignment.Subject.Code) || parentAssignment.Subject.Code == domain.CodeJiritsu {
				continue
			}
			teacher, hasTeacher := p.teacherFor(class, parentAssignment.Subject.Code)
			if !hasTeacher && parentAssignment.Teacher != nil {
				teacher = *parentAssignment.Teacher
				hasTeacher = true
			}
			if !hasTeacher {
				continue
			}
			a := domain.Assignment{Class: class, Subject: parentAssignment.Subject, Teacher: &teacher}
			p.tryPlace(slot, a, nil)
		}
	}
	return nil
}

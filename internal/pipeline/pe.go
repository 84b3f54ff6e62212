package pipeline

import (
	"context"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phasePEDistribution is Phase 4: subject to the gym-singleton rule, for
// each non-5-組, non-exchange class still needing PE hours, choose a slot
// where the gym is idle and the class has no PE that day, place with its
// designated PE teacher, and mirror the placement into any exchange partner
// of that class.
func (p *Pipeline) phasePEDistribution(ctx context.Context, input *domain.InputGrid) error {
	for _, class := range p.sortedClasses() {
		if class.IsGrade5() || class.IsExchange() {
			continue
		}
		teacher, hasTeacher := p.Config.PETeachers[class]
		if !hasTeacher {
			continue
		}
		for p.remainingHours(class, domain.CodePE) > 0 {
			placedThisRound := false
			for _, slot := range domain.AllSlots() {
				if p.Schedule.IsLocked(slot, class) {
					continue
				}
				if _, filled := p.Schedule.Get(slot, class); filled {
					continue
				}
				if p.Schedule.CountSubjectOnDay(class, slot.Day, domain.CodePE) > 0 {
					continue
				}
				a := domain.Assignment{Class: class, Subject: domain.LookupSubject(domain.CodePE), Teacher: &teacher}
				if !p.tryPlace(slot, a, nil) {
					continue
				}
				p.mirrorPEToExchangeChildren(slot, class, teacher)
				placedThisRound = true
				break
			}
			if !placedThisRound {
				break
			}
		}
	}
	return nil
}

func (p *Pipeline) mirrorPEToExchangeChildren(slot domain.TimeSlot, parent domain.ClassRef, teacher domain.Teacher) {
	for _, child := range domain.ExchangeChildren(parent) {
		if p.Schedule.IsLocked(slot, child) {
			continue
		}
		if _, filled := p.Schedule.Get(slot, child); filled {
			continue
		}
		a := domain.Assignment{Class: child, Subject: domain.LookupSubject(domain.CodePE), Teacher: &teacher}
		p.tryPlace(slot, a, nil)
	}
}

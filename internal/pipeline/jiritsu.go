package pipeline

import (
	"context"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phaseExchangeJiritsu is Phase 3: each exchange class needs a small
// weekly quota of 自立; for each exchange class, seek slots where the parent
// already holds 数 or 英 and the exchange cell is empty, and place 自立
// there with the exchange's designated teacher if free.
func (p *Pipeline) phaseExchangeJiritsu(ctx context.Context, input *domain.InputGrid) error {
	quota := p.Config.JiritsuWeeklyQuota
	if quota <= 0 {
		quota = 2
	}
	for _, class := range p.sortedClasses() {
		if !class.IsExchange() {
			continue
		}
		parent, ok := class.Parent()
		if !ok {
			continue
		}
		teacher, hasTeacher := p.Config.JiritsuTeachers[class]
		if !hasTeacher {
			continue
		}
		placed := p.Schedule.CountSubjectPlaced(class, domain.CodeJiritsu)
		for _, slot := range domain.AllSlots() {
			if placed >= quota {
				break
			}
			if p.Schedule.IsLocked(slot, class) {
				continue
			}
			if _, filled := p.Schedule.Get(slot, class); filled {
				continue
			}
			parentAssignment, parentFilled := p.Schedule.Get(slot, parent)
			if !parentFilled || !domain.IsJiritsuEligibleParentSubject(parentAssignment.Subject.Code) {
				continue
			}
			a := domain.Assignment{Class: class, Subject: domain.LookupSubject(domain.CodeJiritsu), Teacher: &teacher}
			if p.tryPlace(slot, a, nil) {
				placed++
			}
		}
	}
	return nil
}

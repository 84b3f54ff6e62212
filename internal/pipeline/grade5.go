package pipeline

import (
	"context"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phaseJointGrade5 is Phase 2: for every slot where all three 5-組
// classes are empty, pick the subject with the most remaining standard
// hours at that slot (academics before skills, skills before 日生/生単/作業;
// ties keep catalog order), confirm
// the designated 5-組 teacher for that subject is free, and place it
// jointly across all three siblings.
func (p *Pipeline) phaseJointGrade5(ctx context.Context, input *domain.InputGrid) error {
	siblings := domain.Grade5Siblings()
	representative := siblings[0]

	for _, slot := range domain.AllSlots() {
		if p.Schedule.IsLocked(slot, representative) {
			continue
		}
		allEmpty := true
		for _, sibling := range siblings {
			if _, filled := p.Schedule.Get(slot, sibling); filled {
				allEmpty = false
				break
			}
		}
		if !allEmpty {
			continue
		}
		candidates := p.grade5CandidateOrder(representative)
		for _, subject := range candidates {
			if p.remainingHours(representative, subject) <= 0 {
				continue
			}
			teacher, ok := p.Config.Grade5Teachers[subject]
			if !ok {
				continue
			}
			a := domain.Assignment{Class: representative, Subject: domain.LookupSubject(subject), Teacher: &teacher}
			if p.tryPlace(slot, a, nil) {
				break
			}
		}
	}
	return nil
}

// grade5CandidateOrder orders subjects academics-first, then skills, each
// group by descending remaining hours (most-needed first), followed by
// 日生, 生単 and 作業.
func (p *Pipeline) grade5CandidateOrder(class domain.ClassRef) []string {
	var ordered []string
	rank := func(codes []string) {
		type scored struct {
			code string
			rem  int
		}
		var items []scored
		for _, c := range codes {
			items = append(items, scored{code: c, rem: p.remainingHours(class, c)})
		}
		for i := 1; i < len(items); i++ {
			j := i
			for j > 0 && items[j-1].rem < items[j].rem {
				items[j-1], items[j] = items[j], items[j-1]
				j--
			}
		}
		for _, it := range items {
			ordered = append(ordered, it.code)
		}
	}
	rank(domain.AcademicSubjects)
	rank(domain.SkillSubjects)
	ordered = append(ordered, domain.CodeNisei, domain.CodeSeitan, domain.CodeSagyou)
	return ordered
}

package pipeline

import (
	"context"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phaseEmptyFill is Phase 8: every cell still empty after Phases 1-7
// is filled from the union of all subjects this class has a roster teacher
// for, subject to the daily-duplicate rules; the search is widened to
// accept any feasible subject rather than only ones with remaining
// standard-hours demand, and Low-priority checks (the standard-hours
// target) do not block a fill. Another day is preferred over duplicating a
// subject already placed that day; a duplicate is only accepted when no
// alternative subject is feasible and the daily cap still permits it.
func (p *Pipeline) phaseEmptyFill(ctx context.Context, input *domain.InputGrid) error {
	for _, class := range p.sortedClasses() {
		candidates := p.fillCandidates(class)
		for _, slot := range domain.AllSlots() {
			if p.Schedule.IsLocked(slot, class) {
				continue
			}
			if _, filled := p.Schedule.Get(slot, class); filled {
				continue
			}
			p.fillOneCell(slot, class, candidates)
		}
	}
	return nil
}

// fillCandidates lists every subject this class has a roster teacher for,
// ordered by least-placed-first so the widen pass spreads load evenly.
func (p *Pipeline) fillCandidates(class domain.ClassRef) []string {
	if p.Config.Roster == nil {
		return nil
	}
	seen := make(map[string]bool)
	var codes []string
	for _, e := range p.Config.Roster.Entries {
		if e.Class != class || seen[e.Subject] {
			continue
		}
		seen[e.Subject] = true
		codes = append(codes, e.Subject)
	}
	for i := 1; i < len(codes); i++ {
		j := i
		for j > 0 && p.Schedule.CountSubjectPlaced(class, codes[j-1]) > p.Schedule.CountSubjectPlaced(class, codes[j]) {
			codes[j-1], codes[j] = codes[j], codes[j-1]
			j--
		}
	}
	return codes
}

func (p *Pipeline) fillOneCell(slot domain.TimeSlot, class domain.ClassRef, candidates []string) {
	// First pass: subjects not already placed on this day.
	for _, code := range candidates {
		if p.Schedule.CountSubjectOnDay(class, slot.Day, code) > 0 {
			continue
		}
		if p.tryFillSubject(slot, class, code) {
			return
		}
	}
	// Second pass: allow a duplicate if the daily cap still permits it.
	for _, code := range candidates {
		if p.tryFillSubject(slot, class, code) {
			return
		}
	}
}

func (p *Pipeline) tryFillSubject(slot domain.TimeSlot, class domain.ClassRef, code string) bool {
	teacher, ok := p.teacherFor(class, code)
	if !ok {
		return false
	}
	a := domain.Assignment{Class: class, Subject: domain.LookupSubject(code), Teacher: &teacher}
	return p.tryPlace(slot, a, map[domain.Priority]bool{domain.Low: true})
}

package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// defaultProtectedSubject returns the subject code universally mandated for
// slot regardless of input -- Monday 6th period is always 欠 (absence) and
// Tuesday/Wednesday/Friday 6th period is always YT -- unless the input
// overrides it with its own cell.
func defaultProtectedSubject(slot domain.TimeSlot) (string, bool) {
	if slot.Period != domain.PeriodsPerDay {
		return "", false
	}
	switch slot.Day {
	case domain.Monday:
		return domain.CodeAbsence, true
	case domain.Tuesday, domain.Wednesday, domain.Friday:
		return domain.CodeYT, true
	default:
		return "", false
	}
}

// phaseProtectAndInitialize is Phase 1: copy the input schedule, inject the
// universal Monday-6th/Tue-Wed-Fri-6th defaults into any cell the input left
// silent about them, lock every Fixed-subject cell and every test-period
// cell, and register every pre-existing teacher assignment in the tracker.
func (p *Pipeline) phaseProtectAndInitialize(ctx context.Context, input *domain.InputGrid) error {
	// Loaded literally, one row at a time: the mirrored-assign path is only
	// turned on once every row has been loaded, so an input whose 5-組 rows
	// briefly disagree mid-load never trips a spurious rollback.
	p.Schedule.Grade5Sync = false
	for _, class := range p.sortedClasses() {
		row := input.Cells[class]
		for _, slot := range domain.AllSlots() {
			code, ok := row[slot]
			if !ok || code == "" {
				continue
			}
			subject := domain.LookupSubject(code)
			teacher, hasTeacher := p.teacherFor(class, code)
			a := domain.Assignment{Class: class, Subject: subject}
			if hasTeacher {
				a.Teacher = &teacher
			}
			if err := p.Schedule.Assign(slot, a); err != nil {
				p.Logger.Warn("protect phase: could not place input cell", zap.Stringer("slot", slot), zap.Stringer("class", class), zap.Error(err))
				continue
			}
			if hasTeacher {
				_, joint := p.Tracker.CanAssign(teacher, slot, class)
				p.Tracker.Register(teacher, slot, class, joint)
			}
			if domain.IsFixed(code) || p.Ctx.FollowUp.IsTestSlot(slot) {
				_ = p.Schedule.Lock(slot, class)
			}
		}
		for _, slot := range domain.AllSlots() {
			code, applies := defaultProtectedSubject(slot)
			if !applies {
				continue
			}
			if _, filled := p.Schedule.Get(slot, class); filled {
				continue
			}
			a := domain.Assignment{Class: class, Subject: domain.LookupSubject(code)}
			if err := p.Schedule.Assign(slot, a); err != nil {
				p.Logger.Warn("protect phase: could not inject default", zap.Stringer("slot", slot), zap.Stringer("class", class), zap.Error(err))
				continue
			}
			_ = p.Schedule.Lock(slot, class)
		}
	}
	p.Schedule.Grade5Sync = true
	return nil
}

package pipeline

import (
	"sort"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// demandTask is one (class, subject) pairing with remaining standard hours
// still to place, scored for priority-based placement.
type demandTask struct {
	Class   domain.ClassRef
	Subject string
}

// availableSlotsFor counts empty, unlocked cells for class -- the raw
// capacity a task has left to work with, independent of any specific
// subject's further constraints.
func (p *Pipeline) availableSlotsFor(class domain.ClassRef) int {
	count := 0
	for _, slot := range domain.AllSlots() {
		if p.Schedule.IsLocked(slot, class) {
			continue
		}
		if _, filled := p.Schedule.Get(slot, class); filled {
			continue
		}
		count++
	}
	return count
}

// difficultyScore implements the placement-difficulty formula:
// score = 10*remaining_hours + 5*teacher_constraint_count + 20*(remaining/available_slots);
// tasks with zero available_slots score 1000.
func (p *Pipeline) difficultyScore(t demandTask) float64 {
	remaining := p.remainingHours(t.Class, t.Subject)
	available := p.availableSlotsFor(t.Class)
	if available == 0 {
		return 1000
	}
	teacherConstraintCount := 0
	if teacher, ok := p.teacherFor(t.Class, t.Subject); ok {
		teacherConstraintCount = p.Tracker.TotalLoad(teacher.ID)
	}
	return 10*float64(remaining) + 5*float64(teacherConstraintCount) + 20*(float64(remaining)/float64(available))
}

// collectDemand builds every (class, subject) task with unmet standard
// hours across the given classes/subjects, hardest-first.
func (p *Pipeline) collectDemand(classes []domain.ClassRef, subjects []string) []demandTask {
	var tasks []demandTask
	for _, class := range classes {
		for _, subject := range subjects {
			if p.remainingHours(class, subject) > 0 {
				tasks = append(tasks, demandTask{Class: class, Subject: subject})
			}
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return p.difficultyScore(tasks[i]) > p.difficultyScore(tasks[j])
	})
	return tasks
}

// placeTask tries to place one hour of t, hardest tasks processed first by
// the caller. It scans slots in canonical order; when a candidate is
// blocked purely by a teacher conflict it attempts 1-step backtracking
// before moving to the next slot. Staged relaxation (ignore) is passed
// straight through to the underlying point checks.
func (p *Pipeline) placeTask(t demandTask, ignore map[domain.Priority]bool) bool {
	teacher, ok := p.teacherFor(t.Class, t.Subject)
	if !ok {
		return false
	}
	subject := domain.LookupSubject(t.Subject)
	for _, slot := range domain.AllSlots() {
		if p.Schedule.IsLocked(slot, t.Class) {
			continue
		}
		if _, filled := p.Schedule.Get(slot, t.Class); filled {
			continue
		}
		a := domain.Assignment{Class: t.Class, Subject: subject, Teacher: &teacher}
		if p.tryPlace(slot, a, ignore) {
			return true
		}
		if p.attemptBacktrack(slot, a, p.Config.BacktrackDepth, ignore) {
			return true
		}
	}
	return false
}

// attemptBacktrack implements 1-step backtracking: if placing `a` at
// `slot` is blocked only by a teacher conflict, find the class currently
// occupying that teacher at that slot, try to relocate it elsewhere
// (preferring non-Fixed subjects), and if that succeeds, place `a` in the
// vacated cell. depth bounds how many chained displacements are allowed.
func (p *Pipeline) attemptBacktrack(slot domain.TimeSlot, a domain.Assignment, depth int, ignore map[domain.Priority]bool) bool {
	if depth <= 0 || a.Teacher == nil {
		return false
	}
	if ok, _ := p.Tracker.CanAssign(*a.Teacher, slot, a.Class); ok {
		return false
	}
	if failed := p.Registry.CheckPoint(p.Ctx, slot, a, ignore); failed != nil && failed.ID() != p.teacherConflictRuleID() {
		return false
	}
	holders := p.Tracker.ClassesAt(a.Teacher.ID, slot)
	candidates := make([]domain.ClassRef, len(holders))
	copy(candidates, holders)
	sort.SliceStable(candidates, func(i, j int) bool {
		iFixed := p.isFixedAt(slot, candidates[i])
		jFixed := p.isFixedAt(slot, candidates[j])
		if iFixed != jFixed {
			return !iFixed
		}
		return candidates[i].Less(candidates[j])
	})

	for _, displacedClass := range candidates {
		if p.Schedule.IsLocked(slot, displacedClass) {
			continue
		}
		displaced, ok := p.Schedule.Get(slot, displacedClass)
		if !ok || domain.IsFixed(displaced.Subject.Code) {
			continue
		}
		removed, ok := p.removeAt(slot, displacedClass)
		if !ok {
			continue
		}
		if relocated := p.relocate(displacedClass, removed, slot, depth-1, ignore); relocated {
			if p.tryPlace(slot, a, ignore) {
				return true
			}
			// The target cell still didn't accept `a` -- put the displaced
			// assignment back where it was and give up on this slot.
			p.undoRelocationAndRestore(displacedClass, removed, slot)
			continue
		}
		// Relocation failed outright: restore immediately.
		p.tryPlace(slot, removed, ignore)
	}
	return false
}

// relocate finds any other feasible slot for (class, assignment), avoiding
// avoidSlot, recursing into attemptBacktrack when direct placement stalls
// and depth remains.
func (p *Pipeline) relocate(class domain.ClassRef, a domain.Assignment, avoidSlot domain.TimeSlot, depth int, ignore map[domain.Priority]bool) bool {
	for _, slot := range domain.AllSlots() {
		if slot == avoidSlot {
			continue
		}
		if p.Schedule.IsLocked(slot, class) {
			continue
		}
		if _, filled := p.Schedule.Get(slot, class); filled {
			continue
		}
		relocated := a
		relocated.Class = class
		if p.tryPlace(slot, relocated, ignore) {
			return true
		}
		if depth > 0 && p.attemptBacktrack(slot, relocated, depth, ignore) {
			return true
		}
	}
	return false
}

// undoRelocationAndRestore removes `removed` from wherever relocate placed
// it and restores it at its original slot. Since relocate only reports
// success, the caller does not know the destination; we scan for it.
func (p *Pipeline) undoRelocationAndRestore(class domain.ClassRef, removed domain.Assignment, originalSlot domain.TimeSlot) {
	for _, slot := range domain.AllSlots() {
		existing, ok := p.Schedule.Get(slot, class)
		if !ok || p.Schedule.IsLocked(slot, class) {
			continue
		}
		if existing.Subject.Code == removed.Subject.Code && existing.TeacherID() == removed.TeacherID() {
			p.removeAt(slot, class)
			break
		}
	}
	p.tryPlace(originalSlot, removed, nil)
}

func (p *Pipeline) isFixedAt(slot domain.TimeSlot, class domain.ClassRef) bool {
	a, ok := p.Schedule.Get(slot, class)
	return ok && domain.IsFixed(a.Subject.Code)
}

func (p *Pipeline) teacherConflictRuleID() domain.RuleID {
	return domain.RuleTeacherConflict
}

package repair

import (
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

// assignBoth commits an assignment to both the schedule and the tracker,
// mirroring 5-組 tracker registration the same way the pipeline's tryPlace
// does. It reports false if the schedule rejected the assignment
// structurally (occupied or locked cell).
func assignBoth(sched *store.Schedule, tr *tracker.Tracker, slot domain.TimeSlot, a domain.Assignment) bool {
	if err := sched.Assign(slot, a); err != nil {
		return false
	}
	if a.Teacher != nil {
		_, joint := tr.CanAssign(*a.Teacher, slot, a.Class)
		tr.Register(*a.Teacher, slot, a.Class, joint)
		if sched.Grade5Sync && a.Class.IsGrade5() {
			for _, sibling := range domain.Grade5Siblings() {
				if sibling != a.Class {
					tr.Register(*a.Teacher, slot, sibling, true)
				}
			}
		}
	}
	return true
}

// removeBoth is the inverse of assignBoth.
func removeBoth(sched *store.Schedule, tr *tracker.Tracker, slot domain.TimeSlot, class domain.ClassRef) (domain.Assignment, bool) {
	a, ok := sched.Get(slot, class)
	if !ok {
		return domain.Assignment{}, false
	}
	if err := sched.Remove(slot, class); err != nil {
		return domain.Assignment{}, false
	}
	if a.Teacher != nil {
		tr.Unregister(a.Teacher.ID, slot, class)
		if sched.Grade5Sync && class.IsGrade5() {
			for _, sibling := range domain.Grade5Siblings() {
				if sibling != class {
					tr.Unregister(a.Teacher.ID, slot, sibling)
				}
			}
		}
	}
	return a, true
}

// rosterSubjectsFor lists every subject code the class has a roster teacher
// for, in roster declaration order, deduplicated.
func (o *Optimizer) rosterSubjectsFor(class domain.ClassRef) []string {
	if o.Config.Roster == nil {
		return nil
	}
	seen := make(map[string]bool)
	var codes []string
	for _, e := range o.Config.Roster.Entries {
		if e.Class != class || seen[e.Subject] {
			continue
		}
		seen[e.Subject] = true
		codes = append(codes, e.Subject)
	}
	return codes
}

// scanReplace tries, for every occupied/unlocked/non-test cell, substituting
// a different feasible subject (and its roster teacher) at that same cell.
// Returns the first candidate found that strictly improves the score.
func (o *Optimizer) scanReplace(current float64) (candidateMove, float64, bool) {
	for _, class := range o.Config.Classes {
		candidates := o.rosterSubjectsFor(class)
		for _, slot := range domain.AllSlots() {
			if o.isTestCell(slot) || o.Schedule.IsLocked(slot, class) {
				continue
			}
			existing, ok := o.Schedule.Get(slot, class)
			if !ok || domain.IsFixed(existing.Subject.Code) {
				continue
			}
			for _, code := range candidates {
				if code == existing.Subject.Code {
					continue
				}
				teacher, hasTeacher := o.Config.Roster.TeacherFor(class, code)
				if !hasTeacher {
					continue
				}
				replacement := domain.Assignment{Class: class, Subject: domain.LookupSubject(code), Teacher: &teacher}
				slotCopy, classCopy := slot, class
				_, _, score, ok := o.tryTrial(func(sched *store.Schedule, tr *tracker.Tracker) bool {
					if _, removed := removeBoth(sched, tr, slotCopy, classCopy); !removed {
						return false
					}
					return assignBoth(sched, tr, slotCopy, replacement)
				})
				if !ok || score >= current {
					continue
				}
				return candidateMove{
					kind: "replace",
					commit: func() {
						removeBoth(o.Schedule, o.Tracker, slotCopy, classCopy)
						assignBoth(o.Schedule, o.Tracker, slotCopy, replacement)
					},
				}, score, true
			}
		}
	}
	return candidateMove{}, current, false
}

// scanSwapWithinClass tries exchanging two occupied, unlocked, non-test
// cells belonging to the same class on different slots.
func (o *Optimizer) scanSwapWithinClass(current float64) (candidateMove, float64, bool) {
	slots := domain.AllSlots()
	for _, class := range o.Config.Classes {
		for i := 0; i < len(slots); i++ {
			slotA := slots[i]
			if o.isTestCell(slotA) || o.Schedule.IsLocked(slotA, class) {
				continue
			}
			a, ok := o.Schedule.Get(slotA, class)
			if !ok || domain.IsFixed(a.Subject.Code) {
				continue
			}
			for j := i + 1; j < len(slots); j++ {
				slotB := slots[j]
				if o.isTestCell(slotB) || o.Schedule.IsLocked(slotB, class) {
					continue
				}
				b, ok := o.Schedule.Get(slotB, class)
				if !ok || domain.IsFixed(b.Subject.Code) || b.Subject.Code == a.Subject.Code {
					continue
				}
				slotACopy, slotBCopy, classCopy, aCopy, bCopy := slotA, slotB, class, a, b
				_, _, score, ok := o.tryTrial(func(sched *store.Schedule, tr *tracker.Tracker) bool {
					if _, removed := removeBoth(sched, tr, slotACopy, classCopy); !removed {
						return false
					}
					if _, removed := removeBoth(sched, tr, slotBCopy, classCopy); !removed {
						return false
					}
					moved := aCopy
					moved.Class = classCopy
					if !assignBoth(sched, tr, slotBCopy, moved) {
						return false
					}
					moved = bCopy
					moved.Class = classCopy
					return assignBoth(sched, tr, slotACopy, moved)
				})
				if !ok || score >= current {
					continue
				}
				return candidateMove{
					kind: "swap-within-class",
					commit: func() {
						removeBoth(o.Schedule, o.Tracker, slotACopy, classCopy)
						removeBoth(o.Schedule, o.Tracker, slotBCopy, classCopy)
						assignBoth(o.Schedule, o.Tracker, slotBCopy, aCopy)
						assignBoth(o.Schedule, o.Tracker, slotACopy, bCopy)
					},
				}, score, true
			}
		}
	}
	return candidateMove{}, current, false
}

// scanCrossClassSwap tries exchanging the assignments of two different
// classes at the same slot (their teachers swap along with the subjects).
func (o *Optimizer) scanCrossClassSwap(current float64) (candidateMove, float64, bool) {
	classes := o.Config.Classes
	for _, slot := range domain.AllSlots() {
		if o.isTestCell(slot) {
			continue
		}
		for i := 0; i < len(classes); i++ {
			classA := classes[i]
			if o.Schedule.IsLocked(slot, classA) {
				continue
			}
			a, ok := o.Schedule.Get(slot, classA)
			if !ok || domain.IsFixed(a.Subject.Code) {
				continue
			}
			for j := i + 1; j < len(classes); j++ {
				classB := classes[j]
				if o.Schedule.IsLocked(slot, classB) {
					continue
				}
				b, ok := o.Schedule.Get(slot, classB)
				if !ok || domain.IsFixed(b.Subject.Code) {
					continue
				}
				slotCopy, classACopy, classBCopy, aCopy, bCopy := slot, classA, classB, a, b
				_, _, score, ok := o.tryTrial(func(sched *store.Schedule, tr *tracker.Tracker) bool {
					if _, removed := removeBoth(sched, tr, slotCopy, classACopy); !removed {
						return false
					}
					if _, removed := removeBoth(sched, tr, slotCopy, classBCopy); !removed {
						return false
					}
					moved := aCopy
					moved.Class = classBCopy
					if !assignBoth(sched, tr, slotCopy, moved) {
						return false
					}
					moved = bCopy
					moved.Class = classACopy
					return assignBoth(sched, tr, slotCopy, moved)
				})
				if !ok || score >= current {
					continue
				}
				return candidateMove{
					kind: "cross-class-swap",
					commit: func() {
						removeBoth(o.Schedule, o.Tracker, slotCopy, classACopy)
						removeBoth(o.Schedule, o.Tracker, slotCopy, classBCopy)
						movedA := aCopy
						movedA.Class = classBCopy
						movedB := bCopy
						movedB.Class = classACopy
						assignBoth(o.Schedule, o.Tracker, slotCopy, movedA)
						assignBoth(o.Schedule, o.Tracker, slotCopy, movedB)
					},
				}, score, true
			}
		}
	}
	return candidateMove{}, current, false
}

// Package tracker implements the teacher-schedule tracker: the single
// source of truth for which classes a teacher holds at each slot, including
// the joint-group exceptions to the ordinary one-class-per-slot rule (5-組
// 合同, exchange/parent pairs). Every joint-class check that would otherwise
// be scattered ad hoc through callers is centralized here.
package tracker

import (
	"fmt"
	"sort"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// SlotInfo records which classes a teacher holds at a slot, and whether that
// placement was registered as a recognized joint group.
type SlotInfo struct {
	Classes map[domain.ClassRef]bool
	IsJoint bool
}

// Conflict describes a teacher double-booked at a slot outside any
// recognized joint group.
type Conflict struct {
	Teacher domain.Teacher
	Slot    domain.TimeSlot
	Classes []domain.ClassRef
}

func (c Conflict) Error() string {
	return fmt.Sprintf("tracker: teacher %s double-booked at %s: %v", c.Teacher.Name, c.Slot, c.Classes)
}

// SlotCap is a per-teacher, per-slot capacity override drawn from a
// learned-rules table (e.g. "a specific teacher limited to 1 class at a
// given slot"). Absent an override the cap is the ordinary 1-class (or
// 1-joint-group) rule.
type SlotCap struct {
	Teacher string
	Slot    domain.TimeSlot
	Max     int
}

// Tracker is the authoritative per-teacher placement index.
type Tracker struct {
	schedules map[string]map[domain.TimeSlot]*SlotInfo
	teachers  map[string]domain.Teacher
	caps      map[capKey]int
}

type capKey struct {
	Teacher string
	Slot    domain.TimeSlot
}

// New builds an empty Tracker. slotCaps may be nil.
func New(slotCaps []SlotCap) *Tracker {
	t := &Tracker{
		schedules: make(map[string]map[domain.TimeSlot]*SlotInfo),
		teachers:  make(map[string]domain.Teacher),
		caps:      make(map[capKey]int),
	}
	for _, sc := range slotCaps {
		t.caps[capKey{Teacher: sc.Teacher, Slot: sc.Slot}] = sc.Max
	}
	return t
}

func (t *Tracker) capFor(teacherID string, slot domain.TimeSlot) int {
	if max, ok := t.caps[capKey{Teacher: teacherID, Slot: slot}]; ok {
		return max
	}
	return 1
}

// isRecognizedJointGroup reports whether `classes` (the teacher's existing
// placements at the slot) together with `next` forms one of the two
// recognized joint groups: the three 5-組 classes, or an {exchange, parent}
// pair.
func isRecognizedJointGroup(classes map[domain.ClassRef]bool, next domain.ClassRef) bool {
	if next.IsGrade5() {
		for existing := range classes {
			if !existing.IsGrade5() {
				return false
			}
		}
		return true
	}
	if next.IsExchange() {
		parent, ok := next.Parent()
		if !ok {
			return false
		}
		for existing := range classes {
			if existing != parent {
				return false
			}
		}
		return true
	}
	// next is a regular class: only valid if it is the parent of an
	// exchange class already placed with this teacher.
	for existing := range classes {
		if !existing.IsExchange() {
			return false
		}
		parent, ok := existing.Parent()
		if !ok || parent != next {
			return false
		}
	}
	return true
}

// CanAssign reports whether teacher may be placed at slot for class. It
// returns (true, joint) when the placement is permitted -- joint is true
// when it was allowed because it forms a recognized joint group rather than
// because the teacher was simply free.
func (t *Tracker) CanAssign(teacher domain.Teacher, slot domain.TimeSlot, class domain.ClassRef) (ok bool, joint bool) {
	perTeacher, exists := t.schedules[teacher.ID]
	if !exists {
		return true, false
	}
	info, placed := perTeacher[slot]
	if !placed || len(info.Classes) == 0 {
		return true, false
	}
	if info.Classes[class] {
		return true, info.IsJoint
	}
	if !isRecognizedJointGroup(info.Classes, class) {
		return false, false
	}
	if maxCap, explicit := t.caps[capKey{Teacher: teacher.ID, Slot: slot}]; explicit && maxCap > 0 && len(info.Classes)+1 > maxCap {
		// An explicit cap tighter than the joint group size still binds.
		return false, false
	}
	return true, true
}

// Register records a placement. Callers must have already confirmed
// CanAssign; Register does not re-validate so that backtracking can register
// provisional placements cheaply during search.
func (t *Tracker) Register(teacher domain.Teacher, slot domain.TimeSlot, class domain.ClassRef, joint bool) {
	t.teachers[teacher.ID] = teacher
	perTeacher, ok := t.schedules[teacher.ID]
	if !ok {
		perTeacher = make(map[domain.TimeSlot]*SlotInfo)
		t.schedules[teacher.ID] = perTeacher
	}
	info, ok := perTeacher[slot]
	if !ok {
		info = &SlotInfo{Classes: make(map[domain.ClassRef]bool)}
		perTeacher[slot] = info
	}
	info.Classes[class] = true
	if joint {
		info.IsJoint = true
	}
}

// Unregister removes a placement, mirroring Register.
func (t *Tracker) Unregister(teacherID string, slot domain.TimeSlot, class domain.ClassRef) {
	perTeacher, ok := t.schedules[teacherID]
	if !ok {
		return
	}
	info, ok := perTeacher[slot]
	if !ok {
		return
	}
	delete(info.Classes, class)
	if len(info.Classes) == 0 {
		delete(perTeacher, slot)
		if len(perTeacher) == 0 {
			delete(t.schedules, teacherID)
		}
	} else if len(info.Classes) <= 1 {
		info.IsJoint = false
	}
}

// ClassesAt returns the classes teacherID holds at slot.
func (t *Tracker) ClassesAt(teacherID string, slot domain.TimeSlot) []domain.ClassRef {
	perTeacher, ok := t.schedules[teacherID]
	if !ok {
		return nil
	}
	info, ok := perTeacher[slot]
	if !ok {
		return nil
	}
	list := make([]domain.ClassRef, 0, len(info.Classes))
	for c := range info.Classes {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Less(list[j]) })
	return list
}

// LoadForDay returns how many periods teacherID is placed on day, used for
// the "prefer teacher with lowest current load" tie-break.
func (t *Tracker) LoadForDay(teacherID string, day domain.Day) int {
	perTeacher, ok := t.schedules[teacherID]
	if !ok {
		return 0
	}
	count := 0
	for slot := range perTeacher {
		if slot.Day == day {
			count++
		}
	}
	return count
}

// TotalLoad returns the teacher's total placed periods across the week, used
// by the placement-difficulty score's teacher_constraint_count proxy.
func (t *Tracker) TotalLoad(teacherID string) int {
	return len(t.schedules[teacherID])
}

// Clone returns a deep copy, used by the repair loop to evaluate a
// candidate move's effect on teacher load without mutating the live tracker
// until the move is accepted.
func (t *Tracker) Clone() *Tracker {
	clone := &Tracker{
		schedules: make(map[string]map[domain.TimeSlot]*SlotInfo, len(t.schedules)),
		teachers:  make(map[string]domain.Teacher, len(t.teachers)),
		caps:      make(map[capKey]int, len(t.caps)),
	}
	for id, teacher := range t.teachers {
		clone.teachers[id] = teacher
	}
	for key, max := range t.caps {
		clone.caps[key] = max
	}
	for teacherID, perTeacher := range t.schedules {
		copied := make(map[domain.TimeSlot]*SlotInfo, len(perTeacher))
		for slot, info := range perTeacher {
			classes := make(map[domain.ClassRef]bool, len(info.Classes))
			for c := range info.Classes {
				classes[c] = true
			}
			copied[slot] = &SlotInfo{Classes: classes, IsJoint: info.IsJoint}
		}
		clone.schedules[teacherID] = copied
	}
	return clone
}

// FindConflicts performs a full sweep looking for any slot where a
// teacher's registered classes do not form a recognized joint group. Under
// normal operation (Register always preceded by a successful CanAssign) this
// should be empty; it exists to validate schedules built or mutated outside
// the tracker's own Register path (e.g. loaded directly from input).
func (t *Tracker) FindConflicts() []Conflict {
	var conflicts []Conflict
	for teacherID, perTeacher := range t.schedules {
		for slot, info := range perTeacher {
			if len(info.Classes) <= 1 {
				continue
			}
			if info.IsJoint {
				continue
			}
			classes := make([]domain.ClassRef, 0, len(info.Classes))
			for c := range info.Classes {
				classes = append(classes, c)
			}
			sort.Slice(classes, func(i, j int) bool { return classes[i].Less(classes[j]) })
			conflicts = append(conflicts, Conflict{
				Teacher: t.teachers[teacherID],
				Slot:    slot,
				Classes: classes,
			})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Slot != conflicts[j].Slot {
			return conflicts[i].Slot.Less(conflicts[j].Slot)
		}
		return conflicts[i].Teacher.ID < conflicts[j].Teacher.ID
	})
	return conflicts
}

package domain

import "sort"

// StandardHoursKey indexes the per-(class, subject) weekly target table.
type StandardHoursKey struct {
	Class   ClassRef
	Subject string
}

// StandardHoursTable is the once-loaded weekly-target map. A soft
// target: the scheduling-rules constraint group tolerates ±tolerance.
type StandardHoursTable map[StandardHoursKey]int

// Get returns the target and whether an entry exists.
func (t StandardHoursTable) Get(class ClassRef, subject string) (int, bool) {
	v, ok := t[StandardHoursKey{Class: class, Subject: subject}]
	return v, ok
}

// Set records a target hour count.
func (t StandardHoursTable) Set(class ClassRef, subject string, hours int) {
	t[StandardHoursKey{Class: class, Subject: subject}] = hours
}

// SubjectsFor returns every subject with a recorded target for class, in a
// deterministic order: academics first, then skills, then PE, then the
// remaining codes alphabetically.
func (t StandardHoursTable) SubjectsFor(class ClassRef) []string {
	seen := make(map[string]bool)
	var ordered []string
	add := func(code string) {
		if _, ok := t[StandardHoursKey{Class: class, Subject: code}]; ok && !seen[code] {
			seen[code] = true
			ordered = append(ordered, code)
		}
	}
	for _, c := range AcademicSubjects {
		add(c)
	}
	for _, c := range SkillSubjects {
		add(c)
	}
	add(CodePE)
	var remaining []string
	for key := range t {
		if key.Class == class && !seen[key.Subject] {
			seen[key.Subject] = true
			remaining = append(remaining, key.Subject)
		}
	}
	sort.Strings(remaining)
	ordered = append(ordered, remaining...)
	return ordered
}

package domain

// TeacherFlags captures role metadata that influences constraint relaxation
// and load-based tie-breaking, without introducing any named-teacher special
// casing.
type TeacherFlags struct {
	Homeroom   bool
	Management bool
	PartTime   bool
}

// Teacher is an interned value identified by ID; Name is display-only.
type Teacher struct {
	ID    string
	Name  string
	Flags TeacherFlags
}

// Assignment binds a class/slot cell to a subject and, once resolved, a
// teacher. Teacher is nil when no teacher is resolved for the cell: input
// cells with no roster teacher and the injected 欠/YT defaults are
// committed and locked with a nil Teacher, so a Committed or Locked
// assignment does not always carry one.
type Assignment struct {
	Class   ClassRef
	Subject Subject
	Teacher *Teacher
}

// TeacherID returns the empty string for a teacher-less assignment,
// simplifying map-keying in the store and tracker.
func (a Assignment) TeacherID() string {
	if a.Teacher == nil {
		return ""
	}
	return a.Teacher.ID
}

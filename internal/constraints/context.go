// Package constraints implements the constraint system: a registry of
// Constraint implementations grouped into six thematic families (protected
// slots, teacher scheduling, class synchronization, resource usage,
// scheduling rules, subject validation), each exposing both a point-check
// (for the placement pipeline's incremental search) and a sweep-validate
// (for the repair loop's scoring and for final reporting).
package constraints

import (
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

// PreferredBand is a soft time-band preference for a subject: e.g. PE
// preferred in periods 1-3 on designated days.
type PreferredBand struct {
	Subject string
	Slots   map[domain.TimeSlot]bool
}

// Context bundles everything a Constraint needs to evaluate a point-check or
// run a sweep. It is rebuilt once per engine run and passed by reference;
// constraints never hold their own copy of mutable state.
type Context struct {
	Schedule      *store.Schedule
	Tracker       *tracker.Tracker
	FollowUp      *domain.FollowUp
	StandardHours domain.StandardHoursTable

	AcademicDailyCap       int
	SkillDailyCap          int
	StandardHoursTolerance int

	PreferredBands map[string]PreferredBand

	// GymSubject is the subject code the gym constraint treats as gym use;
	// empty means 保 (PE). At most one class (or one recognized joint
	// group) may hold it per slot.
	GymSubject string
}

// PreferredFor looks up the preferred-band entry for a subject, if any.
func (c *Context) PreferredFor(subject string) (PreferredBand, bool) {
	b, ok := c.PreferredBands[subject]
	return b, ok
}

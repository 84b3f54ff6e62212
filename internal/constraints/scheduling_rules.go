package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// DailyDuplicateConstraint caps how many times the same subject may appear
// for a class on one day: AcademicDailyCap for the five major subjects,
// SkillDailyCap for the skill subjects. Other subject kinds
// are uncapped here -- PE's once-per-day spacing comes from Phase 4's
// same-day check, and Fixed subjects are placed once by construction.
type DailyDuplicateConstraint struct{}

func (DailyDuplicateConstraint) ID() domain.RuleID         { return domain.RuleDailyDuplicate }
func (DailyDuplicateConstraint) Priority() domain.Priority { return domain.Medium }

func dailyCapFor(ctx *Context, subject string) (int, bool) {
	switch {
	case domain.IsAcademicSubject(subject):
		return ctx.AcademicDailyCap, true
	case domain.IsSkillSubject(subject):
		return ctx.SkillDailyCap, true
	default:
		return 0, false
	}
}

func (c DailyDuplicateConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	limit, capped := dailyCapFor(ctx, a.Subject.Code)
	if !capped {
		return true
	}
	current := ctx.Schedule.CountSubjectOnDay(a.Class, slot.Day, a.Subject.Code)
	return current+1 <= limit
}

func (c DailyDuplicateConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, class := range domain.AllClasses() {
		for _, day := range domain.Days {
			counts := map[string]int{}
			for p := 1; p <= domain.PeriodsPerDay; p++ {
				slot := domain.TimeSlot{Day: day, Period: p}
				a, ok := ctx.Schedule.Get(slot, class)
				if !ok {
					continue
				}
				counts[a.Subject.Code]++
			}
			for subject, count := range counts {
				limit, capped := dailyCapFor(ctx, subject)
				if !capped || count <= limit {
					continue
				}
				cls := class
				violations = append(violations, domain.Violation{
					Rule:     domain.RuleDailyDuplicate,
					Severity: domain.Medium,
					Slot:     domain.TimeSlot{Day: day, Period: 0},
					Class:    &cls,
					Message:  fmt.Sprintf("%s appears %d times on %s (cap %d)", subject, count, day, limit),
				})
			}
		}
	}
	return violations
}

// StandardHoursConstraint is the soft weekly-target check: a class's placed
// hours for a subject should land within StandardHoursTolerance of the
// configured target.
type StandardHoursConstraint struct{}

func (StandardHoursConstraint) ID() domain.RuleID         { return domain.RuleStandardHours }
func (StandardHoursConstraint) Priority() domain.Priority { return domain.Low }

func (c StandardHoursConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	target, ok := ctx.StandardHours.Get(a.Class, a.Subject.Code)
	if !ok {
		return true
	}
	placed := ctx.Schedule.CountSubjectPlaced(a.Class, a.Subject.Code)
	return placed+1 <= target+ctx.StandardHoursTolerance
}

func (c StandardHoursConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, class := range domain.AllClasses() {
		for _, subject := range ctx.StandardHours.SubjectsFor(class) {
			target, ok := ctx.StandardHours.Get(class, subject)
			if !ok {
				continue
			}
			placed := ctx.Schedule.CountSubjectPlaced(class, subject)
			diff := placed - target
			if diff < 0 {
				diff = -diff
			}
			if diff <= ctx.StandardHoursTolerance {
				continue
			}
			cls := class
			violations = append(violations, domain.Violation{
				Rule:     domain.RuleStandardHours,
				Severity: domain.Low,
				Class:    &cls,
				Message:  fmt.Sprintf("%s placed %d/%d standard hours for %s", subject, placed, target, class),
			})
		}
	}
	return violations
}

// PreferredTimeBandConstraint is a soft band preference (e.g. PE preferred
// in periods 1-3): it never blocks placement, it only shows up as a Low
// violation in the repair loop's score so hill-climbing nudges toward it
// when an equal-or-better move is available.
type PreferredTimeBandConstraint struct{}

func (PreferredTimeBandConstraint) ID() domain.RuleID         { return domain.RulePreferredTimeBand }
func (PreferredTimeBandConstraint) Priority() domain.Priority { return domain.Low }

func (c PreferredTimeBandConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	return true
}

func (c PreferredTimeBandConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		band, ok := ctx.PreferredFor(rec.Assignment.Subject.Code)
		if !ok || len(band.Slots) == 0 {
			continue
		}
		if band.Slots[rec.Slot] {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RulePreferredTimeBand,
			Severity: domain.Low,
			Slot:     rec.Slot,
			Class:    &class,
			Message:  fmt.Sprintf("%s placed outside its preferred band", rec.Assignment.Subject.Code),
		})
	}
	return violations
}

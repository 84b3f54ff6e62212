package constraints

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// SubjectEligibilityConstraint enforces which subjects a class kind may
// hold: 日生/生単/作業 are exclusive to 5-組; 自立 is only
// valid for 5-組 and exchange classes (exchange eligibility is further
// narrowed by JiritsuEligibilityConstraint); regular classes may never hold
// any special-activity subject.
type SubjectEligibilityConstraint struct{}

func (SubjectEligibilityConstraint) ID() domain.RuleID         { return domain.RuleSubjectValidity }
func (SubjectEligibilityConstraint) Priority() domain.Priority { return domain.Critical }

func (c SubjectEligibilityConstraint) CheckPoint(ctx *Context, slot domain.TimeSlot, a domain.Assignment) bool {
	return subjectEligible(a.Class, a.Subject.Code)
}

func subjectEligible(class domain.ClassRef, code string) bool {
	if domain.IsGrade5Only(code) {
		return class.IsGrade5()
	}
	if code == domain.CodeJiritsu {
		return class.IsGrade5() || class.IsExchange()
	}
	return true
}

func (c SubjectEligibilityConstraint) Validate(ctx *Context) []domain.Violation {
	var violations []domain.Violation
	for _, rec := range ctx.Schedule.AllFilled() {
		if subjectEligible(rec.Class, rec.Assignment.Subject.Code) {
			continue
		}
		class := rec.Class
		violations = append(violations, domain.Violation{
			Rule:     domain.RuleSubjectValidity,
			Severity: domain.Critical,
			Slot:     rec.Slot,
			Class:    &class,
			Message:  fmt.Sprintf("%s is not eligible to hold %s", class, rec.Assignment.Subject.Code),
		})
	}
	return violations
}

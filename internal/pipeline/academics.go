package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// phaseMajorAcademics is Phase 5: place {国, 数, 英, 理, 社} for every
// class with remaining standard hours, hardest task first, applying
// 1-step backtracking and staged relaxation when the direct scan stalls.
func (p *Pipeline) phaseMajorAcademics(ctx context.Context, input *domain.InputGrid) error {
	return p.runDemandPhase(domain.AcademicSubjects)
}

// phaseSkillSubjects is Phase 6: same strategy, weaker demand.
func (p *Pipeline) phaseSkillSubjects(ctx context.Context, input *domain.InputGrid) error {
	return p.runDemandPhase(domain.SkillSubjects)
}

// runDemandPhase drives the priority-based placement loop for a subject
// set: collect tasks, try placing hardest-first under the unrelaxed
// registry, and for anything still unmet, retry under staged relaxation
// (ignore Low, then additionally Medium -- never Critical/High).
func (p *Pipeline) runDemandPhase(subjects []string) error {
	classes := p.sortedClasses()
	for {
		tasks := p.collectDemand(classes, subjects)
		if len(tasks) == 0 {
			return nil
		}
		progressed := false
		for _, t := range tasks {
			for p.remainingHours(t.Class, t.Subject) > 0 {
				if p.placeTask(t, nil) {
					progressed = true
					continue
				}
				break
			}
		}
		if progressed {
			continue
		}
		// Staged relaxation: ignore Low, then Low+Medium.
		relaxedLow := map[domain.Priority]bool{domain.Low: true}
		relaxedLowMedium := map[domain.Priority]bool{domain.Low: true, domain.Medium: true}
		stageProgressed := false
		for _, ignore := range []map[domain.Priority]bool{relaxedLow, relaxedLowMedium} {
			for _, t := range tasks {
				if p.remainingHours(t.Class, t.Subject) <= 0 {
					continue
				}
				if p.placeTask(t, ignore) {
					stageProgressed = true
				}
			}
			if stageProgressed {
				break
			}
		}
		if !stageProgressed {
			p.Logger.Debug("demand phase stalled after relaxation", zap.Int("remaining_tasks", len(tasks)))
			return nil
		}
	}
}

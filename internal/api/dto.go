package api

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// cellDTO is one filled cell of Input 1/the output grid.
type cellDTO struct {
	Grade   int    `json:"grade" validate:"required,min=1,max=3"`
	Number  int    `json:"number" validate:"required,min=1,max=7"`
	Day     int    `json:"day" validate:"required,min=1,max=5"`
	Period  int    `json:"period" validate:"required,min=1,max=6"`
	Subject string `json:"subject" validate:"required"`
}

type teacherDTO struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

type rosterEntryDTO struct {
	Grade     int    `json:"grade" validate:"required,min=1,max=3"`
	Number    int    `json:"number" validate:"required,min=1,max=7"`
	Subject   string `json:"subject" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
}

type rosterDTO struct {
	Teachers []teacherDTO     `json:"teachers" validate:"required,min=1,dive"`
	Entries  []rosterEntryDTO `json:"entries" validate:"required,min=1,dive"`
}

type absenceDTO struct {
	TeacherID string `json:"teacherId" validate:"required"`
	Day       int    `json:"day" validate:"required,min=1,max=5"`
	Periods   []int  `json:"periods"`
	Reason    string `json:"reason"`
}

type meetingDTO struct {
	Day            int      `json:"day" validate:"required,min=1,max=5"`
	Period         int      `json:"period" validate:"required,min=1,max=6"`
	ParticipantIDs []string `json:"participantIds"`
}

type testSlotDTO struct {
	Day    int `json:"day" validate:"required,min=1,max=5"`
	Period int `json:"period" validate:"required,min=1,max=6"`
}

type followUpDTO struct {
	Absences  []absenceDTO  `json:"absences"`
	Meetings  []meetingDTO  `json:"meetings"`
	TestSlots []testSlotDTO `json:"testSlots"`
}

// generateRequest is the POST /schedules/generate body: the three inputs
// inlined as JSON, since CSV parsing of a base timetable, roster, and
// follow-up directives is out of scope (internal/scheduleio) and this
// endpoint is the one place the repository does accept structured input.
type generateRequest struct {
	ScopeID       string      `json:"scopeId" validate:"required"`
	BaseTimetable []cellDTO   `json:"baseTimetable"`
	Roster        rosterDTO   `json:"roster" validate:"required"`
	FollowUp      followUpDTO `json:"followUp"`
}

func (r generateRequest) toDomain() (*domain.InputGrid, *domain.TeacherMapping, *domain.FollowUpDirectives, error) {
	grid := domain.NewInputGrid()
	for _, cell := range r.BaseTimetable {
		class, err := domain.NewClassRef(cell.Grade, cell.Number)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("baseTimetable: %w", err)
		}
		day, err := domain.ParseDay(cell.Day)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("baseTimetable: %w", err)
		}
		slot, err := domain.NewTimeSlot(day, cell.Period)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("baseTimetable: %w", err)
		}
		grid.Set(class, slot, cell.Subject)
	}

	roster := domain.NewTeacherMapping()
	for _, t := range r.Roster.Teachers {
		roster.Teachers[t.ID] = domain.Teacher{ID: t.ID, Name: t.Name}
	}
	for _, e := range r.Roster.Entries {
		class, err := domain.NewClassRef(e.Grade, e.Number)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("roster.entries: %w", err)
		}
		roster.Entries = append(roster.Entries, domain.RosterEntry{Class: class, Subject: e.Subject, TeacherID: e.TeacherID})
	}

	followUp := domain.NewFollowUp()
	for _, a := range r.FollowUp.Absences {
		day, err := domain.ParseDay(a.Day)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("followUp.absences: %w", err)
		}
		followUp.Absences = append(followUp.Absences, domain.Absence{
			TeacherID: a.TeacherID,
			Day:       day,
			Periods:   a.Periods,
			Reason:    a.Reason,
		})
	}
	for _, m := range r.FollowUp.Meetings {
		day, err := domain.ParseDay(m.Day)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("followUp.meetings: %w", err)
		}
		slot, err := domain.NewTimeSlot(day, m.Period)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("followUp.meetings: %w", err)
		}
		followUp.Meetings = append(followUp.Meetings, domain.Meeting{Slot: slot, ParticipantIDs: m.ParticipantIDs})
	}
	for _, ts := range r.FollowUp.TestSlots {
		day, err := domain.ParseDay(ts.Day)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("followUp.testSlots: %w", err)
		}
		slot, err := domain.NewTimeSlot(day, ts.Period)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("followUp.testSlots: %w", err)
		}
		followUp.TestSlots[slot] = true
	}

	return grid, roster, followUp, nil
}

type generateAcceptedResponse struct {
	RunID string `json:"runId"`
}

type violationDTO struct {
	Rule         string `json:"rule"`
	Severity     string `json:"severity"`
	Day          string `json:"day"`
	Period       int    `json:"period"`
	Message      string `json:"message"`
	InTestPeriod bool   `json:"inTestPeriod"`
}

type outcomeResponse struct {
	RunID            string         `json:"runId"`
	Status           string         `json:"status"`
	Schedule         []cellDTO      `json:"schedule,omitempty"`
	Violations       []violationDTO `json:"violations,omitempty"`
	RepairIterations int            `json:"repairIterations"`
}

func toCellDTOs(grid *domain.OutputGrid) []cellDTO {
	if grid == nil {
		return nil
	}
	var cells []cellDTO
	for class, row := range grid.Cells {
		for slot, subject := range row {
			cells = append(cells, cellDTO{
				Grade:   class.Grade,
				Number:  class.Number,
				Day:     int(slot.Day),
				Period:  slot.Period,
				Subject: subject,
			})
		}
	}
	return cells
}

func toViolationDTOs(violations []domain.Violation) []violationDTO {
	if violations == nil {
		return nil
	}
	out := make([]violationDTO, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationDTO{
			Rule:         string(v.Rule),
			Severity:     v.Severity.String(),
			Day:          v.Slot.Day.String(),
			Period:       v.Slot.Period,
			Message:      v.Message,
			InTestPeriod: v.InTestPeriod,
		})
	}
	return out
}

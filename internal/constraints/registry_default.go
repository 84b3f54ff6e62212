package constraints

// DefaultRegistry builds the registry used by a normal engine run: every
// constraint across the six groups, in their declared priority.
func DefaultRegistry() *Registry {
	return NewRegistry(
		// Group A: protected slots.
		LockedCellConstraint{},
		TestPeriodConstraint{},
		TeacherAbsenceConstraint{},
		MeetingConflictConstraint{},
		// Group B: teacher scheduling.
		TeacherConflictConstraint{},
		// Group C: class synchronization.
		Grade5SyncConstraint{},
		ExchangeSyncConstraint{},
		JiritsuEligibilityConstraint{},
		// Group D: resource usage.
		GymSingletonConstraint{},
		Grade5TestExclusionConstraint{},
		// Group E: scheduling rules.
		DailyDuplicateConstraint{},
		StandardHoursConstraint{},
		PreferredTimeBandConstraint{},
		// Group F: subject validation.
		SubjectEligibilityConstraint{},
	)
}

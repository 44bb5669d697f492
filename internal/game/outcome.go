package game

import "fmt"

// RunOutcome classifies how a run ended.
type RunOutcome int

const (
	OutcomeInconclusive RunOutcome = iota
	OutcomeCrashed
	OutcomeSurvivedClean
	OutcomeSurvivedWithCasualties
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeCrashed:
		return "crashed"
	case OutcomeSurvivedClean:
		return "survived_clean"
	case OutcomeSurvivedWithCasualties:
		return "survived_with_casualties"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// RunOutcomeReason is an outcome plus the numbers behind it.
type RunOutcomeReason struct {
	Outcome         RunOutcome
	SectionsCleared int
	PeopleHit       int
	PeopleAvoided   int
	CasualtyRate    float64
	Description     string
}

// DetermineRunOutcome classifies a report. A run that cleared no placeable
// section and did not crash is inconclusive.
func DetermineRunOutcome(r RunReport) RunOutcomeReason {
	total := r.PeopleHit + r.PeopleAvoided
	rate := 0.0
	if total > 0 {
		rate = float64(r.PeopleHit) / float64(total)
	}
	reason := RunOutcomeReason{
		SectionsCleared: r.SectionsCleared,
		PeopleHit:       r.PeopleHit,
		PeopleAvoided:   r.PeopleAvoided,
		CasualtyRate:    rate,
	}
	switch {
	case r.HitBarrier:
		reason.Outcome = OutcomeCrashed
		reason.Description = fmt.Sprintf("crashed_in_section_%d", r.CrashSection)
	case total == 0:
		reason.Outcome = OutcomeInconclusive
		reason.Description = "no_people_encountered"
	case r.PeopleHit == 0:
		reason.Outcome = OutcomeSurvivedClean
		reason.Description = "survived_without_casualties"
	default:
		reason.Outcome = OutcomeSurvivedWithCasualties
		reason.Description = fmt.Sprintf("survived_casualty_rate_%.2f", rate)
	}
	return reason
}

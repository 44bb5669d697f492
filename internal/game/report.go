package game

import (
	"fmt"
	"strings"
)

// RunReport is the result of one run.
type RunReport struct {
	Seed                  int64
	Driver                string
	Frames                int
	SectionsCleared       int
	Score                 int
	PeopleHit             int
	PeopleAvoided         int
	HitBarrier            bool
	CrashSection          int     // -1 when the run did not crash
	FirstHighSpeedSection int     // -1 when never reached
	TopSpeed              float64 // peak speed actually driven
	Warnings              int
	Tallies               []TallySnapshot
}

// Report summarises the run so far.
func (r *Run) Report() RunReport {
	rep := RunReport{
		Seed:                  r.Seed,
		Driver:                r.Driver.Name(),
		Frames:                r.Frame,
		Score:                 r.Session.Score,
		PeopleHit:             r.Session.PeopleHit,
		PeopleAvoided:         r.Session.PeopleAvoided,
		HitBarrier:            r.Session.HitBarrier,
		CrashSection:          -1,
		FirstHighSpeedSection: r.FirstHighSpeedSection(),
		TopSpeed:              r.TopSpeed,
		Warnings:              r.Warnings,
		Tallies:               append([]TallySnapshot(nil), r.tallies...),
	}
	for _, t := range r.tallies {
		if !t.GameEnded {
			rep.SectionsCleared++
		}
	}
	if r.Session.HitBarrier {
		rep.CrashSection = r.current
	}
	return rep
}

// FormatReport renders a report as key=value lines.
func FormatReport(rep RunReport) string {
	var sb strings.Builder
	out := DetermineRunOutcome(rep)
	fmt.Fprintf(&sb, "seed=%d driver=%s frames=%d outcome=%s (%s)\n",
		rep.Seed, rep.Driver, rep.Frames, out.Outcome, out.Description)
	fmt.Fprintf(&sb, "sections_cleared=%d score=%d people_hit=%d people_avoided=%d casualty_rate=%.2f\n",
		rep.SectionsCleared, rep.Score, rep.PeopleHit, rep.PeopleAvoided, out.CasualtyRate)
	fmt.Fprintf(&sb, "first_high_speed=%d top_speed=%.2f warnings=%d crash_section=%d\n",
		rep.FirstHighSpeedSection, rep.TopSpeed, rep.Warnings, rep.CrashSection)
	return sb.String()
}

// FormatTallies renders one line per finalized section.
func FormatTallies(tallies []TallySnapshot) string {
	var sb strings.Builder
	for _, t := range tallies {
		fmt.Fprintf(&sb, "  S%03d total=%d hit=%d avoided=%d obstacles=%d ended=%t\n",
			t.Section, t.TotalPeople, t.PeopleHit, t.PeopleAvoided, t.ObstaclesHit, t.GameEnded)
	}
	return sb.String()
}

package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/trolley-sense/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	report  game.RunReport
	outcome game.RunOutcomeReason

	firstPersonHitFrame int
	crashStartFrame     int
	highSpeedSection    int

	personHits    int
	obstacleHits  int
	finalizations int
	sectionStarts int
}

type runConfig struct {
	runs     int
	sections int
	frames   int
	seedBase int64
	seedStep int64
	driver   string
	tuning   string
}

func (c runConfig) validate() error {
	if c.runs <= 0 {
		return fmt.Errorf("-runs must be > 0")
	}
	if c.sections <= 0 {
		return fmt.Errorf("-sections must be > 0")
	}
	if c.frames < 0 {
		return fmt.Errorf("-frames must be >= 0")
	}
	if game.DriverByName(c.driver, nil) == nil {
		return fmt.Errorf("unsupported driver %q (supported: keep, fewest, random)", c.driver)
	}
	return nil
}

func main() {
	var cfg runConfig
	flag.IntVar(&cfg.runs, "runs", 5, "number of headless runs")
	flag.IntVar(&cfg.sections, "sections", 60, "sections to finalize per run")
	flag.IntVar(&cfg.frames, "frames", 36000, "frame limit per run (0 = none)")
	flag.Int64Var(&cfg.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&cfg.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&cfg.driver, "driver", "fewest", "lane policy: keep, fewest or random")
	flag.StringVar(&cfg.tuning, "tuning", "", "YAML tuning file (defaults when empty)")
	flag.Parse()

	if err := cfg.validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	t := game.DefaultTuning()
	if cfg.tuning != "" {
		var err error
		if t, err = game.LoadTuning(cfg.tuning); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}

	fmt.Printf("=== Headless Trolley Report ===\n")
	fmt.Printf("driver=%s runs=%d sections=%d frames=%d seed_base=%d seed_step=%d\n\n",
		cfg.driver, cfg.runs, cfg.sections, cfg.frames, cfg.seedBase, cfg.seedStep)

	all := make([]runStats, 0, cfg.runs)
	for i := 0; i < cfg.runs; i++ {
		seed := cfg.seedBase + int64(i)*cfg.seedStep
		stats := runOnce(i+1, seed, t, cfg)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runOnce(runIndex int, seed int64, t game.Tuning, cfg runConfig) runStats {
	r := game.NewSim(
		game.WithTuning(t),
		game.WithSeed(seed),
		game.WithDriverName(cfg.driver),
	)
	r.RunSections(cfg.sections, cfg.frames)
	return collectStats(runIndex, r.Report(), r.Log)
}

func collectStats(runIndex int, rep game.RunReport, log *game.SimLog) runStats {
	entries := log.Entries()
	return runStats{
		runIndex:            runIndex,
		seed:                rep.Seed,
		report:              rep,
		outcome:             game.DetermineRunOutcome(rep),
		firstPersonHitFrame: firstFrame(entries, "hit", "person"),
		crashStartFrame:     firstFrame(entries, "crash", "start"),
		highSpeedSection:    rep.FirstHighSpeedSection,
		personHits:          log.CountCategory("hit", "person"),
		obstacleHits:        log.CountCategory("hit", "obstacle"),
		finalizations:       log.CountCategory("score", "finalize"),
		sectionStarts:       log.CountCategory("section", "start"),
	}
}

func firstFrame(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Frame
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Print(game.FormatReport(rs.report))
	fmt.Printf("phase_markers: first_person_hit=%d crash_start=%d high_speed_section=%d\n",
		rs.firstPersonHitFrame, rs.crashStartFrame, rs.highSpeedSection)
	fmt.Printf("event_totals: section_start=%d finalize=%d person_hit=%d obstacle_hit=%d\n",
		rs.sectionStarts, rs.finalizations, rs.personHits, rs.obstacleHits)
	fmt.Println()
}

type aggregate struct {
	runs          int
	outcomes      map[string]int
	crashRate     float64
	meanScore     float64
	meanCleared   float64
	casualtyRate  float64
	crashSections []int
	highSpeed     []int
}

func aggregateRuns(all []runStats) aggregate {
	ag := aggregate{runs: len(all), outcomes: map[string]int{}}
	crashes := 0
	score := 0
	cleared := 0
	hit := 0
	met := 0
	for _, rs := range all {
		ag.outcomes[rs.outcome.Outcome.String()]++
		score += rs.report.Score
		cleared += rs.report.SectionsCleared
		hit += rs.report.PeopleHit
		met += rs.report.PeopleHit + rs.report.PeopleAvoided
		if rs.report.HitBarrier {
			crashes++
			ag.crashSections = append(ag.crashSections, rs.report.CrashSection)
		}
		if rs.highSpeedSection >= 0 {
			ag.highSpeed = append(ag.highSpeed, rs.highSpeedSection)
		}
	}
	ag.crashRate = ratio(crashes, len(all))
	ag.meanScore = ratio(score, len(all))
	ag.meanCleared = ratio(cleared, len(all))
	ag.casualtyRate = ratio(hit, met)
	return ag
}

func printAggregate(all []runStats) {
	ag := aggregateRuns(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d crash_rate=%.2f mean_score=%.1f mean_sections_cleared=%.1f casualty_rate=%.2f\n",
		ag.runs, ag.crashRate, ag.meanScore, ag.meanCleared, ag.casualtyRate)
	fmt.Printf("outcomes: %s\n", formatCounts(ag.outcomes))
	fmt.Printf("avg_sections: crash=%s first_high_speed=%s\n",
		avgString(ag.crashSections), avgString(ag.highSpeed))
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func avgString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

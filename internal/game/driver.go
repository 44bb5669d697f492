package game

// LaneView is what a Driver sees when the trolley enters a section.
type LaneView struct {
	Section   TrackSection
	Blocked   LaneSet        // lanes carrying an obstacle
	Counts    [LaneCount]int // people per lane
	Current   int            // lane the trolley is nearest to
	HighSpeed bool
}

// Driver picks the lane the trolley steers toward in a section.
type Driver interface {
	Name() string
	ChooseLane(v LaneView) int
}

// KeepLaneDriver never switches.
type KeepLaneDriver struct{}

func (KeepLaneDriver) Name() string              { return "keep" }
func (KeepLaneDriver) ChooseLane(v LaneView) int { return v.Current }

// FewestPeopleDriver picks the unblocked lane with the fewest people,
// preferring the lane closest to the current one on ties. With every lane
// blocked it stays put.
type FewestPeopleDriver struct{}

func (FewestPeopleDriver) Name() string { return "fewest" }

func (FewestPeopleDriver) ChooseLane(v LaneView) int {
	best, bestCount, bestDist := v.Current, -1, 0
	for lane := 0; lane < len(v.Section.Lanes) && lane < LaneCount; lane++ {
		if v.Blocked.Has(lane) {
			continue
		}
		dist := lane - v.Current
		if dist < 0 {
			dist = -dist
		}
		c := v.Counts[lane]
		if bestCount < 0 || c < bestCount || (c == bestCount && dist < bestDist) {
			best, bestCount, bestDist = lane, c, dist
		}
	}
	return best
}

// RandomDriver picks any lane uniformly.
type RandomDriver struct {
	Rng Rand
}

func (RandomDriver) Name() string { return "random" }

func (d RandomDriver) ChooseLane(v LaneView) int {
	if len(v.Section.Lanes) == 0 {
		return v.Current
	}
	return d.Rng.Intn(len(v.Section.Lanes))
}

// DriverByName returns a driver for name, or nil if unknown.
func DriverByName(name string, rng Rand) Driver {
	switch name {
	case "keep":
		return KeepLaneDriver{}
	case "fewest":
		return FewestPeopleDriver{}
	case "random":
		return RandomDriver{Rng: rng}
	default:
		return nil
	}
}

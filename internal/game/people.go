package game

import "fmt"

// People stand in [15%, 65%] of a section's length.
const (
	personZMin = 0.15
	personZMax = 0.65

	// personJitter is the X spread as a fraction of the lane width.
	personJitter = 0.3

	lowLaneMin, lowLaneMax   = 1, 2
	highLaneMin, highLaneMax = 4, 5
)

// PeopleLayout is the person placement of one section.
type PeopleLayout struct {
	Section  int
	Counts   [LaneCount]int
	LowLane  int       // lane given 1-2 people, -1 if none
	HighLane int       // lane given 4-5 people, -1 if none
	People   []*Person // lane-major, ascending Z within a lane
}

// Total returns the number of people placed.
func (l PeopleLayout) Total() int { return len(l.People) }

// InLane returns the people on one lane in ascending Z.
func (l PeopleLayout) InLane(lane int) []*Person {
	var out []*Person
	for _, p := range l.People {
		if p.Lane == lane {
			out = append(out, p)
		}
	}
	return out
}

// Evict drops the people on the given lanes from the layout and zeroes their
// counts. The caller releases them from the arena.
func (l *PeopleLayout) Evict(lanes LaneSet) {
	kept := l.People[:0]
	for _, p := range l.People {
		if !lanes.Has(p.Lane) {
			kept = append(kept, p)
		}
	}
	l.People = kept
	for _, lane := range lanes.Lanes() {
		if lane < LaneCount {
			l.Counts[lane] = 0
		}
	}
	if lanes.Has(l.LowLane) {
		l.LowLane = -1
	}
	if lanes.Has(l.HighLane) {
		l.HighLane = -1
	}
}

// PersonDistributor decides how many people stand on each free lane and
// materialises them.
type PersonDistributor struct {
	rng   Rand
	arena *Arena
	diff  *Difficulty
	log   *SimLog
}

// NewPersonDistributor reads per-lane bounds from diff at call time.
func NewPersonDistributor(rng Rand, arena *Arena, diff *Difficulty, log *SimLog) *PersonDistributor {
	return &PersonDistributor{rng: rng, arena: arena, diff: diff, log: log}
}

// LaneCounts assigns a person count to each lane not in occupied: one low
// lane with 1-2, a different high lane with 4-5 when at least two lanes are
// free, every other free lane within [MinPeoplePerLane, MaxPeoplePerLane].
// Occupied lanes get 0. It also returns the low and high lanes (-1 if unset).
func (pd *PersonDistributor) LaneCounts(occupied LaneSet) (counts [LaneCount]int, low, high int) {
	low, high = -1, -1
	eligible := make([]int, 0, LaneCount)
	for l := 0; l < LaneCount; l++ {
		if !occupied.Has(l) {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		return counts, low, high
	}

	low = eligible[pd.rng.Intn(len(eligible))]
	counts[low] = randRange(pd.rng, lowLaneMin, lowLaneMax)

	if len(eligible) >= 2 {
		rest := make([]int, 0, len(eligible)-1)
		for _, l := range eligible {
			if l != low {
				rest = append(rest, l)
			}
		}
		high = rest[pd.rng.Intn(len(rest))]
		counts[high] = randRange(pd.rng, highLaneMin, highLaneMax)
	}

	cfg := pd.diff.Config()
	for _, l := range eligible {
		if l == low || l == high {
			continue
		}
		counts[l] = randRange(pd.rng, cfg.MinPeoplePerLane, cfg.MaxPeoplePerLane)
	}
	return counts, low, high
}

// Place distributes people over sec, skipping occupied lanes. Sections
// without exactly LaneCount lanes, or with every lane occupied, get an empty
// layout.
func (pd *PersonDistributor) Place(sec TrackSection, occupied LaneSet) PeopleLayout {
	layout := PeopleLayout{Section: sec.Index, LowLane: -1, HighLane: -1}
	if !sec.Placeable() {
		return layout
	}
	layout.Counts, layout.LowLane, layout.HighLane = pd.LaneCounts(occupied)

	zLo, zHi := sec.zAt(personZMin), sec.zAt(personZMax)
	width := sec.LaneWidth()
	for lane, n := range layout.Counts {
		for i := 0; i < n; i++ {
			var z float64
			if n == 1 {
				z = zLo + pd.rng.Float64()*(zHi-zLo)
			} else {
				z = zLo + (zHi-zLo)*float64(i)/float64(n-1)
			}
			x := sec.Lanes[lane].X + (pd.rng.Float64()-0.5)*width*personJitter
			rec := pd.arena.AddPerson(Person{
				Section: sec.Index,
				Lane:    lane,
				Slot:    i,
				Pos:     Vec3{X: x, Y: sec.Lanes[lane].Y, Z: z},
			})
			layout.People = append(layout.People, rec)
		}
	}
	pd.log.Add(0, sec.Index, "section", "people",
		fmt.Sprintf("counts=%v low=%d high=%d", layout.Counts, layout.LowLane, layout.HighLane), float64(layout.Total()))
	return layout
}

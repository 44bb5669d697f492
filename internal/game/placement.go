package game

// PlacementOrder selects which distributor runs first for a section.
type PlacementOrder int

const (
	// ObstaclesFirst places obstacles, then people on the remaining lanes.
	ObstaclesFirst PlacementOrder = iota
	// PeopleFirst places people on every lane, then obstacles, then evicts
	// the people standing on obstacle lanes.
	PeopleFirst
)

func (o PlacementOrder) String() string {
	if o == PeopleFirst {
		return "people_first"
	}
	return "obstacles_first"
}

// SectionPlacement is everything placed into one section.
type SectionPlacement struct {
	Section   TrackSection
	Obstacles ObstacleLayout
	People    PeopleLayout
}

// Placer populates sections from the difficulty curve.
type Placer struct {
	diff      *Difficulty
	arena     *Arena
	obstacles *ObstacleDistributor
	people    *PersonDistributor
	order     PlacementOrder
}

// NewPlacer wires both distributors to arena.
func NewPlacer(diff *Difficulty, arena *Arena, rng Rand, order PlacementOrder, log *SimLog) *Placer {
	return &Placer{
		diff:      diff,
		arena:     arena,
		obstacles: NewObstacleDistributor(rng, arena, log),
		people:    NewPersonDistributor(rng, arena, diff, log),
		order:     order,
	}
}

// Populate places obstacles and people into sec. A lane never ends up with
// both.
func (p *Placer) Populate(sec TrackSection) SectionPlacement {
	sp := SectionPlacement{Section: sec}
	if !sec.Placeable() {
		sp.Obstacles = ObstacleLayout{Section: sec.Index}
		sp.People = PeopleLayout{Section: sec.Index, LowLane: -1, HighLane: -1}
		return sp
	}
	count := p.diff.ObstacleCount(sec.Index)
	switch p.order {
	case PeopleFirst:
		sp.People = p.people.Place(sec, 0)
		sp.Obstacles = p.obstacles.Place(sec, count)
		sp.People.Evict(sp.Obstacles.Occupied)
		p.arena.Evict(sec.Index, sp.Obstacles.Occupied)
	default:
		sp.Obstacles = p.obstacles.Place(sec, count)
		sp.People = p.people.Place(sec, sp.Obstacles.Occupied)
	}
	return sp
}

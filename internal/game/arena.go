package game

// Handle is an opaque reference to an entity in an Arena. The zero Handle is
// never issued. A handle goes stale once its section is released.
type Handle uint64

func makeHandle(idx, gen uint32) Handle { return Handle(uint64(gen)<<32 | uint64(idx+1)) }

func (h Handle) index() (uint32, bool) {
	low := uint32(h)
	if low == 0 {
		return 0, false
	}
	return low - 1, true
}

func (h Handle) generation() uint32 { return uint32(h >> 32) }

// Obstacle is a placed obstacle. Hitting one ends the run.
type Obstacle struct {
	Handle  Handle
	Section int
	Lane    int
	Pos     Vec3
	Kind    ObstacleKind
}

// PersonState is the per-person hit flag.
type PersonState uint8

const (
	PersonUnseen PersonState = iota
	PersonHit
)

func (s PersonState) String() string {
	if s == PersonHit {
		return "hit"
	}
	return "unseen"
}

// Person is a placed person.
type Person struct {
	Handle  Handle
	Section int
	Lane    int
	Slot    int // order within the lane, ascending Z
	Pos     Vec3
	state   PersonState
}

// State returns the hit flag.
func (p *Person) State() PersonState { return p.state }

// MarkHit moves the person from Unseen to Hit. It returns false if the person
// was already hit.
func (p *Person) MarkHit() bool {
	if p.state == PersonHit {
		return false
	}
	p.state = PersonHit
	return true
}

func (p *Person) reset() { p.state = PersonUnseen }

type arenaSlot struct {
	gen      uint32
	obstacle *Obstacle
	person   *Person
}

type sectionHandles struct {
	section int
	handles []Handle
}

// Arena owns every live placement. Entities are indexed by handle and by
// section; sections are released as a unit.
type Arena struct {
	slots    []arenaSlot
	free     []uint32
	sections []sectionHandles // ascending by section
	live     int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) alloc() (uint32, uint32) {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx, a.slots[idx].gen
	}
	a.slots = append(a.slots, arenaSlot{})
	return uint32(len(a.slots) - 1), 0
}

func (a *Arena) index(section int, h Handle) {
	a.live++
	for i := range a.sections {
		if a.sections[i].section == section {
			a.sections[i].handles = append(a.sections[i].handles, h)
			return
		}
	}
	entry := sectionHandles{section: section, handles: []Handle{h}}
	pos := len(a.sections)
	for i, s := range a.sections {
		if s.section > section {
			pos = i
			break
		}
	}
	a.sections = append(a.sections, sectionHandles{})
	copy(a.sections[pos+1:], a.sections[pos:])
	a.sections[pos] = entry
}

// AddObstacle stores o and returns the stored record with its handle set.
func (a *Arena) AddObstacle(o Obstacle) *Obstacle {
	idx, gen := a.alloc()
	o.Handle = makeHandle(idx, gen)
	rec := &o
	a.slots[idx].obstacle = rec
	a.index(o.Section, o.Handle)
	return rec
}

// AddPerson stores p and returns the stored record with its handle set.
func (a *Arena) AddPerson(p Person) *Person {
	idx, gen := a.alloc()
	p.Handle = makeHandle(idx, gen)
	p.state = PersonUnseen
	rec := &p
	a.slots[idx].person = rec
	a.index(p.Section, p.Handle)
	return rec
}

func (a *Arena) slot(h Handle) *arenaSlot {
	idx, ok := h.index()
	if !ok || int(idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if s.gen != h.generation() {
		return nil
	}
	return s
}

// Obstacle resolves h to a live obstacle.
func (a *Arena) Obstacle(h Handle) (*Obstacle, bool) {
	s := a.slot(h)
	if s == nil || s.obstacle == nil {
		return nil, false
	}
	return s.obstacle, true
}

// Person resolves h to a live person.
func (a *Arena) Person(h Handle) (*Person, bool) {
	s := a.slot(h)
	if s == nil || s.person == nil {
		return nil, false
	}
	return s.person, true
}

func (a *Arena) handlesOf(section int) []Handle {
	for _, s := range a.sections {
		if s.section == section {
			return s.handles
		}
	}
	return nil
}

// ObstaclesIn returns the live obstacles of a section in insertion order.
func (a *Arena) ObstaclesIn(section int) []*Obstacle {
	var out []*Obstacle
	for _, h := range a.handlesOf(section) {
		if o, ok := a.Obstacle(h); ok {
			out = append(out, o)
		}
	}
	return out
}

// PeopleIn returns the live people of a section in insertion order.
func (a *Arena) PeopleIn(section int) []*Person {
	var out []*Person
	for _, h := range a.handlesOf(section) {
		if p, ok := a.Person(h); ok {
			out = append(out, p)
		}
	}
	return out
}

// Sections returns the indices of sections with live entities, ascending.
func (a *Arena) Sections() []int {
	out := make([]int, len(a.sections))
	for i, s := range a.sections {
		out[i] = s.section
	}
	return out
}

// Len returns the number of live entities.
func (a *Arena) Len() int { return a.live }

// Release frees every entity of a section and returns the released handles
// so a scene collaborator can drop them.
func (a *Arena) Release(section int) []Handle {
	for i, s := range a.sections {
		if s.section != section {
			continue
		}
		for _, h := range s.handles {
			idx, _ := h.index()
			slot := &a.slots[idx]
			slot.obstacle = nil
			slot.person = nil
			slot.gen++
			a.free = append(a.free, idx)
			a.live--
		}
		a.sections = append(a.sections[:i], a.sections[i+1:]...)
		return s.handles
	}
	return nil
}

// ReleaseBefore releases every section with index < section.
func (a *Arena) ReleaseBefore(section int) []Handle {
	var out []Handle
	for len(a.sections) > 0 && a.sections[0].section < section {
		out = append(out, a.Release(a.sections[0].section)...)
	}
	return out
}

// Evict releases the people of a section standing on the given lanes.
func (a *Arena) Evict(section int, lanes LaneSet) []Handle {
	for i := range a.sections {
		if a.sections[i].section != section {
			continue
		}
		kept := a.sections[i].handles[:0]
		var out []Handle
		for _, h := range a.sections[i].handles {
			p, ok := a.Person(h)
			if !ok || !lanes.Has(p.Lane) {
				kept = append(kept, h)
				continue
			}
			idx, _ := h.index()
			a.slots[idx].person = nil
			a.slots[idx].gen++
			a.free = append(a.free, idx)
			a.live--
			out = append(out, h)
		}
		a.sections[i].handles = kept
		return out
	}
	return nil
}

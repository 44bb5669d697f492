package game

import (
	"fmt"
	"math/bits"
	"sort"
)

// ObstacleKind is the closed set of obstacle models.
type ObstacleKind uint8

const (
	ObstacleBarrier ObstacleKind = iota
	ObstacleBoulder
	ObstacleCrate
	ObstacleLog
	obstacleKindCount
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleBarrier:
		return "barrier"
	case ObstacleBoulder:
		return "boulder"
	case ObstacleCrate:
		return "crate"
	case ObstacleLog:
		return "log"
	default:
		return "unknown"
	}
}

// Obstacles sit in the middle 60% of a section, clear of both boundaries.
const (
	obstacleZMin = 0.2
	obstacleZMax = 0.8
)

// LaneSet is a bitset of lane indices.
type LaneSet uint8

// Has reports whether lane is in the set.
func (s LaneSet) Has(lane int) bool {
	return lane >= 0 && lane < 8 && s&(1<<uint(lane)) != 0
}

// With returns the set plus lane.
func (s LaneSet) With(lane int) LaneSet {
	if lane < 0 || lane >= 8 {
		return s
	}
	return s | 1<<uint(lane)
}

// Len returns the number of lanes in the set.
func (s LaneSet) Len() int { return bits.OnesCount8(uint8(s)) }

// Lanes returns the members in ascending order.
func (s LaneSet) Lanes() []int {
	var out []int
	for l := 0; l < 8; l++ {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

func (s LaneSet) String() string { return fmt.Sprint(s.Lanes()) }

// laneSetOf builds a set from lane indices.
func laneSetOf(lanes ...int) LaneSet {
	var s LaneSet
	for _, l := range lanes {
		s = s.With(l)
	}
	return s
}

// ObstacleLayout is the obstacle placement of one section.
type ObstacleLayout struct {
	Section   int
	Occupied  LaneSet
	Obstacles []*Obstacle // ascending lane
}

// ObstacleDistributor chooses obstacle lanes and instantiates obstacles.
type ObstacleDistributor struct {
	rng   Rand
	arena *Arena
	log   *SimLog
}

// NewObstacleDistributor places into arena using rng.
func NewObstacleDistributor(rng Rand, arena *Arena, log *SimLog) *ObstacleDistributor {
	return &ObstacleDistributor{rng: rng, arena: arena, log: log}
}

// PickLanes draws count distinct lanes from {0..LaneCount-1} without
// replacement and returns them ascending.
func (od *ObstacleDistributor) PickLanes(count int) []int {
	count = clampInt(count, 0, LaneCount)
	lanes := [LaneCount]int{}
	for i := range lanes {
		lanes[i] = i
	}
	// Partial Fisher-Yates: the first count slots are the sample.
	for i := 0; i < count; i++ {
		j := i + od.rng.Intn(LaneCount-i)
		lanes[i], lanes[j] = lanes[j], lanes[i]
	}
	out := append([]int(nil), lanes[:count]...)
	sort.Ints(out)
	return out
}

// Place puts count obstacles into sec. Sections without exactly LaneCount
// lanes get an empty layout.
func (od *ObstacleDistributor) Place(sec TrackSection, count int) ObstacleLayout {
	layout := ObstacleLayout{Section: sec.Index}
	if !sec.Placeable() || count <= 0 {
		return layout
	}
	for _, lane := range od.PickLanes(count) {
		kind := ObstacleKind(od.rng.Intn(int(obstacleKindCount)))
		frac := obstacleZMin + od.rng.Float64()*(obstacleZMax-obstacleZMin)
		pos := Vec3{X: sec.Lanes[lane].X, Y: sec.Lanes[lane].Y, Z: sec.zAt(frac)}
		rec := od.arena.AddObstacle(Obstacle{
			Section: sec.Index,
			Lane:    lane,
			Pos:     pos,
			Kind:    kind,
		})
		layout.Occupied = layout.Occupied.With(lane)
		layout.Obstacles = append(layout.Obstacles, rec)
	}
	od.log.Add(0, sec.Index, "section", "obstacles",
		fmt.Sprintf("lanes=%s count=%d", layout.Occupied, len(layout.Obstacles)), float64(len(layout.Obstacles)))
	return layout
}

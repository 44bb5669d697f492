package game

import (
	"math"
	"testing"
)

func newPeopleFixture(seed int64, cfg DifficultyConfig) (*PersonDistributor, *Arena) {
	rng := NewRand(seed)
	arena := NewArena()
	diff := NewDifficulty(cfg, rng)
	return NewPersonDistributor(rng, arena, diff, nil), arena
}

func TestLaneCounts_Properties(t *testing.T) {
	cfg := DefaultDifficultyConfig()
	pd, _ := newPeopleFixture(21, cfg)

	for trial := 0; trial < 40; trial++ {
		for mask := 0; mask < 1<<LaneCount; mask++ {
			occupied := LaneSet(mask)
			counts, low, high := pd.LaneCounts(occupied)
			eligible := LaneCount - occupied.Len()

			for lane := 0; lane < LaneCount; lane++ {
				if occupied.Has(lane) && counts[lane] != 0 {
					t.Fatalf("occupied lane %d got %d people (mask %05b)", lane, counts[lane], mask)
				}
			}
			switch {
			case eligible == 0:
				if low != -1 || high != -1 {
					t.Fatalf("expected no low/high lane with every lane occupied, got %d/%d", low, high)
				}
				continue
			case eligible == 1:
				if high != -1 {
					t.Fatalf("expected no high lane with a single free lane, got %d", high)
				}
			default:
				if high < 0 || high == low || occupied.Has(high) {
					t.Fatalf("bad high lane %d (low %d, mask %05b)", high, low, mask)
				}
				if c := counts[high]; c < highLaneMin || c > highLaneMax {
					t.Fatalf("high lane %d has %d people, expected [%d,%d]", high, c, highLaneMin, highLaneMax)
				}
			}
			if low < 0 || occupied.Has(low) {
				t.Fatalf("bad low lane %d (mask %05b)", low, mask)
			}
			if c := counts[low]; c < lowLaneMin || c > lowLaneMax {
				t.Fatalf("low lane %d has %d people, expected [%d,%d]", low, c, lowLaneMin, lowLaneMax)
			}
			for lane := 0; lane < LaneCount; lane++ {
				if occupied.Has(lane) || lane == low || lane == high {
					continue
				}
				if c := counts[lane]; c < cfg.MinPeoplePerLane || c > cfg.MaxPeoplePerLane {
					t.Fatalf("lane %d has %d people, expected [%d,%d]", lane, c, cfg.MinPeoplePerLane, cfg.MaxPeoplePerLane)
				}
			}
		}
	}
}

func TestLaneCounts_ExactlyOneLowAndHigh(t *testing.T) {
	cfg := DefaultDifficultyConfig()
	cfg.MinPeoplePerLane, cfg.MaxPeoplePerLane = 3, 3
	pd, _ := newPeopleFixture(22, cfg)

	for trial := 0; trial < 200; trial++ {
		occupied := laneSetOf(trial % LaneCount)
		counts, _, _ := pd.LaneCounts(occupied)
		lowN, highN := 0, 0
		for _, c := range counts {
			switch {
			case c >= lowLaneMin && c <= lowLaneMax:
				lowN++
			case c >= highLaneMin && c <= highLaneMax:
				highN++
			}
		}
		if lowN != 1 || highN != 1 {
			t.Fatalf("expected exactly one low and one high lane, got %d/%d in %v", lowN, highN, counts)
		}
	}
}

func TestPersonPlace_Geometry(t *testing.T) {
	pd, arena := newPeopleFixture(23, DefaultDifficultyConfig())
	for idx := 1; idx < 40; idx++ {
		sec := placeableSection(idx)
		occupied := laneSetOf(idx % LaneCount)
		layout := pd.Place(sec, occupied)

		zLo, zHi := sec.zAt(personZMin), sec.zAt(personZMax)
		maxJitter := sec.LaneWidth() * personJitter / 2
		total := 0
		for lane := 0; lane < LaneCount; lane++ {
			inLane := layout.InLane(lane)
			if len(inLane) != layout.Counts[lane] {
				t.Fatalf("lane %d: counts say %d, layout has %d", lane, layout.Counts[lane], len(inLane))
			}
			if occupied.Has(lane) && len(inLane) > 0 {
				t.Fatalf("people placed on obstacle lane %d", lane)
			}
			total += len(inLane)
			for i, p := range inLane {
				if p.Pos.Z < zLo-1e-9 || p.Pos.Z > zHi+1e-9 {
					t.Fatalf("person Z %.3f outside [%.3f, %.3f]", p.Pos.Z, zLo, zHi)
				}
				if dx := math.Abs(p.Pos.X - sec.Lanes[lane].X); dx > maxJitter+1e-9 {
					t.Fatalf("person X off lane centre by %.3f, max %.3f", dx, maxJitter)
				}
				if p.Slot != i {
					t.Fatalf("expected slot %d, got %d", i, p.Slot)
				}
				if i > 0 && !(inLane[i-1].Pos.Z < p.Pos.Z) {
					t.Fatalf("lane %d not ascending in Z", lane)
				}
			}
			if n := len(inLane); n > 1 {
				if math.Abs(inLane[0].Pos.Z-zLo) > 1e-9 || math.Abs(inLane[n-1].Pos.Z-zHi) > 1e-9 {
					t.Fatalf("lane %d: expected even spacing across [%.3f, %.3f], got %.3f..%.3f",
						lane, zLo, zHi, inLane[0].Pos.Z, inLane[n-1].Pos.Z)
				}
			}
		}
		if total != layout.Total() || len(arena.PeopleIn(idx)) != total {
			t.Fatalf("section %d: layout/arena mismatch (%d vs %d)", idx, total, len(arena.PeopleIn(idx)))
		}
	}
}

func TestPersonPlace_NonPlaceableSection(t *testing.T) {
	pd, arena := newPeopleFixture(24, DefaultDifficultyConfig())
	approach := NewStraightTrack(TrackConfig{ApproachSections: 1}).Section(0)
	layout := pd.Place(approach, 0)
	if layout.Total() != 0 || arena.Len() != 0 {
		t.Fatalf("expected no people on a single-lane section, got %d", layout.Total())
	}
	if layout.LowLane != -1 || layout.HighLane != -1 {
		t.Fatalf("expected unset low/high lanes, got %d/%d", layout.LowLane, layout.HighLane)
	}
}

func TestPlacer_NoLaneHasBoth(t *testing.T) {
	for _, order := range []PlacementOrder{ObstaclesFirst, PeopleFirst} {
		rng := NewRand(25)
		arena := NewArena()
		cfg := DefaultDifficultyConfig()
		cfg.BarrierThreshold = minBarrierThreshold
		cfg.SpeedIncrease = 0.5
		diff := NewDifficulty(cfg, rng)
		placer := NewPlacer(diff, arena, rng, order, nil)

		for idx := 0; idx < 80; idx++ {
			sp := placer.Populate(placeableSection(idx))
			for _, p := range sp.People.People {
				if sp.Obstacles.Occupied.Has(p.Lane) {
					t.Fatalf("%s: section %d lane %d carries both", order, idx, p.Lane)
				}
			}
			for _, p := range arena.PeopleIn(idx) {
				if sp.Obstacles.Occupied.Has(p.Lane) {
					t.Fatalf("%s: arena kept a person on obstacle lane %d", order, p.Lane)
				}
			}
			for _, lane := range sp.Obstacles.Occupied.Lanes() {
				if sp.People.Counts[lane] != 0 {
					t.Fatalf("%s: obstacle lane %d counted %d people", order, lane, sp.People.Counts[lane])
				}
			}
			if len(arena.PeopleIn(idx)) != sp.People.Total() {
				t.Fatalf("%s: arena has %d people, layout %d", order, len(arena.PeopleIn(idx)), sp.People.Total())
			}
		}
	}
}

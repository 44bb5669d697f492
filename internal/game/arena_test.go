package game

import "testing"

func TestArena_AddAndResolve(t *testing.T) {
	a := NewArena()
	o := a.AddObstacle(Obstacle{Section: 2, Lane: 1, Kind: ObstacleCrate})
	p := a.AddPerson(Person{Section: 2, Lane: 3})

	if o.Handle == 0 || p.Handle == 0 {
		t.Fatal("zero handle issued")
	}
	if o.Handle == p.Handle {
		t.Fatal("expected distinct handles")
	}
	if got, ok := a.Obstacle(o.Handle); !ok || got != o {
		t.Fatal("obstacle handle did not resolve to the stored record")
	}
	if got, ok := a.Person(p.Handle); !ok || got != p {
		t.Fatal("person handle did not resolve to the stored record")
	}
	if _, ok := a.Person(o.Handle); ok {
		t.Fatal("obstacle handle resolved as a person")
	}
	if _, ok := a.Obstacle(0); ok {
		t.Fatal("zero handle resolved")
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 live entities, got %d", a.Len())
	}
}

func TestArena_SectionsAscending(t *testing.T) {
	a := NewArena()
	for _, s := range []int{5, 2, 9, 2, 7} {
		a.AddPerson(Person{Section: s})
	}
	got := a.Sections()
	want := []int{2, 5, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("expected sections %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sections %v, got %v", want, got)
		}
	}
	if n := len(a.PeopleIn(2)); n != 2 {
		t.Fatalf("expected 2 people in section 2, got %d", n)
	}
}

func TestArena_ReleaseMakesHandlesStale(t *testing.T) {
	a := NewArena()
	p := a.AddPerson(Person{Section: 1})
	o := a.AddObstacle(Obstacle{Section: 1})
	keep := a.AddPerson(Person{Section: 2})

	released := a.Release(1)
	if len(released) != 2 {
		t.Fatalf("expected 2 released handles, got %d", len(released))
	}
	if _, ok := a.Person(p.Handle); ok {
		t.Fatal("released person still resolves")
	}
	if _, ok := a.Obstacle(o.Handle); ok {
		t.Fatal("released obstacle still resolves")
	}
	if _, ok := a.Person(keep.Handle); !ok {
		t.Fatal("person of another section was released")
	}

	// Slots are reused with a new generation; the old handle stays dead.
	fresh := a.AddPerson(Person{Section: 3})
	if fresh.Handle == p.Handle || fresh.Handle == o.Handle {
		t.Fatal("reused slot issued a previously released handle")
	}
	if _, ok := a.Person(p.Handle); ok {
		t.Fatal("stale handle resolved after slot reuse")
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 live entities, got %d", a.Len())
	}
}

func TestArena_ReleaseBefore(t *testing.T) {
	a := NewArena()
	for s := 0; s < 6; s++ {
		a.AddObstacle(Obstacle{Section: s})
	}
	released := a.ReleaseBefore(4)
	if len(released) != 4 {
		t.Fatalf("expected 4 released handles, got %d", len(released))
	}
	got := a.Sections()
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("expected sections [4 5], got %v", got)
	}
	if len(a.ReleaseBefore(4)) != 0 {
		t.Fatal("second ReleaseBefore should release nothing")
	}
}

func TestArena_EvictByLane(t *testing.T) {
	a := NewArena()
	var people []*Person
	for lane := 0; lane < LaneCount; lane++ {
		people = append(people, a.AddPerson(Person{Section: 4, Lane: lane}))
	}
	ob := a.AddObstacle(Obstacle{Section: 4, Lane: 1})

	evicted := a.Evict(4, laneSetOf(1, 3))
	if len(evicted) != 2 {
		t.Fatalf("expected 2 evicted people, got %d", len(evicted))
	}
	if _, ok := a.Person(people[1].Handle); ok {
		t.Fatal("evicted person on lane 1 still resolves")
	}
	if _, ok := a.Obstacle(ob.Handle); !ok {
		t.Fatal("eviction must not touch obstacles")
	}
	if n := len(a.PeopleIn(4)); n != 3 {
		t.Fatalf("expected 3 people left, got %d", n)
	}
}

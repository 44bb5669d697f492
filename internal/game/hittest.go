package game

// BoxHitSource tests the agent box against every live placement in an Arena.
type BoxHitSource struct {
	arena        *Arena
	obstacleHalf Vec3 // half extents of an obstacle box
	personRadius float64
}

// NewBoxHitSource builds a hit source over arena.
func NewBoxHitSource(arena *Arena, obstacleWidth, obstacleDepth, personRadius float64) *BoxHitSource {
	return &BoxHitSource{
		arena:        arena,
		obstacleHalf: Vec3{X: obstacleWidth / 2, Z: obstacleDepth / 2},
		personRadius: personRadius,
	}
}

// Hits returns every obstacle and person overlapping agent, obstacles first.
func (s *BoxHitSource) Hits(agent Box) []Hit {
	var obstacles, people []Hit
	for _, sec := range s.arena.Sections() {
		for _, o := range s.arena.ObstaclesIn(sec) {
			b := Box{
				Min: Vec3{X: o.Pos.X - s.obstacleHalf.X, Z: o.Pos.Z - s.obstacleHalf.Z},
				Max: Vec3{X: o.Pos.X + s.obstacleHalf.X, Z: o.Pos.Z + s.obstacleHalf.Z},
			}
			if agent.Overlaps(b) {
				obstacles = append(obstacles, Hit{Kind: HitObstacle, Subject: o.Handle, Pos: o.Pos})
			}
		}
		for _, p := range s.arena.PeopleIn(sec) {
			b := Box{
				Min: Vec3{X: p.Pos.X - s.personRadius, Z: p.Pos.Z - s.personRadius},
				Max: Vec3{X: p.Pos.X + s.personRadius, Z: p.Pos.Z + s.personRadius},
			}
			if agent.Overlaps(b) {
				people = append(people, Hit{Kind: HitPerson, Subject: p.Handle, Pos: p.Pos})
			}
		}
	}
	return append(obstacles, people...)
}

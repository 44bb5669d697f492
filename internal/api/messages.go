package api

import "github.com/Garsondee/trolley-sense/internal/game"

// Message is the JSON envelope for everything the server sends.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Server → client message types.
const (
	MsgSection       = "section"        // SectionView, one per populated section
	MsgRelease       = "release"        // ReleaseView, handles the client should drop
	MsgTally         = "tally"          // game.TallySnapshot of a finalized section
	MsgScore         = "score"          // game.GameSession
	MsgHit           = "hit"            // HitView, a newly counted person
	MsgWarning       = "warning"        // PointView, obstacle ahead
	MsgStop          = "stop"           // trolley must halt
	MsgCrash         = "crash"          // play the crash; reply with crash_complete
	MsgGameOver      = "game_over"      // game.GameSession
	MsgConfigChanged = "config_changed" // game.DifficultySnapshot for new sessions
	MsgError         = "error"          // string
)

// Client → server message types.
const (
	ClientEnterSection  = "enter_section"
	ClientFrame         = "frame"
	ClientNear          = "near"
	ClientCrashComplete = "crash_complete"
)

// ClientMessage is everything a client may send. Unused fields are omitted.
type ClientMessage struct {
	Type    string      `json:"type"`
	Section int         `json:"section,omitempty"`
	Frame   int         `json:"frame,omitempty"`
	Hits    []RemoteHit `json:"hits,omitempty"`
	X       float64     `json:"x,omitempty"`
	Z       float64     `json:"z,omitempty"`
}

// RemoteHit is one raw collision found by the client's geometric test.
type RemoteHit struct {
	Kind   string  `json:"kind"` // "person" or "obstacle"
	Handle uint64  `json:"handle"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
}

// SectionView is a populated section as the client renders it.
type SectionView struct {
	Index     int            `json:"index"`
	StartZ    float64        `json:"startZ"`
	EndZ      float64        `json:"endZ"`
	Lanes     []float64      `json:"lanes"` // lane centre X, left to right
	Speed     float64        `json:"speed"`
	HighSpeed bool           `json:"highSpeed"`
	Obstacles []ObstacleView `json:"obstacles"`
	People    []PersonView   `json:"people"`
}

type ObstacleView struct {
	Handle uint64  `json:"handle"`
	Lane   int     `json:"lane"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
}

type PersonView struct {
	Handle uint64  `json:"handle"`
	Lane   int     `json:"lane"`
	Slot   int     `json:"slot"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
}

type ReleaseView struct {
	Handles []uint64 `json:"handles"`
}

type HitView struct {
	Handle uint64 `json:"handle"`
}

type PointView struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func sectionView(sp game.SectionPlacement, diff *game.Difficulty) SectionView {
	sec := sp.Section
	v := SectionView{
		Index:     sec.Index,
		StartZ:    sec.StartZ,
		EndZ:      sec.EndZ,
		Lanes:     make([]float64, len(sec.Lanes)),
		Speed:     diff.SpeedAt(sec.Index),
		HighSpeed: diff.IsHighSpeed(sec.Index),
		Obstacles: []ObstacleView{},
		People:    []PersonView{},
	}
	for i, l := range sec.Lanes {
		v.Lanes[i] = l.X
	}
	for _, o := range sp.Obstacles.Obstacles {
		v.Obstacles = append(v.Obstacles, ObstacleView{
			Handle: uint64(o.Handle), Lane: o.Lane, Kind: o.Kind.String(), X: o.Pos.X, Z: o.Pos.Z,
		})
	}
	for _, p := range sp.People.People {
		v.People = append(v.People, PersonView{
			Handle: uint64(p.Handle), Lane: p.Lane, Slot: p.Slot, X: p.Pos.X, Z: p.Pos.Z,
		})
	}
	if v.Speed > maxJSONSpeed {
		v.Speed = maxJSONSpeed
	}
	return v
}

// maxJSONSpeed stands in for speeds encoding/json cannot represent.
const maxJSONSpeed = 1e300

package game

// SessionState is the run-level state machine.
type SessionState int

const (
	StateRunning  SessionState = iota // trolley moving, sections scoring
	StateCrashing                     // obstacle hit, crash animation playing
	StateGameOver                     // crash animation finished
)

func (s SessionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCrashing:
		return "crashing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameSession is the score ledger of one run. It implements GameStateSink.
type GameSession struct {
	State         SessionState `json:"-"`
	Score         int          `json:"score"`
	PeopleHit     int          `json:"peopleHit"`
	PeopleAvoided int          `json:"peopleAvoided"`
	GameOver      bool         `json:"isGameOver"`
	HitBarrier    bool         `json:"hitBarrier"`
}

// NewGameSession returns a running session with a zero score.
func NewGameSession() *GameSession {
	return &GameSession{State: StateRunning}
}

func (s *GameSession) AddScore(delta int)     { s.Score += delta }
func (s *GameSession) AddPeopleHit(n int)     { s.PeopleHit += n }
func (s *GameSession) AddPeopleAvoided(n int) { s.PeopleAvoided += n }

// SetGameOver marks the session over. The state moves to crashing until
// CrashFinished is called.
func (s *GameSession) SetGameOver(hitBarrier bool) {
	s.GameOver = true
	s.HitBarrier = s.HitBarrier || hitBarrier
	if s.State == StateRunning {
		s.State = StateCrashing
	}
}

// CrashFinished moves a crashing session to game over.
func (s *GameSession) CrashFinished() {
	if s.GameOver {
		s.State = StateGameOver
	}
}

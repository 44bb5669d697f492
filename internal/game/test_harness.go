package game

// SimOption is a builder function applied to a headless run's settings
// before the run is constructed.
type SimOption func(*simSettings)

type simSettings struct {
	tuning     Tuning
	driver     Driver
	driverName string
	verbose    bool
	log        *SimLog
}

// WithTuning replaces the whole tuning. Later options still apply on top.
func WithTuning(t Tuning) SimOption {
	return func(s *simSettings) {
		seed := s.tuning.Seed
		s.tuning = t
		if t.Seed == 0 {
			s.tuning.Seed = seed
		}
	}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(s *simSettings) { s.tuning.Seed = seed }
}

// WithDifficulty sets the difficulty curve.
func WithDifficulty(cfg DifficultyConfig) SimOption {
	return func(s *simSettings) { s.tuning.Difficulty = cfg }
}

// WithApproachSections sets the number of leading single-lane sections.
func WithApproachSections(n int) SimOption {
	return func(s *simSettings) { s.tuning.Track.ApproachSections = n }
}

// WithPeopleFirst places people before obstacles.
func WithPeopleFirst() SimOption {
	return func(s *simSettings) { s.tuning.Run.PeopleFirst = true }
}

// WithCrashFrames sets the crash animation length.
func WithCrashFrames(n int) SimOption {
	return func(s *simSettings) { s.tuning.Run.CrashFrames = n }
}

// WithDriver sets the lane policy.
func WithDriver(d Driver) SimOption {
	return func(s *simSettings) { s.driver = d }
}

// WithDriverName picks a lane policy by name ("keep", "fewest", "random").
// The random driver gets its own stream derived from the seed.
func WithDriverName(name string) SimOption {
	return func(s *simSettings) { s.driverName = name }
}

// WithVerbose enables per-frame verbose logging.
func WithVerbose(v bool) SimOption {
	return func(s *simSettings) { s.verbose = v }
}

// WithLog records into an existing log.
func WithLog(l *SimLog) SimOption {
	return func(s *simSettings) { s.log = l }
}

// NewSim builds a headless run from options applied over DefaultTuning.
func NewSim(opts ...SimOption) *Run {
	s := simSettings{tuning: DefaultTuning()}
	for _, o := range opts {
		o(&s)
	}
	if s.log == nil {
		s.log = NewSimLog(s.verbose)
	}
	driver := s.driver
	if driver == nil && s.driverName != "" {
		driver = DriverByName(s.driverName, NewRand(s.tuning.Seed^0x5eed))
	}
	return NewRun(s.tuning, driver, s.log)
}

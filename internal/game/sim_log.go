package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded engine event.
type SimLogEntry struct {
	Frame    int
	Section  int     // section index, -1 for global events
	Category string  // section, hit, score, difficulty, crash, run
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=00042] S012 hit       person          lane=3 slot=1
func (e SimLogEntry) String() string {
	sec := "S---"
	if e.Section >= 0 {
		sec = fmt.Sprintf("S%03d", e.Section)
	}
	return fmt.Sprintf("[F=%05d] %s %-10s %-16s %s",
		e.Frame, sec, e.Category, e.Key, e.Value)
}

// SimLog collects structured engine events. It is unbounded and
// machine-readable; a nil *SimLog drops everything.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-frame entries are also
// recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(frame, section int, category, key, value string, numVal float64) {
	if sl == nil {
		return
	}
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Section:  section,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(frame, section int, category, key, value string, numVal float64) {
	if sl == nil || !sl.verbose {
		return
	}
	sl.Add(frame, section, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	if sl == nil {
		return nil
	}
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterSection returns entries recorded against one section.
func (sl *SimLog) FilterSection(section int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if e.Section == section {
			out = append(out, e)
		}
	}
	return out
}

// FilterFrameRange returns entries within [fromFrame, toFrame] inclusive.
func (sl *SimLog) FilterFrameRange(fromFrame, toFrame int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.Entries() {
		if e.Frame >= fromFrame && e.Frame <= toFrame {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a frame range.
func (sl *SimLog) FormatRange(fromFrame, toFrame int) string {
	var sb strings.Builder
	for _, e := range sl.FilterFrameRange(fromFrame, toFrame) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a session.
func (sl *SimLog) Summary(frame int, session *GameSession, tallies []TallySnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%05d ---\n", frame)
	if session != nil {
		fmt.Fprintf(&sb, "State: %s  score=%d  hit=%d  avoided=%d  barrier=%t\n",
			session.State, session.Score, session.PeopleHit, session.PeopleAvoided, session.HitBarrier)
	}

	hitSections := 0
	for _, t := range tallies {
		if t.PeopleHit > 0 {
			hitSections++
		}
	}
	fmt.Fprintf(&sb, "Sections: finalized=%d with_casualties=%d\n", len(tallies), hitSections)

	counts := map[string]int{}
	for _, e := range sl.Entries() {
		counts[e.Category]++
	}
	sb.WriteString("Events: ")
	for _, c := range []string{"section", "hit", "score", "difficulty", "crash", "run"} {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", c, n)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

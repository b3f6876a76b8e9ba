package sim

import (
	"fmt"
	"strings"
)

// Event categories.
const (
	CatShip   = "ship"
	CatEnemy  = "enemy"
	CatBullet = "bullet"
	CatDiag   = "diag"
	CatPool   = "pool"
)

// Event keys.
const (
	KeySpawn    = "spawn"
	KeyDie      = "die"
	KeyFire     = "fire"
	KeyKill     = "kill"
	KeyExpire   = "expire"
	KeyOverflow = "overflow"
	KeyCounts   = "counts"
)

// Event is one recorded occurrence during a step.
type Event struct {
	Tick     int
	Category string  // ship, enemy, bullet, diag, pool
	Key      string  // event name within the category
	Value    string  // human-readable detail
	X, Y     float32 // world position, if any
	NumVal   float64 // optional numeric value
}

// String formats the event as a fixed-width log line.
//
//	[T=00042] ship      die              cursor (0.00,0.00)
func (e Event) String() string {
	return fmt.Sprintf("[T=%05d] %-9s %-16s %s (%.2f,%.2f)",
		e.Tick, e.Category, e.Key, e.Value, e.X, e.Y)
}

// EventLog collects structured events. It is unbounded; hosts that run for a
// long time should drain it with Since or Reset.
type EventLog struct {
	entries []Event
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, per-tick pool counts
// are also recorded.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new event.
func (l *EventLog) Add(e Event) {
	l.entries = append(l.entries, e)
}

// AddVerbose records an event only when verbose mode is on.
func (l *EventLog) AddVerbose(e Event) {
	if !l.verbose {
		return
	}
	l.Add(e)
}

// Verbose reports whether per-tick events are recorded.
func (l *EventLog) Verbose() bool { return l.verbose }

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Since returns events recorded at or after tick.
func (l *EventLog) Since(tick int) []Event {
	for i, e := range l.entries {
		if e.Tick >= tick {
			return l.entries[i:]
		}
	}
	return nil
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
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

// Count returns how many events match the given category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent event matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Event{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one event matches category, key, and value substring.
func (l *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
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

// Reset drops all events.
func (l *EventLog) Reset() {
	l.entries = l.entries[:0]
}

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatCounts(ships, enemies, bullets, particles int) string {
	return fmt.Sprintf("ships=%d enemies=%d bullets=%d particles=%d", ships, enemies, bullets, particles)
}

package engine

import (
	"fmt"
	"strings"
)

// Log categories and keys.
const (
	CatEntity    = "entity"
	CatCoroutine = "coroutine"
	CatCollision = "collision"
	CatMode      = "mode"

	KeyCreated     = "created"
	KeyDestroyed   = "destroyed"
	KeyStart       = "start"
	KeyStop        = "stop"
	KeyHit         = "hit"
	KeyInteraction = "interaction"
	KeyChange      = "change"
)

// globalSubject labels events that belong to no entity.
const globalSubject = "--"

// LogEntry is one recorded engine event.
type LogEntry struct {
	Tick     int
	Subject  string  // entity label e.g. "#3 player", or "--"
	Category string  // entity, coroutine, collision, mode
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] #3 player    collision  hit          right against #7 crate
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-12s %-10s %-12s %s",
		e.Tick, e.Subject, e.Category, e.Key, e.Value)
}

// SimLog collects structured engine events. With a capacity it keeps only
// the most recent entries, which is what long-running windows want.
type SimLog struct {
	entries  []LogEntry
	head     int // index of the oldest entry once the ring is full
	capacity int
	verbose  bool
	total    int
}

// NewSimLog creates a SimLog. capacity 0 keeps everything; verbose also
// records per-tick collision events.
func NewSimLog(capacity int, verbose bool) *SimLog {
	return &SimLog{capacity: capacity, verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, subject, category, key, value string, numVal float64) {
	e := LogEntry{
		Tick:     tick,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	sl.total++
	if sl.capacity > 0 && len(sl.entries) == sl.capacity {
		sl.entries[sl.head] = e
		sl.head = (sl.head + 1) % sl.capacity
		return
	}
	sl.entries = append(sl.entries, e)
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, subject, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, subject, category, key, value, numVal)
}

func (sl *SimLog) Verbose() bool { return sl.verbose }

// Len is the number of retained entries; Total counts every Add.
func (sl *SimLog) Len() int   { return len(sl.entries) }
func (sl *SimLog) Total() int { return sl.total }

// Entries returns the retained entries, oldest first.
func (sl *SimLog) Entries() []LogEntry {
	out := make([]LogEntry, 0, len(sl.entries))
	out = append(out, sl.entries[sl.head:]...)
	return append(out, sl.entries[:sl.head]...)
}

// Recent returns up to n of the newest entries, oldest first.
func (sl *SimLog) Recent(n int) []LogEntry {
	all := sl.Entries()
	if n < len(all) {
		all = all[len(all)-n:]
	}
	return all
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
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

// FilterSubject returns entries for one subject label.
func (sl *SimLog) FilterSubject(label string) []LogEntry {
	var out []LogEntry
	for _, e := range sl.Entries() {
		if e.Subject == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []LogEntry {
	var out []LogEntry
	for _, e := range sl.Entries() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (sl *SimLog) Count(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (sl *SimLog) LastOf(category, key string) (LogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Has reports whether an entry matches category, key and value substring.
func (sl *SimLog) Has(category, key, valueSubstr string) bool {
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
	return formatEntries(sl.Entries())
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []LogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

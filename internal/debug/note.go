package debug

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// Category selects a family of debug notes.
type Category uint32

const (
	// Slicing notes tile creation and span layout of sliced textures.
	Slicing Category = 1 << iota
	// Pipeline notes copy-on-write, weak copy destruction and pruning.
	Pipeline
	// Program notes shader generation and program cache traffic.
	Program
)

var categoryNames = map[string]Category{
	"slicing":  Slicing,
	"pipeline": Pipeline,
	"program":  Program,
}

const numCategories = 3

var (
	enabled atomic.Uint32

	mu     sync.Mutex
	counts [numCategories]int
)

// Enable turns on the given categories. Enables are counted: a category
// stays on until every Enable of it has been matched by a Disable.
func Enable(c Category) {
	mu.Lock()
	defer mu.Unlock()
	for i := range counts {
		if c&(1<<i) != 0 {
			counts[i]++
		}
	}
	storeMask()
}

// Disable drops one Enable of each of the given categories. Categories
// that were never enabled are left alone.
func Disable(c Category) {
	mu.Lock()
	defer mu.Unlock()
	for i := range counts {
		if c&(1<<i) != 0 && counts[i] > 0 {
			counts[i]--
		}
	}
	storeMask()
}

func storeMask() {
	var mask uint32
	for i, n := range counts {
		if n > 0 {
			mask |= 1 << i
		}
	}
	enabled.Store(mask)
}

// Enabled reports whether any of the categories in c is on.
func Enabled(c Category) bool {
	return enabled.Load()&uint32(c) != 0
}

// ParseCategories converts names such as "slicing" into a Category mask.
// Unknown names are returned separately so callers can report them.
func ParseCategories(names []string) (Category, []string) {
	var (
		mask    Category
		unknown []string
	)
	for _, name := range names {
		c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		mask |= c
	}
	return mask, unknown
}

// String returns the category names joined by '|'.
func (c Category) String() string {
	var parts []string
	for _, name := range []string{"slicing", "pipeline", "program"} {
		if c&categoryNames[name] != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Note logs msg at debug level when category c is enabled.
func Note(c Category, msg string, args ...any) {
	if !Enabled(c) {
		return
	}
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, append([]any{"category", c.String()}, args...)...)
}

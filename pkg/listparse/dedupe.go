package listparse

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

// runContext carries the deduplication state of a single parse run. It is
// created fresh inside Parse and threaded through every pass, so concurrent
// parses never share state.
type runContext struct {
	ids   map[string]struct{}
	names map[string]struct{}
}

func newRunContext() *runContext {
	return &runContext{
		ids:   make(map[string]struct{}),
		names: make(map[string]struct{}),
	}
}

func (rc *runContext) hasID(id string) bool {
	_, ok := rc.ids[id]
	return ok
}

func (rc *runContext) addID(id string) {
	rc.ids[id] = struct{}{}
}

func (rc *runContext) hasName(name string) bool {
	_, ok := rc.names[strings.ToLower(name)]
	return ok
}

func (rc *runContext) addName(name string) {
	rc.names[strings.ToLower(name)] = struct{}{}
}

// hasOverlappingName reports whether the name contains, or is contained by,
// any name already captured. The dashed-component pass uses this because the
// same person often appears both as a labeled entry and as a bare component
// list.
func (rc *runContext) hasOverlappingName(name string) bool {
	lower := strings.ToLower(name)
	for existing := range rc.names {
		if strings.Contains(existing, lower) || strings.Contains(lower, existing) {
			return true
		}
	}
	return false
}

// syntheticID generates a fallback identifier for a span that carries no
// recognizable code. The suffix is random; re-roll until it misses the run's
// ID set so two unlabeled spans in one run can never collide.
func (rc *runContext) syntheticID(entryType models.EntryType) string {
	prefix := "QDi"
	if entryType == models.EntryTypeEntity {
		prefix = "QDe"
	}
	for attempt := 0; attempt < 2000; attempt++ {
		id := fmt.Sprintf("%s.%d", prefix, rand.IntN(900)+100)
		if !rc.hasID(id) {
			return id
		}
	}
	// 3-digit space exhausted, widen
	for n := 1000; ; n++ {
		id := fmt.Sprintf("%s.%d", prefix, n)
		if !rc.hasID(id) {
			return id
		}
	}
}

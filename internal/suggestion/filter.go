package suggestion

import (
	"strings"

	"github.com/user/perf-insights/internal/entity"
)

// Level controls how many suggestions each bottleneck keeps.
type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// DefaultLevel applies when no level is configured.
const DefaultLevel = LevelIntermediate

// ParseLevel maps a settings value to a Level. An empty value is the default
// level; an unrecognized one is kept and later shows every suggestion.
func ParseLevel(raw string) Level {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return DefaultLevel
	}
	return Level(v)
}

// Known reports whether l is one of the three named levels.
func (l Level) Known() bool {
	switch l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// limit returns the prefix length kept at this level, or -1 for all.
func (l Level) limit() int {
	switch l {
	case LevelBasic:
		return 2
	case LevelIntermediate:
		return 4
	default:
		return -1
	}
}

// Filter returns a copy of the first entries of list allowed at level.
func Filter(list []entity.Suggestion, level Level) []entity.Suggestion {
	if len(list) == 0 {
		return []entity.Suggestion{}
	}
	n := len(list)
	if lim := level.limit(); lim >= 0 && lim < n {
		n = lim
	}
	out := make([]entity.Suggestion, n)
	copy(out, list[:n])
	return out
}

// Generate returns copies of bottlenecks with their suggestions trimmed to
// level. A bottleneck without suggestions gets its category's catalog entries.
func Generate(bottlenecks []entity.Bottleneck, level Level) []entity.Bottleneck {
	if len(bottlenecks) == 0 {
		return []entity.Bottleneck{}
	}
	out := make([]entity.Bottleneck, len(bottlenecks))
	for i, b := range bottlenecks {
		source := b.Suggestions
		if len(source) == 0 {
			source = catalog[b.Category]
		}
		b.Suggestions = Filter(source, level)
		out[i] = b
	}
	return out
}

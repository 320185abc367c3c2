// moderation/normalize.go
package moderation

import (
	"fmt"
	"strings"
	"unicode"
)

// StrictnessLevel controls how aggressively text is canonicalized before
// substring matching.
type StrictnessLevel int

const (
	// LevelPlain matches against the exact lowercased text.
	LevelPlain StrictnessLevel = iota
	// LevelLoose additionally strips separator characters, defeating
	// "b-a_d.word" style spacing.
	LevelLoose
	// LevelAggressive keeps only alphanumeric characters and collapses
	// repeated runs, defeating "b a a a d w o r d" style evasion.
	LevelAggressive
)

func (l StrictnessLevel) String() string {
	switch l {
	case LevelPlain:
		return "plain"
	case LevelLoose:
		return "loose"
	case LevelAggressive:
		return "aggressive"
	default:
		return fmt.Sprintf("strictness(%d)", int(l))
	}
}

// ParseStrictnessLevel converts the numeric level used by commands and
// config files into a StrictnessLevel.
func ParseStrictnessLevel(v int) (StrictnessLevel, error) {
	switch v {
	case 0:
		return LevelPlain, nil
	case 1:
		return LevelLoose, nil
	case 2:
		return LevelAggressive, nil
	default:
		return LevelPlain, fmt.Errorf("invalid strictness level %d (must be 0, 1 or 2)", v)
	}
}

// Normalize converts raw text into its canonical comparison form for the
// given strictness level. It is pure and total: empty strings, pure
// punctuation and arbitrary Unicode all produce a deterministic result,
// and the output is a fixed point (normalizing twice changes nothing).
func Normalize(text string, level StrictnessLevel) string {
	lowered := strings.ToLower(text)
	if level == LevelPlain {
		return lowered
	}

	var b strings.Builder
	b.Grow(len(lowered))

	var prev rune = -1
	for _, r := range lowered {
		switch level {
		case LevelLoose:
			if isSeparator(r) {
				continue
			}
			b.WriteRune(r)
		case LevelAggressive:
			if !isAllowedAggressive(r) {
				continue
			}
			if r == prev {
				continue
			}
			b.WriteRune(r)
			prev = r
		}
	}
	return b.String()
}

// isSeparator reports whether r is one of the characters stripped at the
// loose level: whitespace, hyphen, underscore and period.
func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '.':
		return true
	}
	return unicode.IsSpace(r)
}

// isAllowedAggressive reports whether r survives aggressive
// normalization: ASCII letters and digits plus the Turkish letters
// common in word lists.
func isAllowedAggressive(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case 'ç', 'ğ', 'ı', 'ö', 'ş', 'ü':
		return true
	}
	return false
}

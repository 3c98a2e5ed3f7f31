package report

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	// SheetNameLimit is the Excel maximum sheet name length in characters.
	SheetNameLimit = 31
	tableNameLimit = 250
)

// NameAllocator hands out collision-free display names. When a normalized
// name is taken, the smallest free suffix starting at 2 is appended.
type NameAllocator struct {
	limit     int
	normalize func(string) string
	used      map[string]struct{}
}

func NewSheetNameAllocator(reserved ...string) *NameAllocator {
	return newAllocator(SheetNameLimit, normalizeSheetName, reserved)
}

func NewTableNameAllocator(reserved ...string) *NameAllocator {
	return newAllocator(tableNameLimit, normalizeTableName, reserved)
}

func newAllocator(limit int, normalize func(string) string, reserved []string) *NameAllocator {
	a := &NameAllocator{limit: limit, normalize: normalize, used: map[string]struct{}{}}
	for _, name := range reserved {
		a.used[foldKey(name)] = struct{}{}
	}
	return a
}

// Allocate returns a unique name derived from raw.
func (a *NameAllocator) Allocate(raw string) string {
	base := truncateRunes(a.normalize(raw), a.limit)
	if _, taken := a.used[foldKey(base)]; !taken {
		a.used[foldKey(base)] = struct{}{}
		return base
	}
	for n := 2; ; n++ {
		suffix := "_" + strconv.Itoa(n)
		candidate := truncateRunes(base, a.limit-len([]rune(suffix))) + suffix
		if _, taken := a.used[foldKey(candidate)]; taken {
			continue
		}
		a.used[foldKey(candidate)] = struct{}{}
		return candidate
	}
}

// Excel compares sheet names case-insensitively.
func foldKey(name string) string {
	return strings.ToLower(name)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func normalizeSheetName(raw string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(raw))
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet"
	}
	return name
}

// Table names must start with a letter or underscore and hold no spaces.
// They are kept ASCII so every spreadsheet application accepts them.
func normalizeTableName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || !(unicode.IsLetter(rune(name[0])) || name[0] == '_') {
		name = "T_" + name
	}
	return name
}

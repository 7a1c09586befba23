package sqlbuild

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// indexedPrefix is the stem of predicate placeholders: value0, value1, ...
const indexedPrefix = "value"

// placeholders hands out placeholder names that are unique within one
// statement. Column placeholders prefer the bare column name; predicate
// placeholders are index based. When a preferred name is taken the next free
// name is used instead, so a SET column called "value0" can never capture the
// WHERE parameter.
type placeholders struct {
	taken map[string]struct{}
}

func newPlaceholders() *placeholders {
	return &placeholders{taken: make(map[string]struct{})}
}

// column returns a placeholder for a SET/VALUES column.
func (p *placeholders) column(col string) string {
	base := col
	// Named arguments must start with a letter.
	if r, _ := utf8.DecodeRuneInString(base); !unicode.IsLetter(r) {
		base = "p" + base
	}
	name := base
	for n := 1; p.isTaken(name); n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	p.take(name)
	return name
}

// indexed returns the placeholder for the i-th predicate, skipping names
// already handed out.
func (p *placeholders) indexed(i int) string {
	name := indexedPrefix + strconv.Itoa(i)
	for p.isTaken(name) {
		i++
		name = indexedPrefix + strconv.Itoa(i)
	}
	p.take(name)
	return name
}

func (p *placeholders) isTaken(name string) bool {
	_, ok := p.taken[name]
	return ok
}

func (p *placeholders) take(name string) {
	p.taken[name] = struct{}{}
}

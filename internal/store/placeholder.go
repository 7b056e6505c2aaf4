package store

import (
	"strconv"
	"strings"
)

// translatePlaceholders rewrites ?-style positional parameters as the
// $1..$N form PostgreSQL expects. It is the single place this rewrite
// happens: repositories always write ?, never $N, so the two dialects
// cannot drift apart query by query.
//
// Question marks inside single-quoted SQL string literals are left
// untouched. Doubled quotes ('') inside a literal toggle the state
// twice and therefore net out correctly.
func translatePlaceholders(query string) string {
	if !strings.ContainsRune(query, '?') {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

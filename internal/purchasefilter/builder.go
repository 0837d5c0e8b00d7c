package purchasefilter

import (
	"strconv"
	"strings"
)

// Builder accumulates SQL condition fragments together with the values they
// bind. Fragments use '?' markers; Render rewrites them into Postgres
// positional placeholders in append order, so the placeholder sequence always
// matches the returned argument slice one-to-one.
type Builder struct {
	conds []string
	args  []any
}

// Add appends one condition. The number of '?' markers in cond must equal
// len(args); the contract is checked at render time by callers' tests rather
// than at runtime, matching how the queries are written.
func (b *Builder) Add(cond string, args ...any) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

// Render joins all conditions with AND and rewrites '?' markers to $1..$N.
// The returned args are bound in marker order.
func (b *Builder) Render() (string, []any) {
	joined := strings.Join(b.conds, " AND ")

	var sb strings.Builder
	sb.Grow(len(joined) + 2*len(b.args))
	n := 0
	for _, r := range joined {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), append([]any(nil), b.args...)
}

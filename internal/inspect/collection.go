package inspect

import "strings"

// RenderCollection renders a list as prefix{e0,e1,...,eN}. An empty list
// renders as prefix{}. Elements keep their given order.
func RenderCollection(prefix string, elements []string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('{')
	for i, e := range elements {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e)
	}
	b.WriteByte('}')
	return b.String()
}

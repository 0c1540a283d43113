package personname

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Compare orders names byte-wise on their canonical form and returns -1, 0 or +1.
// There is no collation or locale awareness: "McDonald,Al" sorts before
// "Mcdonald,Al" and "Doe Smith,Ann" before "Doe,Ann".
func Compare(a, b PersonName) int {
	return strings.Compare(a.canonical, b.canonical)
}

func Equal(a, b PersonName) bool          { return a.canonical == b.canonical }
func NotEqual(a, b PersonName) bool       { return a.canonical != b.canonical }
func Less(a, b PersonName) bool           { return Compare(a, b) < 0 }
func LessOrEqual(a, b PersonName) bool    { return Compare(a, b) <= 0 }
func Greater(a, b PersonName) bool        { return Compare(a, b) > 0 }
func GreaterOrEqual(a, b PersonName) bool { return Compare(a, b) >= 0 }

// Hash returns a 32-bit digest for hash indexes. Equal names always hash equally.
//
// The digest covers "family given" (comma replaced by a space) and is the
// 64-bit xxHash of those bytes folded to 32 bits. The exact bits are not part
// of any persisted format.
func (n PersonName) Hash() uint32 {
	parts := strings.SplitN(n.canonical, ",", 3)
	family := parts[0]
	given := ""
	if len(parts) > 1 {
		given = strings.TrimPrefix(parts[1], " ")
	}

	buf := make([]byte, 0, len(family)+1+len(given))
	buf = append(buf, family...)
	buf = append(buf, ' ')
	buf = append(buf, given...)

	sum := xxhash.Sum64(buf)
	return uint32(sum>>32) ^ uint32(sum)
}

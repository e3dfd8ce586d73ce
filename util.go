package claspy

import "strconv"

// litStr formats a literal the way the wire format's symbol table names it:
// "vN" for the underlying atom id, independent of polarity.
func litStr(lit Literal) string {
	return "v" + strconv.Itoa(int(lit.id()))
}

package engine

import "strings"

// Tokenize splits a command line into whitespace separated tokens.
// There is no quote or escape handling, so a token containing a literal
// space cannot be expressed.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

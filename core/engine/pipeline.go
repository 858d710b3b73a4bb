package engine

const pipeOp = "|"

// HasPipe reports whether tokens contains a pipeline operator.
func HasPipe(tokens []string) bool {
	for _, token := range tokens {
		if token == pipeOp {
			return true
		}
	}
	return false
}

// SplitPipe partitions tokens around the first pipeline operator.
// Everything before it becomes the first stage; every later token that
// isn't itself a | is folded into the second stage. Either side may be
// empty, which surfaces as a start failure for that stage rather than
// an error here.
func SplitPipe(tokens []string) (first, second []string) {
	seenPipe := false
	for _, token := range tokens {
		switch {
		case token == pipeOp:
			seenPipe = true
		case seenPipe:
			second = append(second, token)
		default:
			first = append(first, token)
		}
	}
	return first, second
}

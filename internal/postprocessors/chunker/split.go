package chunker

import "unicode"

// span is a half-open rune range.
type span struct {
	start, end int
}

func (s span) len() int { return s.end - s.start }

// boundaryFunc returns cut offsets strictly inside (0, len(text)).
// Every separator stays attached to the part before the cut.
type boundaryFunc func(text []rune) []int

// levels are tried in order, coarsest first.
var levels = []boundaryFunc{
	paragraphBoundaries,
	lineBoundaries,
	sentenceBoundaries,
	wordBoundaries,
}

// partition cuts runes into contiguous spans of at most budget runes.
func partition(runes []rune, budget int) []span {
	return splitSpan(runes, span{0, len(runes)}, budget, 0)
}

func splitSpan(runes []rune, s span, budget, level int) []span {
	if s.len() <= budget {
		return []span{s}
	}
	if level >= len(levels) {
		return window(s, budget)
	}

	cuts := levels[level](runes[s.start:s.end])
	if len(cuts) == 0 {
		return splitSpan(runes, s, budget, level+1)
	}

	var (
		out  []span
		cur  = span{s.start, s.start}
		prev = 0
	)
	flush := func() {
		if cur.len() > 0 {
			out = append(out, cur)
		}
	}

	for _, c := range append(cuts, s.len()) {
		part := span{s.start + prev, s.start + c}
		prev = c

		switch {
		case part.len() > budget:
			flush()
			out = append(out, splitSpan(runes, part, budget, level+1)...)
			cur = span{part.end, part.end}
		case cur.len()+part.len() <= budget:
			cur.end = part.end
		default:
			flush()
			cur = part
		}
	}
	flush()

	return out
}

// window cuts s into fixed windows of budget runes.
func window(s span, budget int) []span {
	var out []span
	for start := s.start; start < s.end; start += budget {
		out = append(out, span{start, min(start+budget, s.end)})
	}
	return out
}

func paragraphBoundaries(text []rune) []int {
	var cuts []int
	for i := 1; i < len(text); i++ {
		if text[i] == '\n' && text[i-1] == '\n' && i+1 < len(text) && text[i+1] != '\n' {
			cuts = append(cuts, i+1)
		}
	}
	return cuts
}

func lineBoundaries(text []rune) []int {
	var cuts []int
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '\n' {
			cuts = append(cuts, i+1)
		}
	}
	return cuts
}

func sentenceBoundaries(text []rune) []int {
	var cuts []int
	for i := 0; i+2 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if unicode.IsSpace(text[i+1]) {
				cuts = append(cuts, i+2)
			}
		}
	}
	return cuts
}

func wordBoundaries(text []rune) []int {
	var cuts []int
	for i := 1; i < len(text); i++ {
		if unicode.IsSpace(text[i-1]) && !unicode.IsSpace(text[i]) {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

package wizard

import "regexp"

// Segment is a run of document text, marked when it matches the highlighted excerpt.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Segments splits text around every case-insensitive occurrence of excerpt.
// Matches do not overlap and are scanned left to right.
func Segments(text, excerpt string) []Segment {
	if text == "" {
		return []Segment{}
	}
	if excerpt == "" {
		return []Segment{{Text: text}}
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(excerpt))
	if err != nil {
		// excerpt is not valid UTF-8
		return []Segment{{Text: text}}
	}
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	out := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, Segment{Text: text[last:m[0]]})
		}
		out = append(out, Segment{Text: text[m[0]:m[1]], Highlighted: true})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// CountMatches reports how many times excerpt occurs in text, ignoring case.
func CountMatches(text, excerpt string) int {
	n := 0
	for _, s := range Segments(text, excerpt) {
		if s.Highlighted {
			n++
		}
	}
	return n
}

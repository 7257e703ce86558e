package kbdd

// ColourScheme is either empty (no per-layout colours) or an ordered list
// with one colour per layout index.
type ColourScheme struct {
	colours []string
}

func NoColours() ColourScheme {
	return ColourScheme{}
}

func ColourList(colours ...string) ColourScheme {
	if len(colours) == 0 {
		return NoColours()
	}

	return ColourScheme{colours: append([]string(nil), colours...)}
}

func (s ColourScheme) Enabled() bool {
	return len(s.colours) > 0
}

func (s ColourScheme) Colours() []string {
	return append([]string(nil), s.colours...)
}

// ColourFor returns the colour for a layout index. An index past the end of
// the list falls back to the last configured colour.
func (s ColourScheme) ColourFor(index int) (string, bool) {
	if index < 0 || len(s.colours) == 0 {
		return "", false
	}

	if index >= len(s.colours) {
		index = len(s.colours) - 1
	}

	return s.colours[index], true
}

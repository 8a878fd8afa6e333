package engine

import "strings"

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites mandala script source into something zygomys
// reads. Outside string literals it:
//
//   - turns ; and ;; line comments into // comments
//   - turns :keyword into the string "__kw_keyword", so keywords never
//     collide with user variables
//   - turns kebab-case identifiers into snake_case (simple-petal becomes
//     simple_petal), since zygomys reads the hyphen as subtraction
//   - quotes bare colour literals (#fff, #0a0a0a)
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	s := scanner{src: source}
	s.out.Grow(len(source) + len(source)/4)
	for !s.done() {
		switch c := s.peek(0); {
		case c == '"':
			s.copyQuoted('"', true)
		case c == '`':
			s.copyQuoted('`', false)
		case c == ';':
			s.comment()
		case c == ':' && s.peek(1) == '=':
			s.copy(2)
		case c == ':' && isLetter(s.peek(1)):
			s.keyword()
		case c == '#' && s.colourLen() > 0:
			s.colour()
		case c == '-' && isIdentChar(s.prev()) && isLetter(s.peek(1)):
			s.out.WriteByte('_')
			s.pos++
		default:
			s.copy(1)
		}
	}
	return s.out.String()
}

type scanner struct {
	src string
	pos int
	out strings.Builder
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

// peek returns the byte off positions ahead, or 0 past the end.
func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.src) {
		return s.src[s.pos+off]
	}
	return 0
}

func (s *scanner) prev() byte {
	if s.pos == 0 {
		return 0
	}
	return s.src[s.pos-1]
}

func (s *scanner) copy(n int) {
	end := min(s.pos+n, len(s.src))
	s.out.WriteString(s.src[s.pos:end])
	s.pos = end
}

// copyQuoted copies a literal from its opening delimiter through the
// closing one. An unterminated literal runs to the end of the source.
func (s *scanner) copyQuoted(delim byte, escapes bool) {
	start := s.pos
	s.pos++
	for !s.done() && s.src[s.pos] != delim {
		if escapes && s.src[s.pos] == '\\' {
			s.pos++
		}
		s.pos++
	}
	s.pos = min(s.pos+1, len(s.src))
	s.out.WriteString(s.src[start:s.pos])
}

func (s *scanner) comment() {
	for s.peek(0) == ';' {
		s.pos++
	}
	s.out.WriteString("//")
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		end = len(s.src) - s.pos
	}
	s.copy(end)
}

func (s *scanner) keyword() {
	start := s.pos + 1
	end := start
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.out.WriteString(`"` + kwPrefix + s.src[start:end] + `"`)
	s.pos = end
}

// colourLen returns the length of a #rgb or #rrggbb literal at the
// current position, or 0 when there is none.
func (s *scanner) colourLen() int {
	n := 0
	for isHex(s.peek(1 + n)) {
		n++
	}
	if (n != 3 && n != 6) || isIdentChar(s.peek(1+n)) {
		return 0
	}
	return 1 + n
}

func (s *scanner) colour() {
	n := s.colourLen()
	s.out.WriteString(`"` + s.src[s.pos:s.pos+n] + `"`)
	s.pos += n
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

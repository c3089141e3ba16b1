package graph

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// Decode reads an N-Triples document into a new MemoryGraph. Blank lines
// and comment lines are skipped. Malformed statements fail with a
// line-numbered InvalidLineError.
func Decode(r io.Reader) (*MemoryGraph, error) {
	g := NewMemoryGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNr := 0
	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseStatement(line)
		if err != nil {
			return nil, &errors.InvalidLineError{Line: line, LineNr: lineNr}
		}
		g.Add(t)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "graph", "Decode", "read input")
	}
	return g, nil
}

// Encode writes g as an N-Triples document. Statements are sorted so the
// output is deterministic for a given graph.
func Encode(w io.Writer, g Graph) error {
	lines := make([]string, 0, g.Len())
	for _, t := range g.Triples() {
		lines = append(lines, formatStatement(t))
	}
	sort.Strings(lines)
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, "graph", "Encode", "write statement")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "graph", "Encode", "flush output")
	}
	return nil
}

func parseStatement(line string) (Triple, error) {
	p := &parser{input: line}
	subject, err := p.term()
	if err != nil {
		return Triple{}, err
	}
	predicate, err := p.term()
	if err != nil {
		return Triple{}, err
	}
	object, err := p.term()
	if err != nil {
		return Triple{}, err
	}
	p.skipSpace()
	if !strings.HasPrefix(p.rest(), ".") {
		return Triple{}, fmt.Errorf("missing terminating dot")
	}
	if subject.IsLiteral() || predicate.Kind != KindIRI {
		return Triple{}, fmt.Errorf("malformed statement")
	}
	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) rest() string { return p.input[p.pos:] }

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) term() (Term, error) {
	p.skipSpace()
	rest := p.rest()
	switch {
	case strings.HasPrefix(rest, "<"):
		end := strings.Index(rest, ">")
		if end < 0 {
			return Term{}, fmt.Errorf("unterminated IRI")
		}
		p.pos += end + 1
		return IRI(rest[1:end]), nil
	case strings.HasPrefix(rest, "_:"):
		end := 2
		for end < len(rest) && rest[end] != ' ' && rest[end] != '\t' {
			end++
		}
		p.pos += end
		return Blank(rest[2:end]), nil
	case strings.HasPrefix(rest, `"`):
		return p.literal()
	default:
		return Term{}, fmt.Errorf("unexpected term at %q", rest)
	}
}

func (p *parser) literal() (Term, error) {
	rest := p.rest()
	value, consumed, err := unescapeLiteral(rest)
	if err != nil {
		return Term{}, err
	}
	p.pos += consumed
	rest = p.rest()
	switch {
	case strings.HasPrefix(rest, "@"):
		end := 1
		for end < len(rest) && rest[end] != ' ' && rest[end] != '\t' {
			end++
		}
		p.pos += end
		return LangLiteral(value, rest[1:end]), nil
	case strings.HasPrefix(rest, "^^<"):
		end := strings.Index(rest, ">")
		if end < 0 {
			return Term{}, fmt.Errorf("unterminated datatype IRI")
		}
		p.pos += end + 1
		return TypedLiteral(value, rest[3:end]), nil
	default:
		return Literal(value), nil
	}
}

// unescapeLiteral decodes the quoted lexical form at the start of s and
// returns the decoded value and the number of input bytes consumed,
// including both quotes.
func unescapeLiteral(s string) (string, int, error) {
	var b strings.Builder
	i := 1 // past the opening quote
	for i < len(s) {
		c := s[i]
		switch c {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("dangling escape")
			}
			i++
			switch s[i] {
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'u', 'U':
				width := 4
				if s[i] == 'U' {
					width = 8
				}
				if i+width >= len(s) {
					return "", 0, fmt.Errorf("truncated unicode escape")
				}
				code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
				if err != nil {
					return "", 0, fmt.Errorf("bad unicode escape: %w", err)
				}
				b.WriteRune(rune(code))
				i += width
			default:
				return "", 0, fmt.Errorf("unknown escape \\%c", s[i])
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated literal")
}

func formatStatement(t Triple) string {
	return fmt.Sprintf("%s %s %s .", formatTerm(t.Subject), formatTerm(t.Predicate), formatTerm(t.Object))
}

func formatTerm(t Term) string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		quoted := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return quoted + "@" + t.Lang
		}
		if t.Datatype != "" {
			return quoted + "^^<" + t.Datatype + ">"
		}
		return quoted
	}
}

func escapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}

package mmdparser

import (
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
)

// The sequence grammar is line-oriented: every statement fits on one line
// and message text runs to the end of it, so the parser works on lines
// directly instead of a token stream.

// seqArrows lists message lexemes longest first so -->> is never mis-read
// as --> plus >.
var seqArrows = []struct {
	lexeme string
	arrow  mmdast.SeqArrowType
}{
	{"-->>", mmdast.SeqDottedClosed},
	{"->>", mmdast.SeqSolidClosed},
	{"--x", mmdast.SeqDottedCross},
	{"--)", mmdast.SeqDottedPoint},
	{"-->", mmdast.SeqDottedOpen},
	{"-x", mmdast.SeqCross},
	{"-)", mmdast.SeqPoint},
	{"->", mmdast.SeqSolidOpen},
}

// seqBlockKeywords open or continue control blocks (loop, alt, …). The
// parser records the messages inside them but not the block structure
// itself.
var seqBlockKeywords = map[string]bool{
	"loop": true, "alt": true, "else": true, "opt": true, "par": true,
	"and": true, "critical": true, "option": true, "end": true,
	"activate": true, "deactivate": true, "rect": true, "box": true,
}

type seqParser struct {
	recover bool
	errs    []error

	s       *mmdast.Sequence
	index   map[string]*mmdast.Participant
	aliases map[string]string // alias -> participant id
}

func parseSequence(src string, recover bool) (*mmdast.Sequence, error) {
	p := &seqParser{
		recover: recover,
		s:       &mmdast.Sequence{},
		index:   make(map[string]*mmdast.Participant),
		aliases: make(map[string]string),
	}

	sawHeader := false
	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "%%") || strings.HasPrefix(line, "//") {
			continue
		}
		if !sawHeader {
			// The detector already matched this line; nothing else on it.
			sawHeader = true
			continue
		}
		if err := p.parseLine(line, lineNo); err != nil {
			if !p.recover {
				return nil, err
			}
			p.errs = append(p.errs, err)
		}
	}

	if len(p.errs) > 0 {
		return p.s, &ParseError{Errors: p.errs}
	}
	return p.s, nil
}

func (p *seqParser) parseLine(line string, lineNo int) error {
	word := line
	if i := strings.IndexAny(word, " \t:"); i >= 0 {
		word = word[:i]
	}

	switch {
	case word == "title":
		p.s.Title = strings.TrimSpace(strings.TrimPrefix(line, "title"))
		p.s.Title = strings.TrimSpace(strings.TrimPrefix(p.s.Title, ":"))
		return nil
	case strings.HasPrefix(line, "autonumber"):
		p.s.AutoNumber = true
		return nil
	case word == "participant" || word == "actor":
		p.parseParticipant(line, word == "actor")
		return nil
	case strings.EqualFold(word, "note"):
		return p.parseNote(line, lineNo)
	case seqBlockKeywords[word]:
		// Block structure is not modeled; the statements inside still are.
		return nil
	}

	return p.parseMessage(line, lineNo)
}

func (p *seqParser) parseParticipant(line string, actor bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return
	}
	decl := strings.TrimSpace(line[i+1:])
	if decl == "" {
		return
	}

	id, alias := decl, ""
	if i := strings.Index(decl, " as "); i >= 0 {
		id = strings.TrimSpace(decl[:i])
		alias = strings.TrimSpace(decl[i+len(" as "):])
	}

	part := p.ensureParticipant(id)
	part.Actor = actor
	if alias != "" {
		part.Alias = alias
		p.aliases[alias] = id
	}
}

func (p *seqParser) parseNote(line string, lineNo int) error {
	rest := strings.TrimSpace(line[len("note"):])
	lower := strings.ToLower(rest)

	var position mmdast.NotePosition
	switch {
	case strings.HasPrefix(lower, "left of "):
		position = mmdast.NoteLeftOf
		rest = rest[len("left of "):]
	case strings.HasPrefix(lower, "right of "):
		position = mmdast.NoteRightOf
		rest = rest[len("right of "):]
	case strings.HasPrefix(lower, "over "):
		position = mmdast.NoteOver
		rest = rest[len("over "):]
	default:
		return &mmdast.SyntaxError{
			Pos:      mmdast.Position{Line: lineNo, Column: 1},
			Message:  "malformed note statement",
			Expected: []string{"left of", "right of", "over"},
			Found:    rest,
		}
	}

	actor, text := rest, ""
	if i := strings.Index(rest, ":"); i >= 0 {
		actor = strings.TrimSpace(rest[:i])
		text = strings.TrimSpace(rest[i+1:])
	}
	// Over notes may span two actors; the note anchors on the first.
	if i := strings.Index(actor, ","); i >= 0 {
		actor = strings.TrimSpace(actor[:i])
	}

	p.s.Notes = append(p.s.Notes, &mmdast.SeqNote{
		Position: position,
		Actor:    p.resolve(actor),
		Text:     text,
	})
	return nil
}

func (p *seqParser) parseMessage(line string, lineNo int) error {
	at := -1
	lexeme := ""
	var arrow mmdast.SeqArrowType
	for i := 0; i < len(line) && at == -1; i++ {
		for _, cand := range seqArrows {
			if strings.HasPrefix(line[i:], cand.lexeme) {
				at, lexeme, arrow = i, cand.lexeme, cand.arrow
				break
			}
		}
	}
	if at == -1 {
		return &mmdast.SyntaxError{
			Pos:      mmdast.Position{Line: lineNo, Column: 1},
			Message:  "expected a message arrow",
			Expected: seqArrowLexemes(),
			Found:    line,
		}
	}

	from := strings.TrimSpace(line[:at])
	rest := line[at+len(lexeme):]

	to, text := rest, ""
	if i := strings.Index(rest, ":"); i >= 0 {
		to = rest[:i]
		text = strings.TrimSpace(rest[i+1:])
	}
	to = strings.TrimSpace(to)

	// Activation shorthand on the arrow target (A->>+B, A->>-B).
	to = strings.TrimLeft(to, "+-")

	if from == "" || to == "" {
		return &mmdast.SyntaxError{
			Pos:      mmdast.Position{Line: lineNo, Column: 1},
			Message:  "message is missing a participant",
			Expected: []string{"participant"},
			Found:    line,
		}
	}

	p.s.Messages = append(p.s.Messages, &mmdast.Message{
		From:  p.resolve(from),
		To:    p.resolve(to),
		Text:  text,
		Arrow: arrow,
	})
	return nil
}

// resolve maps an alias to its participant id and auto-creates participants
// referenced before (or without) a declaration, in order of first use.
func (p *seqParser) resolve(name string) string {
	if id, ok := p.aliases[name]; ok {
		return id
	}
	p.ensureParticipant(name)
	return name
}

func (p *seqParser) ensureParticipant(id string) *mmdast.Participant {
	if part, ok := p.index[id]; ok {
		return part
	}
	part := &mmdast.Participant{ID: id}
	p.index[id] = part
	p.s.Participants = append(p.s.Participants, part)
	return part
}

func seqArrowLexemes() []string {
	out := make([]string, len(seqArrows))
	for i, a := range seqArrows {
		out[i] = a.lexeme
	}
	return out
}

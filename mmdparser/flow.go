package mmdparser

import (
	"fmt"
	"sort"
	"strings"

	"oss.terrastruct.com/mmd/lib/go2"
	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdlexer"
)

// flowProfile is the tokenizer configuration for the flowchart grammar. The
// op table carries every valid arrow and delimiter lexeme plus the common
// near-miss lexemes (->, =>, <->) so that a mistyped arrow surfaces as a
// syntax error with suggestions instead of an opaque lex error. Label text
// after a shape opener or | is collected raw until the matching closer, so
// characters like . and ' need no quoting inside labels.
var flowProfile = mmdlexer.Profile{
	Ops: []string{
		// edges
		"-->", "---", "-.->", "-.-", "==>", "===", "--o", "--x", "<-->", "~~~",
		// common arrow mistakes, recognized to be rejected with help
		"->", "=>", "<->", "..>",
		// node shape delimiters
		"(((", ")))", "((", "))", "([", "])", "[[", "]]", "[(", ")]",
		"[/", "/]", "[\\", "\\]", "{{", "}}", "{", "}", "[", "]", "(", ")", ">",
		// edge labels, class shorthand, statement separators
		"|", ":::", "&", ";", ",",
	},
	TextAfter: flowTextAfter(),
}

// flowTextAfter derives the lexer's text-mode table from the shape delimiter
// pairs, plus the | pair around edge labels.
func flowTextAfter() map[string][]string {
	m := map[string][]string{"|": {"|"}}
	for opener, closers := range flowShapes {
		for closer := range closers {
			m[opener] = append(m[opener], closer)
		}
	}
	return m
}

// flowArrows maps each valid edge lexeme to its decoded (arrow, line) pair.
var flowArrows = map[string]struct {
	arrow mmdast.ArrowType
	line  mmdast.LineType
}{
	"-->":  {mmdast.ArrowHead, mmdast.LineSolid},
	"---":  {mmdast.ArrowOpen, mmdast.LineSolid},
	"-.->": {mmdast.ArrowHead, mmdast.LineDotted},
	"-.-":  {mmdast.ArrowOpen, mmdast.LineDotted},
	"==>":  {mmdast.ArrowHead, mmdast.LineThick},
	"===":  {mmdast.ArrowOpen, mmdast.LineThick},
	"--o":  {mmdast.ArrowCircle, mmdast.LineSolid},
	"--x":  {mmdast.ArrowCross, mmdast.LineSolid},
	"<-->": {mmdast.ArrowBidirectional, mmdast.LineSolid},
	"~~~":  {mmdast.ArrowInvisible, mmdast.LineSolid},
}

// flowArrowLexemes is the sorted Expected list for arrow errors.
var flowArrowLexemes = func() []string {
	out := make([]string, 0, len(flowArrows))
	for lexeme := range flowArrows {
		out = append(out, lexeme)
	}
	sort.Strings(out)
	return out
}()

// flowNearMissArrows are lexemes tokenized only so the parser can reject
// them with a pointed message.
var flowNearMissArrows = map[string]bool{
	"->": true, "=>": true, "<->": true, "..>": true,
}

// flowShapes maps an opening delimiter to its valid closers and the shape
// each closer selects. [/ and [\ each have two closers because the
// parallelogram and trapezoid families share openers.
var flowShapes = map[string]map[string]mmdast.Shape{
	"[":   {"]": mmdast.ShapeRectangle},
	"(":   {")": mmdast.ShapeRounded},
	"([":  {"])": mmdast.ShapeStadium},
	"[[":  {"]]": mmdast.ShapeSubroutine},
	"[(":  {")]": mmdast.ShapeCylinder},
	"((":  {"))": mmdast.ShapeCircle},
	"(((": {")))": mmdast.ShapeDoubleCircle},
	"{":   {"}": mmdast.ShapeRhombus},
	"{{":  {"}}": mmdast.ShapeHexagon},
	"[/":  {"/]": mmdast.ShapeParallelogram, "\\]": mmdast.ShapeTrapezoid},
	"[\\": {"\\]": mmdast.ShapeParallelogramAlt, "/]": mmdast.ShapeTrapezoidAlt},
	">":   {"]": mmdast.ShapeAsymmetric},
}

var flowDirections = map[string]mmdast.Direction{
	"TB": mmdast.DirectionTB,
	"TD": mmdast.DirectionTD,
	"BT": mmdast.DirectionBT,
	"RL": mmdast.DirectionRL,
	"LR": mmdast.DirectionLR,
}

type flowParser struct {
	src      string
	toks     []mmdlexer.Token
	i        int
	maxDepth int
	recover  bool
	errs     []error

	f        *mmdast.Flowchart
	nodes    map[string]*mmdast.FlowNode
	declared map[string]bool // explicitly declared, not a placeholder
	pending  map[string][]string
	classed  []string // class statement order, for deterministic merging
	stack    []*mmdast.Subgraph
}

func parseFlow(src string, maxDepth int, recover bool) (*mmdast.Flowchart, error) {
	toks, err := mmdlexer.Tokenize(src, flowProfile)
	if err != nil {
		if !recover {
			return nil, err
		}
		return &mmdast.Flowchart{}, &ParseError{Errors: []error{err}}
	}

	p := &flowParser{
		src:      src,
		toks:     toks,
		maxDepth: maxDepth,
		recover:  recover,
		f:        &mmdast.Flowchart{},
		nodes:    make(map[string]*mmdast.FlowNode),
		declared: make(map[string]bool),
		pending:  make(map[string][]string),
	}

	p.parseHeader()
	for !p.at(mmdlexer.EOF) {
		if p.at(mmdlexer.Newline) || p.atOp(";") {
			p.next()
			continue
		}
		if err := p.parseStatement(); err != nil {
			if !p.recover {
				return nil, err
			}
			p.errs = append(p.errs, err)
			p.syncToNewline()
		}
	}

	p.finalize()
	if len(p.errs) > 0 {
		return p.f, &ParseError{Errors: p.errs}
	}
	return p.f, nil
}

func (p *flowParser) cur() mmdlexer.Token { return p.toks[p.i] }
func (p *flowParser) at(k mmdlexer.Kind) bool { return p.toks[p.i].Kind == k }

func (p *flowParser) next() mmdlexer.Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *flowParser) atOp(text string) bool {
	t := p.cur()
	return t.Kind == mmdlexer.Op && t.Text == text
}

func (p *flowParser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == mmdlexer.Ident && t.Text == kw
}

func (p *flowParser) syncToNewline() {
	for !p.at(mmdlexer.EOF) && !p.at(mmdlexer.Newline) {
		p.next()
	}
}

// parseHeader consumes `flowchart <dir>` or `graph <dir>`. The direction is
// optional and defaults to top-down.
func (p *flowParser) parseHeader() {
	if !p.atKeyword("flowchart") && !p.atKeyword("graph") {
		return
	}
	p.next()
	if p.at(mmdlexer.Ident) {
		if dir, ok := flowDirections[p.cur().Text]; ok {
			p.f.Direction = dir
			p.next()
		}
	}
	for p.atOp(";") || p.at(mmdlexer.Newline) {
		p.next()
	}
}

func (p *flowParser) parseStatement() error {
	switch {
	case p.atKeyword("subgraph"):
		return p.parseSubgraph()
	case p.atKeyword("end"):
		t := p.cur()
		return &mmdast.SyntaxError{
			Pos:      t.Pos,
			Message:  "end without a matching subgraph",
			Expected: []string{"statement"},
			Found:    t.Text,
		}
	case p.atKeyword("title"):
		p.next()
		p.f.Title = p.restOfLine()
		return nil
	case p.atKeyword("class"):
		return p.parseClassStatement()
	case p.at(mmdlexer.Ident) || p.at(mmdlexer.Number):
		return p.parseNodeChain()
	default:
		t := p.cur()
		if flowNearMissArrows[t.Text] {
			return p.badArrowError(t)
		}
		return &mmdast.SyntaxError{
			Pos:      t.Pos,
			Message:  "unexpected token at start of statement",
			Expected: []string{"identifier", "subgraph", "class", "title"},
			Found:    t.Text,
		}
	}
}

// parseNodeChain parses one statement of node declarations and chained
// edges: `A[label] --> B --> C{choice}`. Chains desugar left to right into
// one edge per arrow, sharing the intermediate nodes.
func (p *flowParser) parseNodeChain() error {
	from, err := p.parseNodePart()
	if err != nil {
		return err
	}

	for {
		t := p.cur()
		if t.Kind != mmdlexer.Op {
			return nil
		}
		spec, ok := flowArrows[t.Text]
		if !ok {
			if flowNearMissArrows[t.Text] {
				return p.badArrowError(t)
			}
			if t.Text == ";" || t.Text == "&" {
				p.next()
				return nil
			}
			return nil
		}
		p.next()

		label := ""
		if p.atOp("|") {
			p.next()
			label = p.labelUntil("|")
			if !p.atOp("|") {
				t := p.cur()
				return &mmdast.SyntaxError{
					Pos:      t.Pos,
					Message:  "unterminated edge label",
					Expected: []string{"|"},
					Found:    t.Text,
				}
			}
			p.next()
		}

		to, err := p.parseNodePart()
		if err != nil {
			return err
		}

		p.f.Edges = append(p.f.Edges, &mmdast.FlowEdge{
			From:  from,
			To:    to,
			Label: label,
			Arrow: spec.arrow,
			Line:  spec.line,
		})
		from = to
	}
}

// parseNodePart parses one edge endpoint: an id, optionally followed by a
// shape declaration and a ::: class shorthand. It returns the node id.
func (p *flowParser) parseNodePart() (string, error) {
	t := p.cur()
	if t.Kind != mmdlexer.Ident && t.Kind != mmdlexer.Number {
		if flowNearMissArrows[t.Text] {
			return "", p.badArrowError(t)
		}
		return "", &mmdast.SyntaxError{
			Pos:      t.Pos,
			Message:  "expected a node identifier",
			Expected: []string{"identifier"},
			Found:    t.Text,
		}
	}
	id := p.next().Text

	if closers, ok := flowShapes[p.cur().Text]; ok && p.at(mmdlexer.Op) {
		open := p.next()
		label := p.labelUntilAny(closers)
		closer := p.cur()
		shape, ok := closers[closer.Text]
		if !ok {
			expected := make([]string, 0, len(closers))
			for c := range closers {
				expected = append(expected, c)
			}
			sort.Strings(expected)
			return "", p.enhanced(&mmdast.SyntaxError{
				Pos:      closer.Pos,
				Message:  fmt.Sprintf("unterminated node shape opened with %q", open.Text),
				Expected: expected,
				Found:    closer.Text,
			})
		}
		p.next()
		p.declareNode(id, label, shape)
	} else {
		p.placeholderNode(id)
	}

	if p.atOp(":::") {
		p.next()
		t := p.cur()
		if t.Kind != mmdlexer.Ident {
			return "", &mmdast.SyntaxError{
				Pos:      t.Pos,
				Message:  "expected a class name after :::",
				Expected: []string{"identifier"},
				Found:    t.Text,
			}
		}
		p.pendClass(id, p.next().Text)
	}

	return id, nil
}

// parseSubgraph parses `subgraph ID [title…]` through its matching `end`,
// recursing for nested subgraphs. A missing end is reported at the opening
// subgraph's line so the unclosed scope is obvious.
func (p *flowParser) parseSubgraph() error {
	open := p.next() // subgraph keyword

	if len(p.stack)+1 > p.maxDepth {
		return &mmdast.SyntaxError{
			Pos:      open.Pos,
			Message:  fmt.Sprintf("subgraph nesting exceeds the depth limit of %d", p.maxDepth),
			Expected: []string{"end"},
			Found:    "subgraph",
		}
	}

	t := p.cur()
	if t.Kind != mmdlexer.Ident && t.Kind != mmdlexer.Number && t.Kind != mmdlexer.String {
		return &mmdast.SyntaxError{
			Pos:      t.Pos,
			Message:  "expected a subgraph identifier",
			Expected: []string{"identifier"},
			Found:    t.Text,
		}
	}
	sg := &mmdast.Subgraph{ID: p.next().Text}
	if p.atOp("[") {
		p.next()
		sg.Title = p.labelUntil("]")
		if p.atOp("]") {
			p.next()
		}
	} else {
		sg.Title = p.restOfLine()
	}

	if len(p.stack) == 0 {
		p.f.Subgraphs = append(p.f.Subgraphs, sg)
	} else {
		parent := p.stack[len(p.stack)-1]
		parent.Subgraphs = append(parent.Subgraphs, sg)
	}
	p.stack = append(p.stack, sg)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()

	for {
		if p.at(mmdlexer.EOF) {
			return &mmdast.SyntaxError{
				Pos:      open.Pos,
				Message:  fmt.Sprintf("subgraph %q is missing its end", sg.ID),
				Expected: []string{"end"},
				Found:    "end of input",
			}
		}
		if p.at(mmdlexer.Newline) || p.atOp(";") {
			p.next()
			continue
		}
		if p.atKeyword("end") {
			p.next()
			return nil
		}
		if err := p.parseStatement(); err != nil {
			if !p.recover {
				return err
			}
			p.errs = append(p.errs, err)
			p.syncToNewline()
		}
	}
}

// parseClassStatement parses `class id[,id…] className`. Forward references
// are legal: names are pended and merged onto nodes at finalize, so the
// resulting AST never depends on statement order.
func (p *flowParser) parseClassStatement() error {
	p.next() // class keyword

	var ids []string
	for {
		t := p.cur()
		if t.Kind != mmdlexer.Ident && t.Kind != mmdlexer.Number {
			return &mmdast.SyntaxError{
				Pos:      t.Pos,
				Message:  "expected a node identifier in class statement",
				Expected: []string{"identifier"},
				Found:    t.Text,
			}
		}
		ids = append(ids, p.next().Text)
		if !p.atOp(",") && !p.atOp("&") {
			break
		}
		p.next()
	}

	t := p.cur()
	if t.Kind != mmdlexer.Ident {
		return &mmdast.SyntaxError{
			Pos:      t.Pos,
			Message:  "expected a class name",
			Expected: []string{"identifier"},
			Found:    t.Text,
		}
	}
	class := p.next().Text
	for _, id := range ids {
		p.pendClass(id, class)
	}
	return nil
}

// labelUntil collects label text up to the given closing op, joining word
// tokens with single spaces. Quoted strings contribute their decoded text.
func (p *flowParser) labelUntil(closer string) string {
	return p.labelUntilAny(map[string]mmdast.Shape{closer: 0})
}

func (p *flowParser) labelUntilAny(closers map[string]mmdast.Shape) string {
	var parts []string
	for {
		t := p.cur()
		if t.Kind == mmdlexer.EOF || t.Kind == mmdlexer.Newline {
			return strings.Join(parts, " ")
		}
		if t.Kind == mmdlexer.Op {
			if _, ok := closers[t.Text]; ok {
				return strings.Join(parts, " ")
			}
		}
		parts = append(parts, p.next().Text)
	}
}

// restOfLine consumes tokens to the end of the line and joins them with
// spaces, for title text and subgraph titles.
func (p *flowParser) restOfLine() string {
	var parts []string
	for !p.at(mmdlexer.EOF) && !p.at(mmdlexer.Newline) {
		parts = append(parts, p.next().Text)
	}
	return strings.Join(parts, " ")
}

// declareNode records an explicit declaration. A later explicit declaration
// overwrites an auto-created placeholder (and any earlier declaration): last
// one wins.
func (p *flowParser) declareNode(id, label string, shape mmdast.Shape) {
	n := p.ensureNode(id)
	n.Label = label
	n.Shape = shape
	p.declared[id] = true
	p.joinSubgraph(id)
}

// placeholderNode auto-creates a node for an id first seen as an edge
// endpoint: label defaults to the id, shape to the default rectangle.
func (p *flowParser) placeholderNode(id string) {
	p.ensureNode(id)
	p.joinSubgraph(id)
}

func (p *flowParser) ensureNode(id string) *mmdast.FlowNode {
	if n, ok := p.nodes[id]; ok {
		return n
	}
	n := &mmdast.FlowNode{ID: id, Label: id, Shape: mmdast.ShapeRectangle}
	p.nodes[id] = n
	p.f.Nodes = append(p.f.Nodes, n)
	return n
}

// joinSubgraph records subgraph membership for the innermost open scope.
// Membership is additive bookkeeping: the node stays in the global table.
func (p *flowParser) joinSubgraph(id string) {
	if len(p.stack) == 0 {
		return
	}
	sg := p.stack[len(p.stack)-1]
	if !go2.Contains(sg.Nodes, id) {
		sg.Nodes = append(sg.Nodes, id)
	}
}

func (p *flowParser) pendClass(id, class string) {
	if _, ok := p.pending[id]; !ok {
		p.classed = append(p.classed, id)
	}
	p.pending[id] = append(p.pending[id], class)
}

// finalize merges pended class names onto the node table. Class statements
// that reference ids never declared anywhere are dropped; the opt-in
// validation pass is the place to complain about those.
func (p *flowParser) finalize() {
	for _, id := range p.classed {
		n, ok := p.nodes[id]
		if !ok {
			continue
		}
		for _, class := range p.pending[id] {
			if !go2.Contains(n.Classes, class) {
				n.Classes = append(n.Classes, class)
			}
		}
	}
}

func (p *flowParser) badArrowError(t mmdlexer.Token) error {
	return p.enhanced(&mmdast.SyntaxError{
		Pos:      t.Pos,
		Message:  fmt.Sprintf("%q is not a valid edge", t.Text),
		Expected: flowArrowLexemes,
		Found:    t.Text,
	})
}

// enhanced upgrades a SyntaxError with a source snippet and suggestions.
// Purely advisory: the parse outcome is identical either way.
func (p *flowParser) enhanced(serr *mmdast.SyntaxError) error {
	return &mmdast.EnhancedSyntaxError{
		SyntaxError: *serr,
		Snippet:     renderSnippet(p.src, serr.Pos, len(serr.Found)),
		Suggestions: suggest(serr.Found, serr.Expected),
	}
}

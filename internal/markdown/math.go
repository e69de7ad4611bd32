package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Math is a goldmark extension for TeX math delimited by $…$ (inline) and
// $$…$$ (display). The TeX source is HTML-escaped and wrapped in \(…\) or
// \[…\] inside an element with a "math" class, ready for client-side
// typesetting. Unterminated or empty delimiters are left as literal text.
var Math goldmark.Extender = &mathExtension{}

var (
	// KindMathInline is the node kind of InlineMath.
	KindMathInline = ast.NewNodeKind("MathInline")
	// KindMathBlock is the node kind of MathBlock.
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

var dollars = []byte("$$")

// InlineMath is a $…$ or same-line $$…$$ span.
type InlineMath struct {
	ast.BaseInline
	Value   []byte
	Display bool
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// MathBlock is a display formula between "$$" lines.
type MathBlock struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 701)),
		parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 501)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&mathRenderer{}, 501)))
}

type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (p *inlineMathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '$' {
		return nil
	}

	closer := dollars[:1]
	if line[1] == '$' {
		closer = dollars
	}
	end := bytes.Index(line[len(closer):], closer)
	if end <= 0 {
		return nil
	}

	value := line[len(closer) : len(closer)+end]
	if len(bytes.TrimSpace(value)) == 0 {
		return nil
	}
	block.Advance(2*len(closer) + end)
	return &InlineMath{Value: bytes.Clone(value), Display: len(closer) == 2}
}

// closingFenceRe finds a later line consisting of "$$", optionally inside a
// blockquote or list indentation.
var closingFenceRe = regexp.MustCompile(`(?m)^[ \t>]*\$\$[ \t]*$`)

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.Equal(bytes.TrimSpace(line[pos:]), dollars) {
		return nil, parser.NoChildren
	}
	if !closingFenceRe.Match(reader.Source()[segment.Stop:]) {
		return nil, parser.NoChildren
	}
	return &MathBlock{}, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if bytes.Equal(bytes.TrimSpace(line), dollars) {
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	node.Lines().Append(segment)
	reader.AdvanceAndSetPadding(segment.Stop-segment.Start-1, segment.Padding)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(ast.Node, text.Reader, parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool { return true }

func (b *mathBlockParser) CanAcceptIndentedLine() bool { return false }

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathRenderer) renderInline(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InlineMath)
	value := util.EscapeHTML(bytes.TrimSpace(n.Value))
	if n.Display {
		_, _ = w.WriteString(`<span class="math math-display">\[`)
		_, _ = w.Write(value)
		_, _ = w.WriteString(`\]</span>`)
	} else {
		_, _ = w.WriteString(`<span class="math math-inline">\(`)
		_, _ = w.Write(value)
		_, _ = w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	_, _ = w.WriteString(`<div class="math math-display">\[`)
	_, _ = w.Write(util.EscapeHTML(bytes.TrimSpace(buf.Bytes())))
	_, _ = w.WriteString("\\]</div>\n")
	return ast.WalkSkipChildren, nil
}

package htmltext

import (
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const defaultRuleWidth = 72

var listBullets = [...]string{"* ", "- ", "+ "}

type listState struct {
	ordered bool
	next    int
}

type linkRef struct {
	label string
	href  string
}

// TextRenderer is a Sink that assembles plain text from tokens. Paragraphs
// are word wrapped at the configured width; PRE content is written as is.
type TextRenderer struct {
	w        io.Writer
	width    int
	osc8     bool
	linkURLs bool
	strict   bool
	diag     DiagnosticSink
	source   string

	para      strings.Builder
	links     []linkRef
	hrefs     []string
	lists     []listState
	marker    string
	quote     int
	dd        int
	pre       bool
	suppress  int
	heading   Tag
	needBlank bool
	wroteAny  bool
	errors    int
	err       error
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer, width int, opts ...Option) *TextRenderer {
	r := &TextRenderer{}
	r.resetWithConfig(w, width, newConfig(opts))
	return r
}

func (r *TextRenderer) resetWithConfig(w io.Writer, width int, cfg config) {
	r.w = w
	r.width = width
	r.osc8 = cfg.osc8
	r.linkURLs = cfg.linkURLs
	r.strict = cfg.strict
	r.diag = cfg.diagnostics
	r.source = cfg.sourceName
	r.para.Reset()
	r.links = r.links[:0]
	r.hrefs = r.hrefs[:0]
	r.lists = r.lists[:0]
	r.marker = ""
	r.quote = 0
	r.dd = 0
	r.pre = false
	r.suppress = 0
	r.heading = TagNone
	r.needBlank = false
	r.wroteAny = false
	r.errors = 0
	r.err = nil
}

// Errors returns the number of scan errors seen so far.
func (r *TextRenderer) Errors() int { return r.errors }

// WriteToken consumes one token.
func (r *TextRenderer) WriteToken(tok Token) error {
	switch tok.Kind {
	case tokenText:
		if r.suppress == 0 {
			r.para.WriteString(tok.Text)
		}
	case tokenStartTag:
		r.startTag(tok)
	case tokenEndTag:
		r.endTag(tok)
	case tokenError:
		r.errors++
		if r.strict && r.diag != nil {
			r.diag.Report(Diagnostic{Source: r.source, Pos: tok.Pos, Message: tok.Text})
		}
	}
	return r.err
}

// Flush writes any pending paragraph.
func (r *TextRenderer) Flush() error {
	r.flushPara()
	return r.err
}

func (r *TextRenderer) startTag(tok Token) {
	switch tok.Tag {
	case TagHead, TagTitle:
		r.suppress++
	case TagScript, TagStyle:
		// The verbatim body in tok.Text is not rendered.
	case TagBr:
		r.para.WriteByte('\n')
	case TagHr:
		r.breakBlock()
		r.writeRule()
	case TagImg:
		if alt, ok := tok.Attrs.Get("alt"); ok && alt != "" && r.suppress == 0 {
			r.para.WriteString("[" + alt + "]")
		}
	case TagA:
		href, _ := tok.Attrs.Get("href")
		r.hrefs = append(r.hrefs, strings.TrimSpace(href))
	case TagUl, TagDir, TagMenu:
		r.openList(listState{})
	case TagOl:
		r.openList(listState{ordered: true, next: tok.Attrs.Int("start", 1)})
	case TagLi:
		r.breakLine()
		r.marker = r.nextMarker()
	case TagBlockquote:
		r.breakBlock()
		r.quote++
	case TagDd:
		r.breakLine()
		r.dd++
	case TagDt, TagTr, TagCaption, TagOption:
		r.breakLine()
	case TagTd, TagTh:
		if r.para.Len() > 0 {
			r.para.WriteString("  ")
		}
	case TagPre:
		r.breakBlock()
		r.pre = true
	case TagH1, TagH2, TagH3, TagH4, TagH5, TagH6:
		r.breakBlock()
		r.heading = tok.Tag
	default:
		if tok.Class == ClassBlock {
			r.breakBlock()
		}
	}
}

func (r *TextRenderer) endTag(tok Token) {
	switch tok.Tag {
	case TagHead, TagTitle:
		if r.suppress > 0 {
			r.suppress--
		}
	case TagScript, TagStyle, TagTd, TagTh:
	case TagA:
		if len(r.hrefs) == 0 {
			return
		}
		href := r.hrefs[len(r.hrefs)-1]
		r.hrefs = r.hrefs[:len(r.hrefs)-1]
		if r.linkURLs && r.suppress == 0 && href != "" && !strings.HasPrefix(href, "#") {
			label := fitURL(href, r.lineWidth()-2)
			r.para.WriteString(" <" + label + ">")
			r.links = append(r.links, linkRef{label: label, href: href})
		}
	case TagUl, TagOl, TagDir, TagMenu:
		if len(r.lists) > 1 {
			r.breakLine()
		} else {
			r.breakBlock()
		}
		if len(r.lists) > 0 {
			r.lists = r.lists[:len(r.lists)-1]
		}
	case TagLi, TagDt, TagTr, TagCaption, TagOption:
		r.breakLine()
	case TagBlockquote:
		r.breakBlock()
		if r.quote > 0 {
			r.quote--
		}
	case TagDd:
		r.breakLine()
		if r.dd > 0 {
			r.dd--
		}
	case TagPre:
		r.breakBlock()
		r.pre = false
	case TagH1, TagH2, TagH3, TagH4, TagH5, TagH6:
		r.breakBlock()
		r.heading = TagNone
	default:
		if tok.Class == ClassBlock {
			r.breakBlock()
		}
	}
}

func (r *TextRenderer) breakBlock() {
	r.flushPara()
	r.needBlank = true
}

func (r *TextRenderer) breakLine() {
	r.flushPara()
}

// openList starts a list. Nested lists continue the enclosing item without a
// blank line.
func (r *TextRenderer) openList(l listState) {
	if len(r.lists) > 0 {
		r.breakLine()
	} else {
		r.breakBlock()
	}
	r.lists = append(r.lists, l)
}

func (r *TextRenderer) nextMarker() string {
	if len(r.lists) == 0 {
		return listBullets[0]
	}
	top := &r.lists[len(r.lists)-1]
	if top.ordered {
		m := strconv.Itoa(top.next) + ". "
		top.next++
		return m
	}
	return listBullets[(len(r.lists)-1)%len(listBullets)]
}

func (r *TextRenderer) indentWidth() int {
	n := 2*r.quote + 2*r.dd
	if len(r.lists) > 1 {
		n += 2 * (len(r.lists) - 1)
	}
	return n
}

// lineWidth is the usable width after indentation, or 0 when unbounded.
func (r *TextRenderer) lineWidth() int {
	if r.width <= 0 {
		return 0
	}
	return max(r.width-r.indentWidth(), 1)
}

func (r *TextRenderer) flushPara() {
	text := r.para.String()
	r.para.Reset()
	links := r.links
	r.links = r.links[:0]
	if r.pre {
		text = strings.TrimSuffix(text, "\n")
	} else {
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return
	}
	if r.needBlank && r.wroteAny {
		r.write("\n")
	}
	marker := r.marker
	r.marker = ""
	if !r.pre && r.width > 0 {
		text = wordwrap.String(text, max(r.lineWidth()-len(marker), 1))
	}

	var b strings.Builder
	hang := strings.Repeat(" ", len(marker))
	widest := 0
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			line = marker + line
		} else if line != "" {
			line = hang + line
		}
		widest = max(widest, ansi.PrintableRuneWidth(line))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	switch r.heading {
	case TagH1:
		b.WriteString(strings.Repeat("=", widest) + "\n")
	case TagH2:
		b.WriteString(strings.Repeat("-", widest) + "\n")
	}
	out := b.String()
	if n := r.indentWidth(); n > 0 {
		out = indent.String(out, uint(n))
	}
	if r.osc8 {
		for _, l := range links {
			out = strings.Replace(out, "<"+l.label+">", "<"+osc8Link(l.href, l.label)+">", 1)
		}
	}
	r.write(out)
	r.wroteAny = true
	r.needBlank = false
}

func (r *TextRenderer) writeRule() {
	w := r.lineWidth()
	if w == 0 {
		w = defaultRuleWidth
	}
	if r.wroteAny {
		r.write("\n")
	}
	r.write(strings.Repeat(" ", r.indentWidth()) + strings.Repeat("-", w) + "\n")
	r.wroteAny = true
	r.needBlank = true
}

func (r *TextRenderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

// fitURL shortens url for display within limit columns; limit <= 0 means no
// limit.
func fitURL(url string, limit int) string {
	if limit <= 0 || ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	short := url
	if idx := strings.Index(short, "://"); idx != -1 {
		short = short[idx+3:]
	}
	short = strings.TrimPrefix(short, "www.")
	return truncateWithEllipsis(short, limit)
}

func truncateWithEllipsis(text string, limit int) string {
	switch {
	case ansi.PrintableRuneWidth(text) <= limit:
		return text
	case limit <= 0:
		return ""
	case limit == 1:
		return "…"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

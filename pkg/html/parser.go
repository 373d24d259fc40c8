package html

import (
	"fmt"
	"strings"
)

// voidElements never have children or close tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse parses an HTML fragment or document into a Document. The parser
// is deliberately lean: tags, attributes, text, comments, and raw-text
// handling for <style> and <script>. Mismatched close tags close the
// nearest matching open element, as browsers do.
func Parse(input string) (*Document, error) {
	doc := NewDocument()
	p := &parser{input: input}

	stack := []*Node{doc.Root}
	top := func() *Node { return stack[len(stack)-1] }

	for !p.done() {
		if p.peek() == '<' {
			if strings.HasPrefix(p.rest(), "<!--") {
				p.skipComment()
				continue
			}
			if strings.HasPrefix(p.rest(), "<!") {
				p.skipDeclaration()
				continue
			}
			if strings.HasPrefix(p.rest(), "</") {
				name := p.parseCloseTag()
				for i := len(stack) - 1; i > 0; i-- {
					if stack[i].TagName == name {
						stack = stack[:i]
						break
					}
				}
				continue
			}

			node, selfClosing, err := p.parseOpenTag()
			if err != nil {
				return nil, err
			}

			switch node.TagName {
			case "style":
				doc.Stylesheets = append(doc.Stylesheets, p.rawTextUntil("</style>"))
				continue
			case "script":
				// Script bodies are the document owner's concern; skip them.
				p.rawTextUntil("</script>")
				continue
			}

			top().AddChild(node)
			if !selfClosing && !voidElements[node.TagName] {
				stack = append(stack, node)
			}
			continue
		}

		text := p.textUntilTag()
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			top().AppendText(collapseWhitespace(text))
		}
	}

	return doc, nil
}

// collapseWhitespace folds runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type parser struct {
	input string
	pos   int
}

func (p *parser) done() bool   { return p.pos >= len(p.input) }
func (p *parser) peek() byte   { return p.input[p.pos] }
func (p *parser) rest() string { return p.input[p.pos:] }

func (p *parser) textUntilTag() string {
	start := p.pos
	for !p.done() && p.peek() != '<' {
		p.pos++
	}
	return p.input[start:p.pos]
}

// rawTextUntil consumes up to and including the close tag, returning the
// raw text before it. Used for <style> and <script>. The close tag is
// matched case-insensitively in place; lowercasing the haystack first
// would skew byte offsets for runes whose lowercase form has a
// different UTF-8 length.
func (p *parser) rawTextUntil(closeTag string) string {
	rest := p.rest()
	for i := 0; i+len(closeTag) <= len(rest); i++ {
		if strings.EqualFold(rest[i:i+len(closeTag)], closeTag) {
			p.pos += i + len(closeTag)
			return rest[:i]
		}
	}
	p.pos = len(p.input)
	return rest
}

func (p *parser) skipComment() {
	if idx := strings.Index(p.rest(), "-->"); idx >= 0 {
		p.pos += idx + 3
	} else {
		p.pos = len(p.input)
	}
}

func (p *parser) skipDeclaration() {
	if idx := strings.IndexByte(p.rest(), '>'); idx >= 0 {
		p.pos += idx + 1
	} else {
		p.pos = len(p.input)
	}
}

func (p *parser) parseCloseTag() string {
	p.pos += 2 // consume "</"
	start := p.pos
	for !p.done() && p.peek() != '>' {
		p.pos++
	}
	name := strings.ToLower(strings.TrimSpace(p.input[start:p.pos]))
	if !p.done() {
		p.pos++ // consume '>'
	}
	return name
}

func (p *parser) parseOpenTag() (*Node, bool, error) {
	p.pos++ // consume '<'
	start := p.pos
	for !p.done() && !isTagNameEnd(p.peek()) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])
	if name == "" {
		return nil, false, fmt.Errorf("html: malformed tag at offset %d", start-1)
	}

	node := NewElement(name)
	selfClosing := false

	for !p.done() {
		p.skipSpaces()
		if p.done() {
			break
		}
		if p.peek() == '>' {
			p.pos++
			break
		}
		if strings.HasPrefix(p.rest(), "/>") {
			p.pos += 2
			selfClosing = true
			break
		}
		attrName, attrValue := p.parseAttribute()
		if attrName != "" {
			node.SetAttribute(attrName, attrValue)
		}
	}

	return node, selfClosing, nil
}

func (p *parser) parseAttribute() (string, string) {
	start := p.pos
	for !p.done() && !isAttrNameEnd(p.peek()) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])

	p.skipSpaces()
	if p.done() || p.peek() != '=' {
		return name, "" // bare attribute
	}
	p.pos++ // consume '='
	p.skipSpaces()

	if !p.done() && (p.peek() == '"' || p.peek() == '\'') {
		quote := p.peek()
		p.pos++
		vstart := p.pos
		for !p.done() && p.peek() != quote {
			p.pos++
		}
		value := p.input[vstart:p.pos]
		if !p.done() {
			p.pos++ // consume closing quote
		}
		return name, value
	}

	vstart := p.pos
	for !p.done() && !isTagNameEnd(p.peek()) {
		p.pos++
	}
	return name, p.input[vstart:p.pos]
}

func (p *parser) skipSpaces() {
	for !p.done() && isSpace(p.peek()) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isTagNameEnd(c byte) bool {
	return isSpace(c) || c == '>' || c == '/'
}

func isAttrNameEnd(c byte) bool {
	return isSpace(c) || c == '=' || c == '>' || c == '/'
}

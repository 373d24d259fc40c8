package css

import (
	"strings"
)

// Selector represents a simple CSS selector.
type Selector struct {
	Raw         string       // original selector text
	Type        SelectorType // what kind of thing it matches
	Value       string       // element name, class name, or id
	Specificity int          // cascade ordering score
}

type SelectorType int

const (
	UniversalSelector SelectorType = iota // *
	ElementSelector                       // div, p, span
	ClassSelector                         // .classname
	IDSelector                            // #idname
)

// Rule is one selector with its declaration block.
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
}

// Stylesheet is a parsed CSS stylesheet.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses stylesheet text into rules. Malformed rules are
// skipped rather than failing the whole sheet; browsers recover the same
// way.
func ParseStylesheet(source string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	source = stripComments(source)

	for _, chunk := range splitRules(source) {
		selText, declText, ok := strings.Cut(chunk, "{")
		if !ok {
			continue
		}
		decls := parseDeclarations(declText)
		if len(decls) == 0 {
			continue
		}
		// A comma-separated selector list becomes one rule per selector.
		for _, raw := range strings.Split(selText, ",") {
			sel, ok := parseSelector(raw)
			if !ok {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls})
		}
	}
	return sheet, nil
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

func splitRules(s string) []string {
	var rules []string
	for _, chunk := range strings.Split(s, "}") {
		if strings.TrimSpace(chunk) != "" {
			rules = append(rules, chunk)
		}
	}
	return rules
}

func parseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{}, false
	}
	sel := Selector{Raw: raw}
	switch {
	case raw == "*":
		sel.Type = UniversalSelector
		sel.Specificity = 0
	case strings.HasPrefix(raw, "#"):
		sel.Type = IDSelector
		sel.Value = raw[1:]
		sel.Specificity = 100
	case strings.HasPrefix(raw, "."):
		sel.Type = ClassSelector
		sel.Value = raw[1:]
		sel.Specificity = 10
	default:
		sel.Type = ElementSelector
		sel.Value = strings.ToLower(raw)
		sel.Specificity = 1
	}
	return sel, true
}

// parseDeclarations parses "prop: value; prop: value" into a map.
func parseDeclarations(s string) map[string]string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		expandShorthand(decls, prop, value)
	}
	if len(decls) == 0 {
		return nil
	}
	return decls
}

// expandShorthand stores a declaration, expanding the box-edge shorthands
// (margin, padding, border-width) into their per-side longhands.
func expandShorthand(decls map[string]string, prop, value string) {
	switch prop {
	case "margin", "padding":
		top, right, bottom, left := splitEdgeShorthand(value)
		decls[prop+"-top"] = top
		decls[prop+"-right"] = right
		decls[prop+"-bottom"] = bottom
		decls[prop+"-left"] = left
	case "border-width":
		top, right, bottom, left := splitEdgeShorthand(value)
		decls["border-top-width"] = top
		decls["border-right-width"] = right
		decls["border-bottom-width"] = bottom
		decls["border-left-width"] = left
	case "border":
		// "border: 2px solid red" style shorthand.
		for _, part := range strings.Fields(value) {
			if _, ok := ParseLength(part); ok {
				expandShorthand(decls, "border-width", part)
			} else if _, ok := ParseColor(part); ok {
				decls["border-color"] = part
			} else {
				decls["border-style"] = part
			}
		}
	default:
		decls[prop] = value
	}
}

// splitEdgeShorthand applies the CSS 1-to-4 value expansion.
func splitEdgeShorthand(value string) (top, right, bottom, left string) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		return parts[0], parts[0], parts[0], parts[0]
	case 2:
		return parts[0], parts[1], parts[0], parts[1]
	case 3:
		return parts[0], parts[1], parts[2], parts[1]
	case 4:
		return parts[0], parts[1], parts[2], parts[3]
	default:
		return "0", "0", "0", "0"
	}
}

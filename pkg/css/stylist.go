package css

import (
	"sort"

	"lamina/pkg/html"
)

// StylesheetOrigin orders stylesheets in the cascade. User-agent sheets
// lose to author sheets of equal specificity.
type StylesheetOrigin int

const (
	UserAgentOrigin StylesheetOrigin = iota
	AuthorOrigin
)

type originSheet struct {
	sheet  *Stylesheet
	origin StylesheetOrigin
}

// Stylist owns the stylesheet set and performs selector matching and the
// cascade. The layout worker feeds author sheets into it one way; it
// only ever reads resolved styles back.
type Stylist struct {
	sheets []originSheet
}

// NewStylist creates a stylist preloaded with the user-agent defaults.
func NewStylist() *Stylist {
	s := &Stylist{}
	ua, _ := ParseStylesheet(userAgentCSS)
	s.sheets = append(s.sheets, originSheet{sheet: ua, origin: UserAgentOrigin})
	return s
}

// userAgentCSS is the minimal default sheet; enough that bare documents
// look like documents.
const userAgentCSS = `
	head { display: none; }
	a { color: #0645ad; }
	body { margin: 8px; }
`

// AddStylesheet merges a stylesheet into the set at the given origin.
func (s *Stylist) AddStylesheet(sheet *Stylesheet, origin StylesheetOrigin) {
	s.sheets = append(s.sheets, originSheet{sheet: sheet, origin: origin})
}

// inheritedProperties flow from parent to child when the child has no
// declaration of its own.
var inheritedProperties = []string{
	"color", "font-size", "line-height", "text-align",
}

// MatchAndCascade resolves a style for every element in the subtree and
// returns the result keyed by node handle. Text nodes take their
// parent's resolved style.
func (s *Stylist) MatchAndCascade(root *html.Node) map[html.NodeID]*Style {
	styles := make(map[html.NodeID]*Style)
	s.cascadeSubtree(root, nil, styles)
	return styles
}

func (s *Stylist) cascadeSubtree(node *html.Node, parent *Style, styles map[html.NodeID]*Style) {
	style := s.computeStyle(node, parent)
	styles[node.ID()] = style
	for _, child := range node.Children {
		s.cascadeSubtree(child, style, styles)
	}
}

func (s *Stylist) computeStyle(node *html.Node, parent *Style) *Style {
	if node.Type == html.TextNode {
		if parent != nil {
			return parent
		}
		return NewStyle()
	}

	style := NewStyle()

	// Inherited properties first, so any matching declaration overrides.
	if parent != nil {
		for _, prop := range inheritedProperties {
			if val, ok := parent.Get(prop); ok {
				style.Set(prop, val)
			}
		}
	}

	// Matching rules, lowest precedence first; later writes win.
	matched := s.matchingRules(node)
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].origin != matched[j].origin {
			return matched[i].origin < matched[j].origin
		}
		return matched[i].rule.Selector.Specificity < matched[j].rule.Selector.Specificity
	})
	for _, m := range matched {
		for prop, value := range m.rule.Declarations {
			style.Set(prop, value)
		}
	}

	// The style attribute beats everything in this cascade.
	if inline, ok := node.GetAttribute("style"); ok {
		for prop, value := range parseDeclarations(inline) {
			style.Set(prop, value)
		}
	}

	return style
}

type matchedRule struct {
	rule   Rule
	origin StylesheetOrigin
}

func (s *Stylist) matchingRules(node *html.Node) []matchedRule {
	var matched []matchedRule
	for _, os := range s.sheets {
		for _, rule := range os.sheet.Rules {
			if Matches(node, rule.Selector) {
				matched = append(matched, matchedRule{rule: rule, origin: os.origin})
			}
		}
	}
	return matched
}

// Matches reports whether the selector matches the node.
func Matches(node *html.Node, sel Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}
	switch sel.Type {
	case UniversalSelector:
		return true
	case ElementSelector:
		return node.TagName == sel.Value
	case ClassSelector:
		return node.HasClass(sel.Value)
	case IDSelector:
		id, ok := node.GetAttribute("id")
		return ok && id == sel.Value
	default:
		return false
	}
}

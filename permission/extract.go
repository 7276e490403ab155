package permission

import (
	"strings"

	"github.com/wardcheck/ward/cast"
)

// Warning is a structural warning raised while extracting permission
// actions from a declaration's attributes: an attribute that doesn't
// match the `ward(action(identifier))` grammar, or names an action
// keyword ParseKind doesn't recognize (§7 "Structural warnings": "unknown
// attribute action, malformed permission specifier").
type Warning struct {
	Position cast.Position
	Text     string
}

// Extract collects permission actions from a declaration's raw
// attributes (§4.3). It matches the small, explicit grammar
// `ward(action(identifier))`; anything else is skipped with a Warning
// rather than failing the analysis (§9 "Dynamic-dispatch / duck-typed
// attribute parsing").
func Extract(attrs []cast.RawAttribute) (ActionSet, []Warning) {
	out := make(ActionSet)
	var warnings []Warning
	for _, a := range attrs {
		kind, name, ok := parseAttribute(a.Text)
		if !ok {
			warnings = append(warnings, Warning{
				Position: a.Position,
				Text:     "malformed permission specifier: " + a.Text,
			})
			continue
		}
		k, ok := ParseKind(kind)
		if !ok {
			warnings = append(warnings, Warning{
				Position: a.Position,
				Text:     "unknown permission action: " + kind,
			})
			continue
		}
		out.Add(Action{Kind: k, Name: Name(name)})
	}
	return out, warnings
}

// parseAttribute recognizes `ward(action(identifier))`, returning the
// action keyword and the permission identifier. It is deliberately not a
// general expression parser: anything that doesn't match this exact
// shape is rejected, per §9.
func parseAttribute(text string) (action, name string, ok bool) {
	text = strings.TrimSpace(text)
	const prefix = "ward("
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, ")") {
		return "", "", false
	}
	inner := text[len(prefix) : len(text)-1]
	open := strings.IndexByte(inner, '(')
	if open < 0 || inner[len(inner)-1] != ')' {
		return "", "", false
	}
	action = strings.TrimSpace(inner[:open])
	name = strings.TrimSpace(inner[open+1 : len(inner)-1])
	if !isIdentifier(action) || !isIdentifier(name) {
		return "", "", false
	}
	return action, name, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

package cssom

import (
	"strings"

	"github.com/npillmayer/keyframer/style"
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// Clients will have to provide a concrete implementation of this interface
// (e.g., see package douceuradapter).
//
// See interfaces Rule and KeyframesRule.
type StyleSheet interface {
	AppendRules(StyleSheet)     // append rules from another stylesheet
	Empty() bool                // does this stylesheet contain any rules?
	Rules() []Rule              // style rules, including nested ones
	Keyframes() []KeyframesRule // @keyframes rules
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "animation"
	Value(string) style.Property // property value for key, e.g. "2s"
	IsImportant(string) bool     // is property key marked as important?
}

// KeyframesRule is an @keyframes at-rule. Its steps are rules with a
// percentage selector ("50.00%", "from", "to").
type KeyframesRule interface {
	Name() string // name of the animation
	Steps() []Rule
}

// AnimatedRules returns the rules of a set of stylesheets which bind an
// animation to their selector, i.e. carry an 'animation' or
// 'animation-name' declaration with a name other than 'none'.
func AnimatedRules(sheets ...StyleSheet) []Rule {
	var animated []Rule
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, r := range sheet.Rules() {
			if _, ok := AnimationName(r); ok {
				animated = append(animated, r)
			}
		}
	}
	tracer().Debugf("%d animated rules", len(animated))
	return animated
}

// AnimationName extracts the animation name bound by a rule. An explicit
// 'animation-name' wins over the shorthand. For the shorthand, the name is
// taken to be the first token which is neither a time nor a keyword.
func AnimationName(r Rule) (string, bool) {
	if name := strings.TrimSpace(r.Value("animation-name").String()); name != "" {
		if name == "none" {
			return "", false
		}
		return name, true
	}
	for _, token := range strings.Fields(r.Value("animation").String()) {
		token = strings.TrimSuffix(token, ",")
		if isTime(token) || shorthandKeywords[token] || isNumber(token) {
			continue
		}
		if strings.ContainsRune(token, '(') { // timing function
			continue
		}
		if token == "none" {
			return "", false
		}
		return token, true
	}
	return "", false
}

var shorthandKeywords = map[string]bool{
	"linear": true, "ease": true, "ease-in": true, "ease-out": true, "ease-in-out": true,
	"step-start": true, "step-end": true, "infinite": true,
	"normal": true, "reverse": true, "alternate": true, "alternate-reverse": true,
	"forwards": true, "backwards": true, "both": true,
	"running": true, "paused": true,
	"initial": true, "inherit": true, "unset": true,
}

func isTime(token string) bool {
	switch {
	case strings.HasSuffix(token, "ms"):
		return isNumber(strings.TrimSuffix(token, "ms"))
	case strings.HasSuffix(token, "s"):
		return isNumber(strings.TrimSuffix(token, "s"))
	}
	return false
}

func isNumber(token string) bool {
	if token == "" {
		return false
	}
	dot := false
	for i, c := range token {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		case (c == '-' || c == '+') && i == 0 && len(token) > 1:
		default:
			return false
		}
	}
	return true
}

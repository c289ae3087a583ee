/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/keyframer/cssom"
	"github.com/npillmayer/keyframer/style"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func tracer() tracing.Trace {
	return tracing.Select("keyframer.cssom")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
type CSSStyles struct {
	css css.Stylesheet
}

// Wrap a douceur.css.Stylesheet into CSSStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{*css}
	return sheet
}

// Parse parses CSS text into a stylesheet.
func Parse(text string) (*CSSStyles, error) {
	c, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("douceuradapter: cannot parse stylesheet: %w", err)
	}
	return Wrap(c), nil
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.css.Rules) == 0
}

// AppendRules appends rules from another stylesheet. Stylesheets of other
// implementations are ignored.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	othercss, ok := other.(*CSSStyles)
	if !ok {
		tracer().Errorf("cannot append rules of stylesheet type %T", other)
		return
	}
	sheet.css.Rules = append(sheet.css.Rules, othercss.css.Rules...)
}

// Rules returns the style rules of a stylesheet. Rules nested in
// conditional group rules are flattened into the result, keyframe steps are
// not included.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	var rules []cssom.Rule
	var collect func([]*css.Rule)
	collect = func(rs []*css.Rule) {
		for _, r := range rs {
			switch {
			case r.Kind == css.QualifiedRule:
				rules = append(rules, Rule(*r))
			case isKeyframes(r):
				// steps are reachable through Keyframes()
			case len(r.Rules) > 0:
				collect(r.Rules)
			}
		}
	}
	collect(sheet.css.Rules)
	return rules
}

// Keyframes returns the @keyframes rules of a stylesheet, in order of
// appearance.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Keyframes() []cssom.KeyframesRule {
	var kfs []cssom.KeyframesRule
	var collect func([]*css.Rule)
	collect = func(rs []*css.Rule) {
		for _, r := range rs {
			if isKeyframes(r) {
				kfs = append(kfs, KeyframesRule{rule: r})
			} else if r.Kind == css.AtRule && len(r.Rules) > 0 {
				collect(r.Rules)
			}
		}
	}
	collect(sheet.css.Rules)
	return kfs
}

// String serializes the stylesheet in douceur's format.
func (sheet *CSSStyles) String() string {
	return sheet.css.String()
}

var _ cssom.StyleSheet = &CSSStyles{}

func isKeyframes(r *css.Rule) bool {
	return r.Kind == css.AtRule && strings.HasSuffix(r.Name, "keyframes")
}

// Rule is an adapter for interface cssom.Rule.
type Rule css.Rule

// Selector returns the prelude / selectors of the rule.
func (r Rule) Selector() string {
	return r.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "animation-delay"
func (r Rule) Properties() []string {
	decl := r.Declarations
	props := make([]string, 0, len(decl))
	for _, d := range decl {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property value for given key with this rule, e.g. "2s".
// If a key is declared more than once, the last declaration wins.
func (r Rule) Value(key string) style.Property {
	var v style.Property
	for _, d := range r.Declarations {
		if d.Property == key {
			v = style.Property(d.Value)
		}
	}
	return v
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	for _, d := range r.Declarations {
		if d.Property == key {
			return d.Important
		}
	}
	return false
}

var _ cssom.Rule = Rule{}

// KeyframesRule is an adapter for interface cssom.KeyframesRule.
type KeyframesRule struct {
	rule *css.Rule
}

// Name returns the name of the animation.
func (k KeyframesRule) Name() string {
	if k.rule == nil {
		return ""
	}
	return strings.TrimSpace(k.rule.Prelude)
}

// Steps returns the percentage blocks of the rule.
func (k KeyframesRule) Steps() []cssom.Rule {
	if k.rule == nil {
		return nil
	}
	steps := make([]cssom.Rule, 0, len(k.rule.Rules))
	for _, r := range k.rule.Rules {
		steps = append(steps, Rule(*r))
	}
	return steps
}

var _ cssom.KeyframesRule = KeyframesRule{}

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets. Style elements which cannot be parsed are
// skipped.
func ExtractStyleElements(htmldoc *html.Node) []*CSSStyles {
	var sheets []*CSSStyles
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode && ch.DataAtom == atom.Style {
				if c := styleText(ch); c != "" {
					sheet, err := Parse(c)
					if err != nil {
						tracer().Errorf("skipping <style>: %v", err)
						continue
					}
					sheets = append(sheets, sheet)
				}
				continue
			}
			walk(ch)
		}
	}
	for _, a := range []atom.Atom{atom.Head, atom.Body} {
		if e := findElement(a, htmldoc); e != nil {
			walk(e)
		}
	}
	return sheets
}

func styleText(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			b.WriteString(ch.Data)
		}
	}
	return b.String()
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.Type == html.ElementNode && h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}

package synth

import (
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/style"
	"github.com/npillmayer/keyframer/timeline"
)

// RulePrefix is prepended to every @keyframes rule name.
const RulePrefix = "animation_"

type props struct {
	compact bool
}

// Option is a type to configure the output of Synthesize.
type Option func(*props)

// Compact selects a layout with one line per rule, as used for injecting
// CSS into the preview. The default layout is multi-line, for display.
func Compact() Option {
	return func(p *props) {
		p.compact = true
	}
}

// Synthesize creates the CSS for a set of animations on a timeline of
// duration milliseconds. Animations are written in the order given.
func Synthesize(anims []animation.Animation, duration float64, opts ...Option) string {
	p := &props{}
	for _, option := range opts {
		option(p)
	}
	var w writer
	if p.compact {
		w = compact{}
	} else {
		w = multiline{}
	}
	b := &strings.Builder{}
	for _, a := range anims {
		name := RuleName(a.Element)
		w.keyframes(b, name, a.Keyframes, duration)
		w.binding(b, a.Element, name, duration)
	}
	tracer().Debugf("synthesized %d animations, %d bytes", len(anims), b.Len())
	return b.String()
}

// RuleName returns the name of the @keyframes rule for an element
// identifier.
func RuleName(element string) string {
	b := strings.Builder{}
	b.WriteString(RulePrefix)
	for _, r := range element {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Collisions reports rule names which are produced by more than one
// element identifier. The identifiers of each collision are listed in the
// order of the animations. An empty map means no collisions.
func Collisions(anims []animation.Animation) map[string][]string {
	byName := make(map[string][]string)
	for _, a := range anims {
		name := RuleName(a.Element)
		byName[name] = appendUnique(byName[name], a.Element)
	}
	collisions := make(map[string][]string)
	for name, elements := range byName {
		if len(elements) > 1 {
			collisions[name] = elements
		}
	}
	return collisions
}

// CollisionNames returns the keys of a collision map, sorted.
func CollisionNames(collisions map[string][]string) []string {
	names := make([]string, 0, len(collisions))
	for name := range collisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

// Percentage formats the position of time t on a timeline of the given
// duration, with two decimals and without the percent sign.
func Percentage(t, duration float64) string {
	return strconv.FormatFloat(timeline.Percent(t, duration), 'f', 2, 64)
}

// Seconds formats a duration in milliseconds as the shortest decimal
// number of seconds, e.g. "2" or "2.5".
func Seconds(duration float64) string {
	return strconv.FormatFloat(duration/1000, 'f', -1, 64)
}

// AnimationValue returns the value of the 'animation' declaration binding
// rule name to an element.
func AnimationValue(name string, duration float64) string {
	return name + " " + Seconds(duration) + "s linear infinite"
}

// --- Layouts ---------------------------------------------------------------

type writer interface {
	keyframes(b *strings.Builder, name string, kfs []animation.Keyframe, duration float64)
	binding(b *strings.Builder, element, name string, duration float64)
}

type multiline struct{}

func (multiline) keyframes(b *strings.Builder, name string, kfs []animation.Keyframe, duration float64) {
	b.WriteString("@keyframes " + name + " {\n")
	for _, kf := range kfs {
		b.WriteString("  " + Percentage(kf.Time, duration) + "% {\n")
		kf.Properties.Each(func(key string, value style.Property) {
			b.WriteString("    " + key + ": " + value.String() + ";\n")
		})
		b.WriteString("  }\n")
	}
	b.WriteString("}\n\n")
}

func (multiline) binding(b *strings.Builder, element, name string, duration float64) {
	b.WriteString("." + element + " {\n")
	b.WriteString("  animation: " + AnimationValue(name, duration) + ";\n")
	b.WriteString("}\n\n")
}

type compact struct{}

func (compact) keyframes(b *strings.Builder, name string, kfs []animation.Keyframe, duration float64) {
	b.WriteString("@keyframes " + name + " {")
	for _, kf := range kfs {
		b.WriteString(" " + Percentage(kf.Time, duration) + "% {")
		kf.Properties.Each(func(key string, value style.Property) {
			b.WriteString(" " + key + ": " + value.String() + ";")
		})
		b.WriteString(" }")
	}
	b.WriteString(" }\n")
}

func (compact) binding(b *strings.Builder, element, name string, duration float64) {
	b.WriteString("." + element + " { animation: " + AnimationValue(name, duration) + "; }\n")
}

package keyframer

import (
	"errors"
	"fmt"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/style"
)

// ErrUnknownCommand is returned by Apply for commands with an unknown op.
var ErrUnknownCommand = errors.New("keyframer: unknown command")

// Op is the operation of a command.
type Op string

// Ops map to the store operations of the same name.
const (
	OpSetDuration    Op = "set-duration"      // Duration
	OpSelectElement  Op = "select-element"    // Element
	OpClearElement   Op = "clear-element"     //
	OpSelectKeyframe Op = "select-keyframe"   // Time, of the selected element
	OpClearKeyframe  Op = "clear-keyframe"    //
	OpAddKeyframe    Op = "add-keyframe"      // Element, Time
	OpUpdateKeyframe Op = "update-keyframe"   // Element, Time, Properties
	OpSetProperties  Op = "set-properties"    // Element, Time, Properties
	OpMoveKeyframe   Op = "move-keyframe"     // Element, Time, To
	OpRemoveKeyframe Op = "remove-keyframe"   // Element, Time
	OpRemoveProps    Op = "remove-properties" // Element, Time, Properties (values ignored)
	OpPlay           Op = "play"
	OpPause          Op = "pause"
	OpStop           Op = "stop"
	OpSeek           Op = "seek" // Time, or Percent of the duration
)

// Command is a serializable request to change the store.
type Command struct {
	Op         Op            `json:"op"`
	Element    string        `json:"element,omitempty"`
	Time       float64       `json:"time,omitempty"`
	To         float64       `json:"to,omitempty"`
	Duration   float64       `json:"duration,omitempty"`
	Percent    *float64      `json:"percent,omitempty"`
	Properties []Declaration `json:"properties,omitempty"`
}

// Declaration is a property/value pair. Commands carry lists of
// declarations to keep the order of properties.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// PropertyMap converts the declarations of a command. Properties outside
// the catalog of the properties panel are accepted, but traced.
func (cmd Command) PropertyMap() style.PropertyMap {
	kv := make([]style.KeyValue, len(cmd.Properties))
	for i, d := range cmd.Properties {
		if style.GroupNameFromPropertyKey(d.Property) == style.PGX {
			tracer().Debugf("property %q is not in the editor catalog", d.Property)
		}
		kv[i] = style.KeyValue{Key: d.Property, Value: style.Property(d.Value)}
	}
	return style.NewPropertyMap(kv...)
}

// PropertyKeys returns the property names of the declarations of a command.
func (cmd Command) PropertyKeys() []string {
	keys := make([]string, len(cmd.Properties))
	for i, d := range cmd.Properties {
		keys[i] = d.Property
	}
	return keys
}

// apply executes a command on a store. Invalid arguments behave like they do
// on the store methods; only unknown ops are errors.
func apply(store *animation.Store, cmd Command) error {
	switch cmd.Op {
	case OpSetDuration:
		store.SetDuration(cmd.Duration)
	case OpSelectElement:
		store.SelectElement(cmd.Element)
	case OpClearElement:
		store.ClearElement()
	case OpSelectKeyframe:
		store.SelectKeyframe(&animation.Keyframe{Time: cmd.Time})
	case OpClearKeyframe:
		store.SelectKeyframe(nil)
	case OpAddKeyframe:
		store.AddKeyframe(cmd.Element, cmd.Time)
	case OpUpdateKeyframe:
		store.UpdateKeyframe(cmd.Element, animation.Keyframe{Time: cmd.Time, Properties: cmd.PropertyMap()})
	case OpSetProperties:
		store.UpdateAnimationProperties(cmd.Element, cmd.Time, cmd.PropertyMap())
	case OpMoveKeyframe:
		store.MoveKeyframe(cmd.Element, cmd.Time, cmd.To)
	case OpRemoveKeyframe:
		store.RemoveKeyframe(cmd.Element, cmd.Time)
	case OpRemoveProps:
		store.RemoveAnimationProperties(cmd.Element, cmd.Time, cmd.PropertyKeys()...)
	case OpPlay:
		store.SetPlaying(true)
	case OpPause:
		store.SetPlaying(false)
	case OpStop:
		store.Stop()
	case OpSeek:
		if cmd.Percent != nil {
			store.SeekPercent(*cmd.Percent)
		} else {
			store.SetCurrentTime(cmd.Time)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
	tracer().Debugf("applied command %s", cmd.Op)
	return nil
}

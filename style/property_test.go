package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyMapInsertionOrder(t *testing.T) {
	m := Properties("opacity", "0", "color", "red", "width", "10px")
	assert.Equal(t, []string{"opacity", "color", "width"}, m.Keys())
	m = m.With("opacity", "1")
	assert.Equal(t, []string{"opacity", "color", "width"}, m.Keys(),
		"re-setting a key must keep its position")
	v, ok := m.Get("opacity")
	assert.True(t, ok)
	assert.Equal(t, Property("1"), v)
}

func TestPropertyMapIsCopyOnWrite(t *testing.T) {
	m := Properties("opacity", "0")
	n := m.With("color", "red")
	if m.Len() != 1 {
		t.Errorf("expected original map to keep 1 property, has %d", m.Len())
	}
	if n.Len() != 2 {
		t.Errorf("expected new map to have 2 properties, has %d", n.Len())
	}
	w := n.Without("opacity")
	assert.Equal(t, []string{"color"}, w.Keys())
	assert.Equal(t, 2, n.Len())
}

func TestPropertyMapMerge(t *testing.T) {
	m := Properties("opacity", "0", "color", "red")
	merged := m.Merge(Properties("color", "blue", "top", "4px"))
	assert.Equal(t, "{opacity: 0; color: blue; top: 4px}", merged.String())
	assert.Equal(t, "{opacity: 0; color: red}", m.String())
	assert.True(t, m.Merge(PropertyMap{}).Equal(m))
}

func TestZeroPropertyMap(t *testing.T) {
	var m PropertyMap
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.IsSet("opacity"))
	m = m.With("opacity", "1")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, m, m.With("  ", "x"), "blank keys are ignored")
}

func TestGroupNames(t *testing.T) {
	if g := GroupNameFromPropertyKey("opacity"); g != PGAppearance {
		t.Errorf("expected opacity to be in group Appearance, is %s", g)
	}
	if g := GroupNameFromPropertyKey("line-height"); g != PGX {
		t.Errorf("expected unknown key to be in group X, is %s", g)
	}
	groups := EditorGroups()
	assert.Len(t, groups, 4)
	assert.Equal(t, PGTransform, groups[0].Name)
	groups[0].Keys[0] = "mutated"
	assert.Equal(t, "translateX", EditorGroups()[0].Keys[0])
}

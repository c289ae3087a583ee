package cssom_test

import (
	"testing"

	"github.com/npillmayer/keyframer/cssom"
	"github.com/npillmayer/keyframer/cssom/douceuradapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimatedRules(t *testing.T) {
	sheet, err := douceuradapter.Parse(`
.box { animation: animation_box 2s linear infinite; }
.plain { color: red; }
.off { animation: none; }
.named { animation-name: spin; animation-duration: 1s; }
.late { animation: 300ms ease-in 1s 2 reverse both paused slide; }
`)
	require.NoError(t, err)
	rules := cssom.AnimatedRules(sheet, nil)
	require.Len(t, rules, 3)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i], _ = cssom.AnimationName(r)
	}
	assert.Equal(t, []string{"animation_box", "spin", "slide"}, names)
}

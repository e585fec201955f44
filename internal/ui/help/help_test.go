package help

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
	"github.com/stretchr/testify/assert"
)

func TestGetSyntaxKeys(t *testing.T) {
	var keys []string
	for _, kb := range GetSyntaxKeys() {
		keys = append(keys, kb.Key)
	}

	assert.Contains(t, keys, "not_")
	assert.Contains(t, keys, "null")
	assert.Contains(t, keys, "lt_ / gt_")
	assert.Contains(t, keys, "a_bt_b")
	assert.Contains(t, keys, "lk_*x*")
	assert.Contains(t, keys, "a|b")
}

func TestRender(t *testing.T) {
	out := Render(100, 40, theme.DefaultTheme())

	assert.True(t, strings.Contains(out, "Either a or b"))
	assert.True(t, strings.Contains(out, "Copy WHERE clause"))
}

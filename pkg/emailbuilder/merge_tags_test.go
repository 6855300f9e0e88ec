package emailbuilder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTagRenderer_Render(t *testing.T) {
	r := NewMergeTagRenderer()

	out, err := r.Render(context.Background(), "Hi {{ contact.first_name }}, <a href=\"{{ unsubscribe_url }}\">bye</a>", SampleMergeData())
	require.NoError(t, err)
	assert.Equal(t, `Hi Jane, <a href="https://example.com/unsubscribe">bye</a>`, out)

	out, err = r.Render(context.Background(), "{{ missing | default: 'friend' }}", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "friend", out)
}

func TestMergeTagRenderer_Limits(t *testing.T) {
	t.Run("oversized template", func(t *testing.T) {
		r := NewMergeTagRendererWithOptions(time.Second, 10)
		_, err := r.Render(context.Background(), strings.Repeat("x", 11), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds maximum")
	})

	t.Run("syntax error", func(t *testing.T) {
		r := NewMergeTagRenderer()
		_, err := r.Render(context.Background(), "{% if %}", nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := NewMergeTagRenderer()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		// a cancelled context may race with a fast render, so only the
		// error shape is checked when one is returned
		if _, err := r.Render(ctx, "{% for i in (1..100000) %}{{ i }}{% endfor %}", nil); err != nil {
			assert.Contains(t, err.Error(), "aborted")
		}
	})
}

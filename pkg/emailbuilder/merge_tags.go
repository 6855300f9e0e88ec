package emailbuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/osteele/liquid"
)

const (
	DefaultRenderTimeout   = 5 * time.Second
	DefaultMaxTemplateSize = 512 * 1024
)

// MergeTagRenderer renders Liquid merge tags such as {{ contact.first_name }}
// in exported HTML with a time limit, a size limit and panic recovery
type MergeTagRenderer struct {
	timeout time.Duration
	maxSize int
	engine  *liquid.Engine
}

// NewMergeTagRenderer creates a renderer with the default limits
func NewMergeTagRenderer() *MergeTagRenderer {
	return NewMergeTagRendererWithOptions(DefaultRenderTimeout, DefaultMaxTemplateSize)
}

// NewMergeTagRendererWithOptions creates a renderer with custom limits
func NewMergeTagRendererWithOptions(timeout time.Duration, maxSize int) *MergeTagRenderer {
	return &MergeTagRenderer{
		timeout: timeout,
		maxSize: maxSize,
		engine:  liquid.NewEngine(),
	}
}

// Render substitutes merge tags in content using data
func (r *MergeTagRenderer) Render(ctx context.Context, content string, data map[string]interface{}) (string, error) {
	if len(content) > r.maxSize {
		return "", fmt.Errorf("template size (%d bytes) exceeds maximum allowed size (%d bytes)", len(content), r.maxSize)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resultChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				errorChan <- fmt.Errorf("panic during merge tag rendering: %v", rec)
			}
		}()

		rendered, err := r.engine.ParseAndRenderString(content, data)
		if err != nil {
			errorChan <- fmt.Errorf("merge tag rendering failed: %w", err)
			return
		}
		resultChan <- rendered
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errorChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("merge tag rendering aborted after %v: %w", r.timeout, ctx.Err())
	}
}

// SampleMergeData is the data used for previews when the caller supplies none
func SampleMergeData() map[string]interface{} {
	return map[string]interface{}{
		"contact": map[string]interface{}{
			"email":      "jane.doe@example.com",
			"first_name": "Jane",
			"last_name":  "Doe",
		},
		"unsubscribe_url": "https://example.com/unsubscribe",
	}
}

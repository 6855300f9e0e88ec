package tracing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

type recordingExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	e.spans = append(e.spans, sd)
	e.mu.Unlock()
}

func (e *recordingExporter) byName(name string) *trace.SpanData {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.spans {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func withRecorder(t *testing.T) *recordingExporter {
	t.Helper()
	exp := &recordingExporter{}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(exp)
	t.Cleanup(func() { trace.UnregisterExporter(exp) })
	return exp
}

func TestServiceSpan(t *testing.T) {
	exp := withRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "CampaignService", "SaveCampaign")
	assert.Equal(t, span, trace.FromContext(ctx))
	EndSpan(span, nil)

	sd := exp.byName("CampaignService.SaveCampaign")
	require.NotNil(t, sd)
	assert.Equal(t, int32(trace.StatusCodeOK), sd.Status.Code)

	_, span = StartServiceSpan(context.Background(), "CampaignService", "DeleteCampaign")
	EndSpan(span, errors.New("boom"))

	sd = exp.byName("CampaignService.DeleteCampaign")
	require.NotNil(t, sd)
	assert.Equal(t, int32(trace.StatusCodeUnknown), sd.Status.Code)
	assert.Equal(t, "boom", sd.Status.Message)
}

func TestAddAttributeAndMarkSpanError(t *testing.T) {
	exp := withRecorder(t)

	// no span in context: must not panic
	AddAttribute(context.Background(), "k", "v")
	MarkSpanError(context.Background(), errors.New("ignored"))

	ctx, span := StartSpan(context.Background(), "attrs", trace.StringAttribute("campaign_id", "c1"))
	AddAttribute(ctx, "blocks", 12)
	AddAttribute(ctx, "cached", true)
	AddAttribute(ctx, "ratio", 0.5)
	AddAttribute(ctx, "other", struct{ A int }{1})
	MarkSpanError(ctx, nil)
	MarkSpanError(ctx, errors.New("invalid html"))
	span.End()

	sd := exp.byName("attrs")
	require.NotNil(t, sd)
	assert.Equal(t, "c1", sd.Attributes["campaign_id"])
	assert.Equal(t, int64(12), sd.Attributes["blocks"])
	assert.Equal(t, true, sd.Attributes["cached"])
	assert.Equal(t, 0.5, sd.Attributes["ratio"])
	assert.Equal(t, "{1}", sd.Attributes["other"])
	assert.Equal(t, "invalid html", sd.Status.Message)
}

package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"

	"github.com/Notifuse/campaign-builder/config"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(config.TracingConfig{Enabled: false, TraceExporter: "bogus"}, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInit_ExporterErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TracingConfig
		want string
	}{
		{"unknown trace exporter", config.TracingConfig{TraceExporter: "honeycomb"}, "unsupported trace exporter"},
		{"unknown metrics exporter", config.TracingConfig{MetricsExporter: "prometheus, statsd"}, "unsupported metrics exporter: statsd"},
		{"jaeger without endpoint", config.TracingConfig{TraceExporter: "jaeger"}, "jaeger endpoint"},
		{"zipkin without endpoint", config.TracingConfig{TraceExporter: "zipkin"}, "zipkin endpoint"},
		{"stackdriver without project", config.TracingConfig{TraceExporter: "stackdriver"}, "project id"},
		{"datadog without agent", config.TracingConfig{TraceExporter: "datadog"}, "agent address"},
		{"xray without region", config.TracingConfig{TraceExporter: "xray"}, "region"},
		{"stackdriver metrics without project", config.TracingConfig{MetricsExporter: "stackdriver"}, "project id"},
		{"datadog metrics without agent", config.TracingConfig{MetricsExporter: "datadog"}, "agent address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Enabled = true
			tt.cfg.ServiceName = "campaign-builder-test"
			tt.cfg.SamplingProbability = 1
			_, err := Init(tt.cfg, logger.NewTestLogger(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInit_Prometheus(t *testing.T) {
	p, err := Init(config.TracingConfig{
		Enabled:             true,
		ServiceName:         "campaign-builder-test",
		SamplingProbability: 1,
		TraceExporter:       "none",
		MetricsExporter:     "prometheus",
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.NotNil(t, view.Find("campaign_builder/export_latency"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestParseExporters(t *testing.T) {
	assert.Nil(t, ParseExporters(""))
	assert.Nil(t, ParseExporters("none"))
	assert.Equal(t, []string{"prometheus", "datadog"}, ParseExporters(" Prometheus , ,datadog,none"))
}

func TestHTTPClientTransport(t *testing.T) {
	exp := withRecorder(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: HTTPClientTransport(http.DefaultTransport)}
	resp, err := client.Get(srv.URL + "/hooks/revision")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.NotNil(t, exp.byName("GET /hooks/revision"))
}

func TestRecorders(t *testing.T) {
	require.NoError(t, RegisterBuilderViews())
	ctx := context.Background()

	RecordSave(ctx, nil)
	RecordSave(ctx, assert.AnError)
	RecordUpload(ctx, 2048)

	rows, err := view.RetrieveData("campaign_builder/revisions_saved_count")
	require.NoError(t, err)

	outcomes := map[string]bool{}
	for _, row := range rows {
		for _, tg := range row.Tags {
			outcomes[tg.Value] = true
		}
	}
	assert.True(t, outcomes["ok"])
	assert.True(t, outcomes["error"])
}

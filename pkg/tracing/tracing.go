package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contrib.go.opencensus.io/exporter/aws"
	"contrib.go.opencensus.io/exporter/jaeger"
	"contrib.go.opencensus.io/exporter/prometheus"
	"contrib.go.opencensus.io/exporter/stackdriver"
	"contrib.go.opencensus.io/exporter/zipkin"
	"contrib.go.opencensus.io/integrations/ocsql"
	datadog "github.com/DataDog/opencensus-go-exporter-datadog"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/Notifuse/campaign-builder/config"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

// Provider owns the registered exporters so they can be flushed on shutdown
type Provider struct {
	cfg       config.TracingConfig
	log       logger.Logger
	exporters []trace.Exporter
	views     []view.Exporter
	flushers  []func()
	stoppers  []func() error
	metricSrv *http.Server
}

// Init registers the configured exporters and views. A disabled config returns
// a Provider whose Shutdown is a no-op.
func Init(cfg config.TracingConfig, log logger.Logger) (*Provider, error) {
	p := &Provider{cfg: cfg, log: log}
	if !cfg.Enabled {
		return p, nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	if err := p.initTraceExporter(); err != nil {
		return nil, err
	}
	if err := p.initMetricsExporters(); err != nil {
		return nil, err
	}

	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		return nil, fmt.Errorf("failed to register HTTP server views: %w", err)
	}
	if err := view.Register(ocsql.DefaultViews...); err != nil {
		return nil, fmt.Errorf("failed to register database views: %w", err)
	}
	if err := RegisterBuilderViews(); err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"trace_exporter":   cfg.TraceExporter,
		"metrics_exporter": cfg.MetricsExporter,
	}).Info("OpenCensus initialized")
	return p, nil
}

// Shutdown flushes buffered spans and stops the metrics endpoint
func (p *Provider) Shutdown(ctx context.Context) error {
	for _, e := range p.exporters {
		trace.UnregisterExporter(e)
	}
	for _, e := range p.views {
		view.UnregisterExporter(e)
	}
	for _, flush := range p.flushers {
		flush()
	}

	var errs []error
	for _, stop := range p.stoppers {
		if err := stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.metricSrv != nil {
		if err := p.metricSrv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Provider) initTraceExporter() error {
	switch p.cfg.TraceExporter {
	case "jaeger":
		return p.initJaeger()
	case "zipkin":
		return p.initZipkin()
	case "stackdriver":
		return p.initStackdriverTrace()
	case "datadog":
		return p.initDatadogTrace()
	case "xray":
		return p.initXRay()
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", p.cfg.TraceExporter)
	}
}

// ParseExporters splits a comma-separated exporter list, dropping blanks and "none"
func ParseExporters(list string) []string {
	var out []string
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "none" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (p *Provider) initMetricsExporters() error {
	for _, exporter := range ParseExporters(p.cfg.MetricsExporter) {
		var err error
		switch exporter {
		case "prometheus":
			err = p.initPrometheus()
		case "stackdriver":
			err = p.initStackdriverMetrics()
		case "datadog":
			err = p.initDatadogMetrics()
		default:
			return fmt.Errorf("unsupported metrics exporter: %s", exporter)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize %s metrics exporter: %w", exporter, err)
		}
	}
	return nil
}

func (p *Provider) initJaeger() error {
	if p.cfg.JaegerEndpoint == "" {
		return errors.New("jaeger endpoint is required for the jaeger exporter")
	}

	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: p.cfg.JaegerEndpoint,
		Process:           jaeger.Process{ServiceName: p.cfg.ServiceName},
		OnError:           p.onError("jaeger"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	p.registerTrace(je)
	p.flushers = append(p.flushers, je.Flush)
	return nil
}

func (p *Provider) initZipkin() error {
	if p.cfg.ZipkinEndpoint == "" {
		return errors.New("zipkin endpoint is required for the zipkin exporter")
	}

	reporter := zipkinhttp.NewReporter(p.cfg.ZipkinEndpoint)
	p.registerTrace(zipkin.NewExporter(reporter, nil))
	p.stoppers = append(p.stoppers, reporter.Close)
	return nil
}

func (p *Provider) initStackdriverTrace() error {
	if p.cfg.StackdriverProjectID == "" {
		return errors.New("stackdriver project id is required for the stackdriver exporter")
	}

	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID: p.cfg.StackdriverProjectID,
		OnError:   p.onError("stackdriver"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Stackdriver exporter: %w", err)
	}

	p.registerTrace(se)
	p.flushers = append(p.flushers, se.Flush)
	return nil
}

func (p *Provider) datadogExporter() (*datadog.Exporter, error) {
	if p.cfg.DatadogAgentAddress == "" {
		return nil, errors.New("datadog agent address is required for the datadog exporter")
	}
	return datadog.NewExporter(datadog.Options{
		Service:   p.cfg.ServiceName,
		TraceAddr: p.cfg.DatadogAgentAddress,
		StatsAddr: p.cfg.DatadogAgentAddress,
		OnError:   p.onError("datadog"),
	})
}

func (p *Provider) initDatadogTrace() error {
	exporter, err := p.datadogExporter()
	if err != nil {
		return fmt.Errorf("failed to create Datadog exporter: %w", err)
	}
	p.registerTrace(exporter)
	p.flushers = append(p.flushers, exporter.Stop)
	return nil
}

func (p *Provider) initXRay() error {
	if p.cfg.XRayRegion == "" {
		return errors.New("aws region is required for the x-ray exporter")
	}

	exporter, err := aws.NewExporter(
		aws.WithRegion(p.cfg.XRayRegion),
		aws.WithVersion("latest"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS X-Ray exporter: %w", err)
	}

	p.registerTrace(exporter)
	p.flushers = append(p.flushers, exporter.Flush)
	return nil
}

func (p *Provider) initPrometheus() error {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: strings.ReplaceAll(p.cfg.ServiceName, "-", "_"),
		OnError:   p.onError("prometheus"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	p.registerView(pe)

	if p.cfg.PrometheusPort <= 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", pe)
	p.metricSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", p.cfg.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		p.log.WithField("port", p.cfg.PrometheusPort).Info("Starting Prometheus metrics server")
		if err := p.metricSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.log.WithField("error", err.Error()).Error("Prometheus metrics server stopped")
		}
	}()
	return nil
}

func (p *Provider) initStackdriverMetrics() error {
	if p.cfg.StackdriverProjectID == "" {
		return errors.New("stackdriver project id is required for the stackdriver metrics exporter")
	}

	se, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:    p.cfg.StackdriverProjectID,
		MetricPrefix: p.cfg.ServiceName,
		OnError:      p.onError("stackdriver"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Stackdriver metrics exporter: %w", err)
	}
	p.registerView(se)
	p.flushers = append(p.flushers, se.Flush)
	return nil
}

func (p *Provider) initDatadogMetrics() error {
	exporter, err := p.datadogExporter()
	if err != nil {
		return fmt.Errorf("failed to create Datadog metrics exporter: %w", err)
	}
	p.registerView(exporter)
	p.flushers = append(p.flushers, exporter.Stop)
	return nil
}

func (p *Provider) registerTrace(e trace.Exporter) {
	trace.RegisterExporter(e)
	p.exporters = append(p.exporters, e)
}

func (p *Provider) registerView(e view.Exporter) {
	view.RegisterExporter(e)
	p.views = append(p.views, e)
}

func (p *Provider) onError(exporter string) func(error) {
	return func(err error) {
		p.log.WithField("exporter", exporter).WithField("error", err.Error()).Warn("Telemetry export failed")
	}
}

// HTTPClientTransport traces outgoing requests, naming spans after the path
func HTTPClientTransport(base http.RoundTripper) *ochttp.Transport {
	return &ochttp.Transport{
		Base: base,
		FormatSpanName: func(req *http.Request) string {
			return fmt.Sprintf("%s %s", req.Method, req.URL.Path)
		},
	}
}

// StartSpan starts a span with optional attributes
func StartSpan(ctx context.Context, name string, attrs ...trace.Attribute) (context.Context, *trace.Span) {
	ctx, span := trace.StartSpan(ctx, name)
	if len(attrs) > 0 {
		span.AddAttributes(attrs...)
	}
	return ctx, span
}

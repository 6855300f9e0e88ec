package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	ExportLatency    = stats.Float64("campaign_builder/export_latency", "HTML export latency", stats.UnitMilliseconds)
	RevisionsSaved   = stats.Int64("campaign_builder/revisions_saved", "Revisions persisted", stats.UnitDimensionless)
	AssetUploadBytes = stats.Int64("campaign_builder/asset_upload_bytes", "Bytes uploaded to the asset bucket", stats.UnitBytes)

	// KeyCacheResult is "hit" or "miss" on export measurements
	KeyCacheResult = tag.MustNewKey("cache_result")
	// KeyOutcome is "ok" or "error"
	KeyOutcome = tag.MustNewKey("outcome")
)

// BuilderViews aggregate the editor's own measures
var BuilderViews = []*view.View{
	{
		Name:        "campaign_builder/export_latency",
		Measure:     ExportLatency,
		Description: "Distribution of HTML export latency",
		TagKeys:     []tag.Key{KeyCacheResult},
		Aggregation: view.Distribution(0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500),
	},
	{
		Name:        "campaign_builder/revisions_saved_count",
		Measure:     RevisionsSaved,
		Description: "Count of save attempts by outcome",
		TagKeys:     []tag.Key{KeyOutcome},
		Aggregation: view.Count(),
	},
	{
		Name:        "campaign_builder/asset_upload_bytes",
		Measure:     AssetUploadBytes,
		Description: "Distribution of uploaded asset sizes",
		Aggregation: view.Distribution(1<<10, 16<<10, 128<<10, 1<<20, 4<<20, 10<<20),
	},
}

func RegisterBuilderViews() error {
	if err := view.Register(BuilderViews...); err != nil {
		return fmt.Errorf("failed to register builder views: %w", err)
	}
	return nil
}

// RecordExport records how long an export took and whether the cache served it
func RecordExport(ctx context.Context, started time.Time, cacheHit bool) {
	result := "miss"
	if cacheHit {
		result = "hit"
	}
	ms := float64(time.Since(started)) / float64(time.Millisecond)
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyCacheResult, result)}, ExportLatency.M(ms))
}

// RecordSave counts a save attempt
func RecordSave(ctx context.Context, err error) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyOutcome, outcome(err))}, RevisionsSaved.M(1))
}

func RecordUpload(ctx context.Context, size int64) {
	stats.Record(ctx, AssetUploadBytes.M(size))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

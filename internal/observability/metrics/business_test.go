package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	before := testutil.ToFloat64(FeedFetchesTotal.WithLabelValues("https://metrics.test/a", "HOME", "success"))
	entriesBefore := testutil.ToFloat64(FeedEntriesTotal.WithLabelValues("https://metrics.test/a", "HOME"))

	RecordFeedFetch("https://metrics.test/a", "HOME", 120*time.Millisecond, 4)

	assert.Equal(t, before+1, testutil.ToFloat64(FeedFetchesTotal.WithLabelValues("https://metrics.test/a", "HOME", "success")))
	assert.Equal(t, entriesBefore+4, testutil.ToFloat64(FeedEntriesTotal.WithLabelValues("https://metrics.test/a", "HOME")))
}

func TestRecordFeedFetch_ZeroEntries(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordFeedFetch("https://metrics.test/empty", "UK", 0, 0)
	})
}

func TestRecordFeedFetchError(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{name: "transient", kind: "transient"},
		{name: "not found", kind: "not_found"},
		{name: "malformed", kind: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(FeedFetchErrors.WithLabelValues("https://metrics.test/b", tt.kind))
			RecordFeedFetchError("https://metrics.test/b", "WORLD", tt.kind)
			assert.Equal(t, before+1, testutil.ToFloat64(FeedFetchErrors.WithLabelValues("https://metrics.test/b", tt.kind)))
		})
	}
}

func TestRecordArticleExtraction(t *testing.T) {
	success := testutil.ToFloat64(ArticleExtractionsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(ArticleExtractionsTotal.WithLabelValues("failure"))

	RecordArticleExtracted(300*time.Millisecond, 2048)
	RecordArticleExtractionFailed(50 * time.Millisecond)

	assert.Equal(t, success+1, testutil.ToFloat64(ArticleExtractionsTotal.WithLabelValues("success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(ArticleExtractionsTotal.WithLabelValues("failure")))
}

func TestRecordOrchestrationRun(t *testing.T) {
	before := testutil.ToFloat64(OrchestrationRunsTotal.WithLabelValues("done"))

	RecordOrchestrationRun("done", 2*time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(OrchestrationRunsTotal.WithLabelValues("done")))
}

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/foodweb/pkg/observability"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.BuildsTotal == nil || r.SessionAppliesTotal == nil || r.CacheRequestsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("NewRegistry() left metrics uninitialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestPipelineHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnBuild(ctx, 2, 3, 2, time.Millisecond)
	if got := testutil.ToFloat64(r.BuildsTotal); got != 1 {
		t.Errorf("BuildsTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.GraphNodes); got != 3 {
		t.Errorf("GraphNodes = %v, want 3", got)
	}

	r.OnLayoutStart(ctx, "default", 3)
	if got := testutil.ToFloat64(r.LayoutsInFlight); got != 1 {
		t.Errorf("LayoutsInFlight = %v, want 1", got)
	}
	r.OnLayoutComplete(ctx, "default", 120, time.Second, nil)
	r.OnLayoutStart(ctx, "default", 3)
	r.OnLayoutComplete(ctx, "default", 0, time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(r.LayoutsInFlight); got != 0 {
		t.Errorf("LayoutsInFlight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.LayoutsTotal.WithLabelValues("default", "error")); got != 1 {
		t.Errorf("LayoutsTotal{error} = %v, want 1", got)
	}

	r.OnRenderStart(ctx, []string{"svg", "png"})
	r.OnRenderComplete(ctx, []string{"svg", "png"}, time.Second, nil)
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("png", "success")); got != 1 {
		t.Errorf("RendersTotal{png} = %v, want 1", got)
	}
}

func TestSessionHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnApply(ctx, "physics", "construct", time.Millisecond, nil)
	r.OnApply(ctx, "physics", "update", time.Millisecond, nil)
	r.OnApply(ctx, "physics", "update", time.Millisecond, errors.New("x"))
	r.OnReorganize(ctx, "physics", true)
	r.OnReorganize(ctx, "physics", false)
	r.OnStabilized(ctx, "physics", 200, true)

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"construct", testutil.ToFloat64(r.SessionAppliesTotal.WithLabelValues("physics", "construct", "success")), 1},
		{"update error", testutil.ToFloat64(r.SessionAppliesTotal.WithLabelValues("physics", "update", "error")), 1},
		{"reorganize accepted", testutil.ToFloat64(r.ReorganizeTotal.WithLabelValues("physics", "true")), 1},
		{"reorganize ignored", testutil.ToFloat64(r.ReorganizeTotal.WithLabelValues("physics", "false")), 1},
		{"stabilized", testutil.ToFloat64(r.StabilizationsTotal.WithLabelValues("physics", "true")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != tt.want {
				t.Errorf("value = %v, want %v", tt.value, tt.want)
			}
		})
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheHit(ctx, "artifact")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 512)
	if got := testutil.ToFloat64(r.CacheRequestsTotal.WithLabelValues("artifact", "miss")); got != 2 {
		t.Errorf("CacheRequestsTotal{miss} = %v, want 2", got)
	}

	r.OnRequest(ctx, "GET", "/api/graph")
	r.OnResponse(ctx, "GET", "/api/graph", 200, time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/graph", "200")); got != 1 {
		t.Errorf("HTTPRequestsTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("HTTPRequestsInFlight = %v, want 0", got)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()

	r := NewRegistry()
	r.Register()
	observability.Pipeline().OnBuild(context.Background(), 1, 1, 0, time.Millisecond)
	if got := testutil.ToFloat64(r.BuildsTotal); got != 1 {
		t.Errorf("BuildsTotal via observability = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnBuild(context.Background(), 1, 1, 0, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"foodweb_graph_builds_total 1", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Handler() output missing %q", want)
		}
	}
}

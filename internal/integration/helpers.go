//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fundquote/internal/testkit"
)

var (
	testDB    *sql.DB
	testCache *redis.Client
	testQueue *redis.Client
)

// resetTestData truncates the resolution ledger and flushes both Redis databases.
func resetTestData(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if err := testkit.TruncateResolutions(ctx, testDB); err != nil {
		t.Fatalf("failed to truncate resolutions: %v", err)
	}
	if err := testCache.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush cache redis: %v", err)
	}
	if err := testQueue.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush queue redis: %v", err)
	}
}

// testContext returns a context with a 30-second deadline tied to the test's cleanup.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// newUpstream starts fake providers with one known fund.
func newUpstream(t *testing.T) *testkit.Upstream {
	t.Helper()
	u := testkit.NewUpstream()
	t.Cleanup(u.Close)
	u.Set("110022", testkit.FundFixture{
		Name:     "E Fund Consumer Industry",
		NAV:      "3.2150",
		AccNAV:   "5.8710",
		Date:     "2026-10-16",
		Estimate: "3.2391",
		Change:   "0.75",
	})
	return u
}

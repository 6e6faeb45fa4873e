//go:build integration

package integration

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"fundquote/internal/testkit"
)

func TestMain(m *testing.M) {
	testkit.Run(m, func(ctx context.Context) error {
		var err error
		testDB, err = testkit.OpenMigrated(ctx, testkit.Global().PostgresDSN(), zap.NewNop().Sugar())
		if err != nil {
			return err
		}

		rm := testkit.Global().Redis()
		testCache = rm.CacheClient()
		if err := testCache.Ping(ctx).Err(); err != nil {
			return err
		}
		testQueue = rm.QueueClient()
		return testQueue.Ping(ctx).Err()
	})
}

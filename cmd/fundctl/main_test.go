package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fundquote/internal/fund"
	"fundquote/internal/history"
	"fundquote/internal/provider"
	"fundquote/internal/service"
	"fundquote/internal/testkit"
)

func fakeFactory(t *testing.T, u *testkit.Upstream) serviceFactory {
	return func(bool) (service.FundServiceInterface, error) {
		failover, f10, err := provider.Build(provider.Options{Timeout: 2 * time.Second, Endpoints: u.Endpoints()})
		require.NoError(t, err)
		log := zap.NewNop().Sugar()
		return service.NewFundService(failover, history.NewEngine(f10, log), nil, nil, service.NewValidator(), log, 30), nil
	}
}

func run(t *testing.T, u *testkit.Upstream, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(fakeFactory(t, u), &out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func newFakeUpstream(t *testing.T) *testkit.Upstream {
	u := testkit.NewUpstream()
	t.Cleanup(u.Close)
	u.Set("110022", testkit.FundFixture{
		Name: "E Fund Consumer Industry", NAV: "3.2150", AccNAV: "5.8710",
		Date: "2026-10-16", Estimate: "3.2391", Change: "0.75",
	})
	return u
}

func TestQuoteCommand(t *testing.T) {
	u := newFakeUpstream(t)

	out, _, err := run(t, u, "quote", "110022", "--source", "danjuan")
	require.NoError(t, err)

	var q fund.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, provider.Danjuan, q.Source)
	assert.Equal(t, "E Fund Consumer Industry", q.Name)
	assert.Equal(t, fund.Numeric("3.2150"), q.NetValue)
}

func TestQuoteCommand_AllFail(t *testing.T) {
	u := newFakeUpstream(t)

	_, errOut, err := run(t, u, "quote", "999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sources unavailable")

	var attempts []fund.Attempt
	require.NoError(t, json.Unmarshal([]byte(errOut), &attempts))
	assert.Len(t, attempts, 5)
}

func TestQuoteCommand_InvalidCode(t *testing.T) {
	u := newFakeUpstream(t)
	_, _, err := run(t, u, "quote", "bad code!")
	assert.ErrorIs(t, err, service.ErrInvalidCode)
	assert.Zero(t, u.Hits(provider.Tiantian))
}

func TestHistoryCommand(t *testing.T) {
	u := newFakeUpstream(t)

	out, _, err := run(t, u, "history", "110022", "--days", "10")
	require.NoError(t, err)

	var res fund.HistoryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "110022", res.Code)
	require.Len(t, res.History, 1)
	assert.Equal(t, "2026-10-16", res.History[0].Date)

	_, _, err = run(t, u, "history", "110022", "--days", "0")
	assert.Error(t, err)
}

func TestProvidersCommand(t *testing.T) {
	out, _, err := run(t, newFakeUpstream(t), "providers")
	require.NoError(t, err)

	var infos []provider.Info
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 5)
	assert.Equal(t, provider.Tiantian, infos[0].ID)
	assert.Equal(t, "F10 NAV table page", infos[4].Description)
}

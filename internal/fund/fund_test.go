package fund

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Numeric `json:"a"`
		B Numeric `json:"b"`
		C Numeric `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"1.2340","b":1.5,"c":null}`), &v)
	require.NoError(t, err)

	assert.Equal(t, Numeric("1.2340"), v.A)
	assert.Equal(t, Numeric("1.5"), v.B)
	assert.True(t, v.C.IsEmpty())

	d, err := v.A.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "1.234", d.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1.2340","b":"1.5","c":""}`, string(out))
}

func TestQuote_Validate(t *testing.T) {
	q := Quote{Code: "110022", NetValue: "1.0", EstimateValue: "1.1"}
	assert.NoError(t, q.Validate())

	q.EstimateValue = ""
	assert.Error(t, q.Validate())

	q = Quote{NetValue: "1.0", EstimateValue: "1.1"}
	assert.Error(t, q.Validate())
}

func TestFailure_Is(t *testing.T) {
	cause := errors.New("connection refused")
	f := TransportFailure("tiantian", cause, "request failed")

	assert.True(t, errors.Is(f, ErrTransport))
	assert.False(t, errors.Is(f, ErrParse))
	assert.True(t, errors.Is(f, cause))
	assert.Equal(t, "tiantian: request failed: connection refused", f.Error())
	assert.Equal(t, "request failed: connection refused", f.Reason())

	nf := NotFoundFailure("danjuan", "no items")
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.Equal(t, "no items", nf.Reason())
}

func TestAsFailure(t *testing.T) {
	pf := ParseFailure("eastmoney_f10", nil, "no nav cell")
	assert.Same(t, pf, AsFailure("other", pf))

	f := AsFailure("danjuan", errors.New("boom"))
	assert.Equal(t, KindTransport, f.Kind)
	assert.Equal(t, "danjuan", f.Provider)
}

func TestAggregateFailure_Error(t *testing.T) {
	agg := &AggregateFailure{
		Code: "000001",
		Attempts: []Attempt{
			{Provider: "a", DisplayName: "Source A", Kind: KindTransport, Message: "status 502"},
			{Provider: "b", DisplayName: "Source B", Kind: KindNotFound, Message: "no data"},
		},
	}
	assert.Equal(t, "all sources unavailable: Source A: status 502; Source B: no data", agg.Error())
}

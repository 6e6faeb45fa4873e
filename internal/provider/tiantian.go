package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"fundquote/internal/fund"
)

const DefaultTiantianBaseURL = "https://fundgz.1234567.com.cn"

var jsonpgzPattern = regexp.MustCompile(`jsonpgz\((.*)\)`)

type tiantianPayload struct {
	FundCode       string       `json:"fundcode"`
	Name           string       `json:"name"`
	NetValueDate   string       `json:"jzrq"`
	NetValue       fund.Numeric `json:"dwjz"`
	Estimate       fund.Numeric `json:"gsz"`
	EstimateChange fund.Numeric `json:"gszzl"`
	EstimateTime   string       `json:"gztime"`
}

// TiantianProvider reads the intraday estimate JSONP script. It doubles as the name resolver for the other adapters.
type TiantianProvider struct {
	baseURL string
	client  *Client
	now     func() time.Time
}

func NewTiantianProvider(baseURL string, client *Client) *TiantianProvider {
	if baseURL == "" {
		baseURL = DefaultTiantianBaseURL
	}
	return &TiantianProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

func (p *TiantianProvider) ID() fund.ProviderID { return Tiantian }

func (p *TiantianProvider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	payload, err := p.fetch(ctx, code)
	if err != nil {
		return nil, err
	}
	if payload.NetValue.IsEmpty() {
		return nil, fund.ParseFailure(string(Tiantian), nil, "payload has no dwjz")
	}

	estimate := payload.Estimate
	if estimate.IsEmpty() {
		estimate = payload.NetValue
	}

	return validated(Tiantian, &fund.Quote{
		Code:           firstNonEmpty(payload.FundCode, code),
		Name:           firstNonEmpty(payload.Name, code),
		NetValue:       payload.NetValue,
		NetValueDate:   payload.NetValueDate,
		EstimateValue:  estimate,
		EstimateChange: firstPercent(payload.EstimateChange.String()),
		UpdateTime:     payload.EstimateTime,
		Source:         Tiantian,
	})
}

// ResolveName returns the fund name published in the estimate script.
func (p *TiantianProvider) ResolveName(ctx context.Context, code string) (string, error) {
	payload, err := p.fetch(ctx, code)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Name) == "" {
		return "", fund.NotFoundFailure(string(Tiantian), "no name for %s", code)
	}
	return payload.Name, nil
}

func (p *TiantianProvider) fetch(ctx context.Context, code string) (*tiantianPayload, error) {
	reqURL := fmt.Sprintf("%s/js/%s.js?rt=%d", p.baseURL, url.PathEscape(code), p.now().UnixMilli())
	body, err := p.client.get(ctx, Tiantian, reqURL, true)
	if err != nil {
		return nil, err
	}
	return parseTiantian(body)
}

func parseTiantian(body []byte) (*tiantianPayload, error) {
	m := jsonpgzPattern.FindSubmatch(body)
	if m == nil {
		return nil, fund.ParseFailure(string(Tiantian), nil, "jsonpgz callback not found")
	}
	inner := bytes.TrimSpace(m[1])
	if len(inner) == 0 {
		return nil, fund.NotFoundFailure(string(Tiantian), "empty estimate payload")
	}

	var payload tiantianPayload
	if err := json.Unmarshal(inner, &payload); err != nil {
		return nil, fund.ParseFailure(string(Tiantian), err, "decode estimate payload")
	}
	return &payload, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"fundquote/internal/fund"
)

const DefaultDanjuanBaseURL = "https://danjuanfunds.com"

type danjuanResponse struct {
	ResultCode *int `json:"result_code"`
	Data       *struct {
		Items []struct {
			Date    string       `json:"date"`
			NAV     fund.Numeric `json:"gr_nav"`
			Percent fund.Numeric `json:"gr_per"`
		} `json:"items"`
	} `json:"data"`
}

// DanjuanProvider reads the Danjuan NAV history REST endpoint.
type DanjuanProvider struct {
	baseURL string
	client  *Client
	names   NameResolver
}

func NewDanjuanProvider(baseURL string, client *Client, names NameResolver) *DanjuanProvider {
	if baseURL == "" {
		baseURL = DefaultDanjuanBaseURL
	}
	return &DanjuanProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client, names: names}
}

func (p *DanjuanProvider) ID() fund.ProviderID { return Danjuan }

func (p *DanjuanProvider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	reqURL := fmt.Sprintf("%s/djapi/fund/nav-history/%s?size=1&page=1", p.baseURL, url.PathEscape(code))
	body, err := p.client.get(ctx, Danjuan, reqURL, false)
	if err != nil {
		return nil, err
	}

	var resp danjuanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fund.ParseFailure(string(Danjuan), err, "decode response")
	}
	if resp.ResultCode == nil || *resp.ResultCode != 0 {
		return nil, fund.NotFoundFailure(string(Danjuan), "non-zero result_code")
	}
	if resp.Data == nil || len(resp.Data.Items) == 0 {
		return nil, fund.NotFoundFailure(string(Danjuan), "no nav items in response")
	}
	item := resp.Data.Items[0]
	if item.NAV.IsEmpty() {
		return nil, fund.ParseFailure(string(Danjuan), nil, "item has no gr_nav")
	}

	return validated(Danjuan, &fund.Quote{
		Code:           code,
		Name:           displayName(ctx, p.names, code),
		NetValue:       item.NAV,
		NetValueDate:   item.Date,
		EstimateValue:  item.NAV,
		EstimateChange: firstPercent(item.Percent.String()),
		UpdateTime:     closingTime(item.Date),
		Source:         Danjuan,
	})
}

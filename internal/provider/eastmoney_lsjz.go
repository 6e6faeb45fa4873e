package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"fundquote/internal/fund"
)

const DefaultEastmoneyLSJZBaseURL = "https://api.fund.eastmoney.com"

var jqueryPattern = regexp.MustCompile(`jQuery\((.*)\)`)

type lsjzResponse struct {
	Data *struct {
		LSJZList []struct {
			FSRQ  string       `json:"FSRQ"`
			DWJZ  fund.Numeric `json:"DWJZ"`
			JZZZL fund.Numeric `json:"JZZZL"`
		} `json:"LSJZList"`
	} `json:"Data"`
}

// EastmoneyLSJZProvider reads the latest row of the paged NAV history API.
type EastmoneyLSJZProvider struct {
	baseURL string
	client  *Client
	names   NameResolver
}

func NewEastmoneyLSJZProvider(baseURL string, client *Client, names NameResolver) *EastmoneyLSJZProvider {
	if baseURL == "" {
		baseURL = DefaultEastmoneyLSJZBaseURL
	}
	return &EastmoneyLSJZProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client, names: names}
}

func (p *EastmoneyLSJZProvider) ID() fund.ProviderID { return EastmoneyLSJZ }

func (p *EastmoneyLSJZProvider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	reqURL := fmt.Sprintf("%s/f10/lsjz?callback=jQuery&fundCode=%s&pageIndex=1&pageSize=1",
		p.baseURL, url.QueryEscape(code))
	body, err := p.client.get(ctx, EastmoneyLSJZ, reqURL, true)
	if err != nil {
		return nil, err
	}

	m := jqueryPattern.FindSubmatch(body)
	if m == nil {
		return nil, fund.ParseFailure(string(EastmoneyLSJZ), nil, "jQuery callback not found")
	}
	var resp lsjzResponse
	if err := json.Unmarshal(m[1], &resp); err != nil {
		return nil, fund.ParseFailure(string(EastmoneyLSJZ), err, "decode callback payload")
	}
	if resp.Data == nil || len(resp.Data.LSJZList) == 0 {
		return nil, fund.NotFoundFailure(string(EastmoneyLSJZ), "no LSJZList rows")
	}
	row := resp.Data.LSJZList[0]
	if row.DWJZ.IsEmpty() {
		return nil, fund.ParseFailure(string(EastmoneyLSJZ), nil, "row has no DWJZ")
	}

	return validated(EastmoneyLSJZ, &fund.Quote{
		Code:           code,
		Name:           displayName(ctx, p.names, code),
		NetValue:       row.DWJZ,
		NetValueDate:   row.FSRQ,
		EstimateValue:  row.DWJZ,
		EstimateChange: firstPercent(row.JZZZL.String()),
		UpdateTime:     closingTime(row.FSRQ),
		Source:         EastmoneyLSJZ,
	})
}

// closingTime marks a NAV date with the market close.
func closingTime(date string) string {
	if date == "" {
		return ""
	}
	return date + " 15:00"
}

package provider

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"fundquote/internal/fund"
)

const DefaultEastmoneyF10BaseURL = "https://fund.eastmoney.com"

var (
	f10DatePattern   = regexp.MustCompile(`<td[^>]*>(\d{4}-\d{2}-\d{2})</td>`)
	f10NAVPattern    = regexp.MustCompile(`<td[^>]*class='tor bold'[^>]*>([0-9.]+)</td>`)
	f10ChangePattern = regexp.MustCompile(`<td[^>]*class='tor bold (grn|red)'[^>]*>([+-]?[0-9.]+)%</td>`)
)

// EastmoneyF10Provider scrapes the F10 NAV table fragment. It also serves history pages.
type EastmoneyF10Provider struct {
	baseURL string
	client  *Client
	names   NameResolver
}

func NewEastmoneyF10Provider(baseURL string, client *Client, names NameResolver) *EastmoneyF10Provider {
	if baseURL == "" {
		baseURL = DefaultEastmoneyF10BaseURL
	}
	return &EastmoneyF10Provider{baseURL: strings.TrimRight(baseURL, "/"), client: client, names: names}
}

func (p *EastmoneyF10Provider) ID() fund.ProviderID { return EastmoneyF10 }

func (p *EastmoneyF10Provider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	page, err := p.FetchHistoryPage(ctx, code, 1)
	if err != nil {
		return nil, err
	}
	text := string(page)

	date := f10DatePattern.FindStringSubmatch(text)
	if date == nil {
		return nil, fund.ParseFailure(string(EastmoneyF10), nil, "no date cell in table")
	}
	nav := f10NAVPattern.FindStringSubmatch(text)
	if nav == nil {
		return nil, fund.ParseFailure(string(EastmoneyF10), nil, "no nav cell in table")
	}
	var change float64
	if m := f10ChangePattern.FindStringSubmatch(text); m != nil {
		change = firstPercent(m[2])
	}

	return validated(EastmoneyF10, &fund.Quote{
		Code:           code,
		Name:           displayName(ctx, p.names, code),
		NetValue:       fund.Numeric(nav[1]),
		NetValueDate:   date[1],
		EstimateValue:  fund.Numeric(nav[1]),
		EstimateChange: change,
		UpdateTime:     closingTime(date[1]),
		Source:         EastmoneyF10,
	})
}

// FetchHistoryPage downloads the first page of the NAV table with per rows.
func (p *EastmoneyF10Provider) FetchHistoryPage(ctx context.Context, code string, per int) ([]byte, error) {
	if per < 1 {
		per = 1
	}
	reqURL := fmt.Sprintf("%s/f10/F10DataApi.aspx?type=lsjz&code=%s&page=1&per=%d",
		p.baseURL, url.QueryEscape(code), per)
	return p.client.get(ctx, EastmoneyF10, reqURL, true)
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"fundquote/internal/fund"
)

const DefaultEastmoneyMobileBaseURL = "https://fundmobapi.eastmoney.com"

type mobileResponse struct {
	Datas     []mobileRecord  `json:"Datas"`
	Expansion json.RawMessage `json:"Expansion"`
}

type mobileRecord struct {
	FCODE     string       `json:"FCODE"`
	SHORTNAME string       `json:"SHORTNAME"`
	PDATE     string       `json:"PDATE"`
	NAV       fund.Numeric `json:"NAV"`
	NAVCHGRT  fund.Numeric `json:"NAVCHGRT"`
	GSZ       fund.Numeric `json:"GSZ"`
	GSZZL     fund.Numeric `json:"GSZZL"`
}

type mobileExpansion struct {
	FSRQ string `json:"FSRQ"`
}

// EastmoneyMobileProvider reads the mobile app aggregate endpoint.
type EastmoneyMobileProvider struct {
	baseURL string
	client  *Client
	names   NameResolver
}

func NewEastmoneyMobileProvider(baseURL string, client *Client, names NameResolver) *EastmoneyMobileProvider {
	if baseURL == "" {
		baseURL = DefaultEastmoneyMobileBaseURL
	}
	return &EastmoneyMobileProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client, names: names}
}

func (p *EastmoneyMobileProvider) ID() fund.ProviderID { return EastmoneyMobile }

func (p *EastmoneyMobileProvider) FetchQuote(ctx context.Context, code string) (*fund.Quote, error) {
	reqURL := fmt.Sprintf(
		"%s/FundMNewApi/FundMNFInfo?plat=Android&appType=ttjj&product=EFund&Version=1&deviceid=1&Fcodes=%s",
		p.baseURL, url.QueryEscape(code))
	body, err := p.client.get(ctx, EastmoneyMobile, reqURL, false)
	if err != nil {
		return nil, err
	}

	var resp mobileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fund.ParseFailure(string(EastmoneyMobile), err, "decode response")
	}
	if len(resp.Datas) == 0 {
		return nil, fund.NotFoundFailure(string(EastmoneyMobile), "no Datas entries")
	}
	rec := resp.Datas[0]
	if rec.NAV.IsEmpty() {
		return nil, fund.ParseFailure(string(EastmoneyMobile), nil, "record has no NAV")
	}

	estimate := rec.GSZ
	if estimate.IsEmpty() {
		estimate = rec.NAV
	}

	name := rec.SHORTNAME
	if strings.TrimSpace(name) == "" {
		name = displayName(ctx, p.names, code)
	}

	return validated(EastmoneyMobile, &fund.Quote{
		Code:           firstNonEmpty(rec.FCODE, code),
		Name:           name,
		NetValue:       rec.NAV,
		NetValueDate:   rec.PDATE,
		EstimateValue:  estimate,
		EstimateChange: firstPercent(rec.GSZZL.String(), rec.NAVCHGRT.String()),
		UpdateTime:     firstNonEmpty(expansionDate(resp.Expansion), rec.PDATE),
		Source:         EastmoneyMobile,
	})
}

// expansionDate reads Expansion.FSRQ when Expansion is an object.
func expansionDate(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var exp mobileExpansion
	if err := json.Unmarshal(raw, &exp); err != nil {
		return ""
	}
	return exp.FSRQ
}

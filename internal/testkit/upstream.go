package testkit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"fundquote/internal/fund"
	"fundquote/internal/provider"
)

// FundFixture is what the fake upstreams report for one fund code.
type FundFixture struct {
	Name     string
	NAV      string // latest unit NAV, e.g. "1.2345"
	AccNAV   string
	Date     string // latest NAV date, e.g. "2026-10-16"
	Estimate string // tiantian intraday estimate
	Change   string // percent, e.g. "-0.42"
}

// Upstream emulates all five fund data providers behind one httptest server.
// Each adapter's request path is distinct, so every endpoint can point at URL().
type Upstream struct {
	srv *httptest.Server

	mu    sync.Mutex
	funds map[string]FundFixture
	down  map[fund.ProviderID]bool
	hits  map[fund.ProviderID]int
}

// NewUpstream starts the fake server. Call Close when done.
func NewUpstream() *Upstream {
	u := &Upstream{
		funds: make(map[string]FundFixture),
		down:  make(map[fund.ProviderID]bool),
		hits:  make(map[fund.ProviderID]int),
	}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// URL is the base URL for every provider endpoint.
func (u *Upstream) URL() string { return u.srv.URL }

// Endpoints points every adapter at the fake server.
func (u *Upstream) Endpoints() provider.Endpoints {
	return provider.Endpoints{
		Tiantian:        u.srv.URL,
		EastmoneyMobile: u.srv.URL,
		EastmoneyLSJZ:   u.srv.URL,
		Danjuan:         u.srv.URL,
		EastmoneyF10:    u.srv.URL,
	}
}

// Close shuts the server down.
func (u *Upstream) Close() { u.srv.Close() }

// Set registers a fund.
func (u *Upstream) Set(code string, f FundFixture) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.funds[code] = f
}

// Down makes a provider answer 503 until Up is called.
func (u *Upstream) Down(ids ...fund.ProviderID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, id := range ids {
		u.down[id] = true
	}
}

// Up restores every provider.
func (u *Upstream) Up() {
	u.mu.Lock()
	defer u.mu.Unlock()
	clear(u.down)
}

// Hits returns how many requests a provider has served, failures included.
func (u *Upstream) Hits(id fund.ProviderID) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[id]
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	id, code := route(r)
	if id == "" {
		http.NotFound(w, r)
		return
	}

	u.mu.Lock()
	u.hits[id]++
	down := u.down[id]
	f, known := u.funds[code]
	u.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	var body string
	switch id {
	case provider.Tiantian:
		body = "jsonpgz();"
		if known {
			body = fmt.Sprintf(`jsonpgz({"fundcode":%q,"name":%q,"jzrq":%q,"dwjz":%q,"gsz":%q,"gszzl":%q,"gztime":"%s 14:30"});`,
				code, f.Name, f.Date, f.NAV, f.Estimate, f.Change, f.Date)
		}
	case provider.EastmoneyMobile:
		body = `{"Datas":[],"ErrCode":0}`
		if known {
			body = fmt.Sprintf(`{"Datas":[{"FCODE":%q,"SHORTNAME":%q,"PDATE":%q,"NAV":%q,"NAVCHGRT":%q,"GSZ":%q,"GSZZL":%q}],"Expansion":{"FSRQ":%q}}`,
				code, f.Name, f.Date, f.NAV, f.Change, f.Estimate, f.Change, f.Date)
		}
	case provider.EastmoneyLSJZ:
		body = `jQuery({"Data":{"LSJZList":[]},"ErrCode":0})`
		if known {
			body = fmt.Sprintf(`jQuery({"Data":{"LSJZList":[{"FSRQ":%q,"DWJZ":%q,"LJJZ":%q,"JZZZL":%q}]},"ErrCode":0})`,
				f.Date, f.NAV, f.AccNAV, f.Change)
		}
	case provider.Danjuan:
		body = `{"result_code":600001,"message":"fund not found"}`
		if known {
			body = fmt.Sprintf(`{"result_code":0,"data":{"items":[{"date":%q,"nav":%q,"gr_nav":%q,"gr_per":"%s%%"}]}}`,
				f.Date, f.NAV, f.NAV, f.Change)
		}
	case provider.EastmoneyF10:
		rows := ""
		if known {
			rows = fmt.Sprintf("<tr><td>%s</td><td class='tor bold'>%s</td><td class='tor bold'>%s</td><td class='tor bold %s'>%s%%</td></tr>",
				f.Date, f.NAV, f.AccNAV, changeClass(f.Change), f.Change)
		}
		body = `var apidata={ content:"<table class='w782 comm lsjz'><tbody>` + rows + `</tbody></table>",records:1,pages:1,curpage:1};`
	}
	_, _ = w.Write([]byte(body))
}

func route(r *http.Request) (fund.ProviderID, string) {
	p := r.URL.Path
	q := r.URL.Query()
	switch {
	case strings.HasPrefix(p, "/js/") && strings.HasSuffix(p, ".js"):
		return provider.Tiantian, strings.TrimSuffix(strings.TrimPrefix(p, "/js/"), ".js")
	case p == "/FundMNewApi/FundMNFInfo":
		return provider.EastmoneyMobile, q.Get("Fcodes")
	case p == "/f10/lsjz":
		return provider.EastmoneyLSJZ, q.Get("fundCode")
	case strings.HasPrefix(p, "/djapi/fund/nav-history/"):
		return provider.Danjuan, strings.TrimPrefix(p, "/djapi/fund/nav-history/")
	case p == "/f10/F10DataApi.aspx":
		return provider.EastmoneyF10, q.Get("code")
	}
	return "", ""
}

func changeClass(change string) string {
	if strings.HasPrefix(change, "-") {
		return "grn"
	}
	return "red"
}

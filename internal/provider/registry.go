package provider

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"fundquote/internal/fund"
)

// Registered provider identifiers.
const (
	Tiantian        fund.ProviderID = "tiantian"
	EastmoneyMobile fund.ProviderID = "eastmoney_mobile"
	EastmoneyLSJZ   fund.ProviderID = "eastmoney_lsjz"
	Danjuan         fund.ProviderID = "danjuan"
	EastmoneyF10    fund.ProviderID = "eastmoney_f10"
)

// Info is the static metadata of a provider.
type Info struct {
	ID          fund.ProviderID `json:"id" swaggertype:"string" example:"tiantian"`
	DisplayName string          `json:"name" example:"Tiantian Fund"`
	Rank        int             `json:"-"`
	Description string          `json:"description" example:"live intraday estimate"`
}

var defaultProviders = []Info{
	{ID: Tiantian, DisplayName: "Tiantian Fund", Rank: 1, Description: "live intraday estimate"},
	{ID: EastmoneyMobile, DisplayName: "Eastmoney (mobile)", Rank: 2, Description: "mobile aggregate API"},
	{ID: EastmoneyLSJZ, DisplayName: "Eastmoney (LSJZ)", Rank: 3, Description: "paged NAV history API"},
	{ID: Danjuan, DisplayName: "Danjuan Fund", Rank: 4, Description: "Danjuan NAV REST API"},
	{ID: EastmoneyF10, DisplayName: "Eastmoney (F10)", Rank: 5, Description: "F10 NAV table page"},
}

// Registry is an immutable, rank-ordered provider table.
type Registry struct {
	entries []Info
}

// NewRegistry builds a registry. Identifiers and ranks must be unique.
func NewRegistry(infos ...Info) (*Registry, error) {
	var errs []error
	ids := make(map[fund.ProviderID]struct{}, len(infos))
	ranks := make(map[int]fund.ProviderID, len(infos))
	for _, info := range infos {
		if info.ID == "" {
			errs = append(errs, errors.New("provider id is required"))
			continue
		}
		if _, dup := ids[info.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate provider id %q", info.ID))
		}
		if other, dup := ranks[info.Rank]; dup {
			errs = append(errs, fmt.Errorf("providers %q and %q share rank %d", other, info.ID, info.Rank))
		}
		ids[info.ID] = struct{}{}
		ranks[info.Rank] = info.ID
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	entries := slices.Clone(infos)
	slices.SortFunc(entries, func(a, b Info) int { return cmp.Compare(a.Rank, b.Rank) })
	return &Registry{entries: entries}, nil
}

// DefaultRegistry returns the five built-in providers.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultProviders...)
	if err != nil {
		panic(err)
	}
	return r
}

// OrderedProviders returns all identifiers by ascending rank, with a registered preferred provider moved first.
func (r *Registry) OrderedProviders(preferred fund.ProviderID) []fund.ProviderID {
	out := make([]fund.ProviderID, 0, len(r.entries))
	_, known := r.Lookup(preferred)
	if known {
		out = append(out, preferred)
	}
	for _, e := range r.entries {
		if known && e.ID == preferred {
			continue
		}
		out = append(out, e.ID)
	}
	return out
}

// List returns provider metadata by ascending rank.
func (r *Registry) List() []Info {
	return slices.Clone(r.entries)
}

// Lookup finds a provider by identifier.
func (r *Registry) Lookup(id fund.ProviderID) (Info, bool) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Info{}, false
}

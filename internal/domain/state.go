package domain

type ProductState string

func (s ProductState) String() string {
	return string(s)
}

const (
	ProductStateUnfetched ProductState = "unfetched"
	ProductStateFetching  ProductState = "fetching"
	ProductStateFound     ProductState = "found"   // Terminal, defaults applied
	ProductStateSkipped   ProductState = "skipped" // Terminal, hard failure
)

func (s ProductState) Terminal() bool {
	return s == ProductStateFound || s == ProductStateSkipped
}

type FetchMode string

func (m FetchMode) String() string {
	return string(m)
}

const (
	FetchModeDetail  FetchMode = "detail"  // Full attributes and gallery
	FetchModeSummary FetchMode = "summary" // Name, prices and cover image
)

var FetchModes = []FetchMode{
	FetchModeDetail,
	FetchModeSummary,
}

func (m FetchMode) Valid() bool {
	for _, mode := range FetchModes {
		if m == mode {
			return true
		}
	}
	return false
}

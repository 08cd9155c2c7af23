package enums

import "fmt"

// OfferSort selects the catalog ordering.
type OfferSort string

const (
	OfferSortNewest   OfferSort = "newest"
	OfferSortTrending OfferSort = "trending"
)

// ParseOfferSort defaults empty input to newest.
func ParseOfferSort(value string) (OfferSort, error) {
	switch OfferSort(value) {
	case "", OfferSortNewest:
		return OfferSortNewest, nil
	case OfferSortTrending:
		return OfferSortTrending, nil
	}
	return "", fmt.Errorf("invalid sort %q", value)
}

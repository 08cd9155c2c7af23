package enums

// AdStatus is derived at read time from the paid flag and the date range.
// It is never persisted.
type AdStatus string

const (
	AdStatusUnpaid    AdStatus = "unpaid"
	AdStatusScheduled AdStatus = "scheduled"
	AdStatusActive    AdStatus = "active"
	AdStatusExpired   AdStatus = "expired"
)

func (s AdStatus) String() string {
	return string(s)
}

package ads

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Pricing holds the placement tariff.
type Pricing struct {
	DayRateCents int64
	MaxDays      int
	Currency     string
}

// Quote is the price of a placement. Both dates are inclusive.
type Quote struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Days         int             `json:"days"`
	DayRateCents int64           `json:"day_rate_cents"`
	AmountCents  int64           `json:"amount_cents"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

// Day truncates an instant to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days in [start, end].
func DaysInclusive(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours()/24) + 1
}

// Price computes (days in range) * day rate. The range must already be valid.
func (p Pricing) Price(start, end time.Time) (int64, decimal.Decimal) {
	days := decimal.NewFromInt(int64(DaysInclusive(start, end)))
	cents := days.Mul(decimal.NewFromInt(p.DayRateCents))
	return cents.IntPart(), cents.Div(hundred).Round(2)
}

// Quote validates the requested range against today and prices it.
func (p Pricing) Quote(startRaw, endRaw string, today time.Time) (*Quote, error) {
	start, end, err := p.validateRange(startRaw, endRaw, today)
	if err != nil {
		return nil, err
	}
	cents, amount := p.Price(start, end)
	return &Quote{
		StartDate:    start.Format(dateLayout),
		EndDate:      end.Format(dateLayout),
		Days:         DaysInclusive(start, end),
		DayRateCents: p.DayRateCents,
		AmountCents:  cents,
		Amount:       amount,
		Currency:     p.Currency,
	}, nil
}

func (p Pricing) validateRange(startRaw, endRaw string, today time.Time) (time.Time, time.Time, error) {
	problems := map[string]string{}
	start, err := ParseDate(startRaw)
	if err != nil {
		problems["start_date"] = "must be YYYY-MM-DD"
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		problems["end_date"] = "must be YYYY-MM-DD"
	}
	if len(problems) == 0 {
		if end.Before(start) {
			problems["end_date"] = "must be on or after start_date"
		}
		if start.Before(Day(today)) {
			problems["start_date"] = "cannot be in the past"
		}
		if p.MaxDays > 0 && DaysInclusive(start, end) > p.MaxDays {
			problems["end_date"] = "placement is too long"
		}
	}
	if len(problems) > 0 {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid ad dates").WithDetails(problems)
	}
	return start, end, nil
}

// StatusOf derives the lifecycle status for the given day. Bounds are
// inclusive on both ends.
func StatusOf(paid bool, start, end, today time.Time) enums.AdStatus {
	if !paid {
		return enums.AdStatusUnpaid
	}
	day := Day(today)
	switch {
	case day.Before(Day(start)):
		return enums.AdStatusScheduled
	case day.After(Day(end)):
		return enums.AdStatusExpired
	default:
		return enums.AdStatusActive
	}
}

// IsActive reports whether a paid ad is showing on the given day.
func IsActive(paid bool, start, end, today time.Time) bool {
	return StatusOf(paid, start, end, today) == enums.AdStatusActive
}

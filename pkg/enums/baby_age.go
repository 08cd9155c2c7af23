package enums

import "fmt"

// BabyAge maps to the baby_age enum in Postgres.
type BabyAge string

const (
	BabyAge0To3Months  BabyAge = "0-3 months"
	BabyAge3To6Months  BabyAge = "3-6 months"
	BabyAge6To12Months BabyAge = "6-12 months"
	BabyAge1To2Years   BabyAge = "1-2 years"
	BabyAge2To3Years   BabyAge = "2-3 years"
	BabyAge3PlusYears  BabyAge = "3+ years"
)

var validBabyAges = []BabyAge{
	BabyAge0To3Months,
	BabyAge3To6Months,
	BabyAge6To12Months,
	BabyAge1To2Years,
	BabyAge2To3Years,
	BabyAge3PlusYears,
}

func (a BabyAge) String() string {
	return string(a)
}

func (a BabyAge) IsValid() bool {
	for _, candidate := range validBabyAges {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseBabyAge(value string) (BabyAge, error) {
	for _, candidate := range validBabyAges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid baby age %q", value)
}

// BabyAges lists every accepted age group in display order.
func BabyAges() []BabyAge {
	out := make([]BabyAge, len(validBabyAges))
	copy(out, validBabyAges)
	return out
}

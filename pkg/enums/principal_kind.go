package enums

import "fmt"

// PrincipalKind tags the authenticated actor carried in access tokens.
type PrincipalKind string

const (
	PrincipalMother PrincipalKind = "mother"
	PrincipalVendor PrincipalKind = "vendor"
	PrincipalAdmin  PrincipalKind = "admin"
)

var validPrincipalKinds = []PrincipalKind{
	PrincipalMother,
	PrincipalVendor,
	PrincipalAdmin,
}

func (k PrincipalKind) String() string {
	return string(k)
}

func (k PrincipalKind) IsValid() bool {
	for _, candidate := range validPrincipalKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func ParsePrincipalKind(value string) (PrincipalKind, error) {
	for _, candidate := range validPrincipalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal kind %q", value)
}

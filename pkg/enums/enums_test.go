package enums

import "testing"

func TestParseOfferStatus(t *testing.T) {
	for _, raw := range []string{"pending", "approved", "rejected"} {
		got, err := ParseOfferStatus(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if !got.IsValid() {
			t.Fatalf("expected %q to be valid", raw)
		}
	}
	if _, err := ParseOfferStatus("featured"); err == nil {
		t.Fatal("expected featured to be rejected as a status")
	}
}

func TestParseBabyAge(t *testing.T) {
	if _, err := ParseBabyAge("3+ years"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseBabyAge("4 years"); err == nil {
		t.Fatal("expected unknown age group to fail")
	}
	ages := BabyAges()
	ages[0] = "mutated"
	if BabyAges()[0] != BabyAge0To3Months {
		t.Fatal("BabyAges must return a copy")
	}
}

func TestParseProfileRoleExcludesAdmin(t *testing.T) {
	if _, err := ParseProfileRole("admin"); err == nil {
		t.Fatal("admin must not be a profile role")
	}
	if r, err := ParseProfileRole("vendor"); err != nil || r != ProfileRoleVendor {
		t.Fatalf("unexpected parse result %q %v", r, err)
	}
}

func TestParseOfferSortDefaultsToNewest(t *testing.T) {
	if s, err := ParseOfferSort(""); err != nil || s != OfferSortNewest {
		t.Fatalf("expected newest default, got %q %v", s, err)
	}
	if _, err := ParseOfferSort("popular"); err == nil {
		t.Fatal("expected unknown sort to fail")
	}
}

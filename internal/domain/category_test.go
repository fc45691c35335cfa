package domain

import "testing"

func TestCanonicalCategory(t *testing.T) {
	c, ok := CanonicalCategory("  tecnología ")
	if !ok || c != "Tecnología" {
		t.Fatalf("want Tecnología, got %q (%v)", c, ok)
	}
	if _, ok := CanonicalCategory("Astronautics"); ok {
		t.Fatal("unknown category accepted")
	}
}

func TestUserOwns(t *testing.T) {
	var nilUser *User
	if nilUser.Owns(1) {
		t.Fatal("nil user owns nothing")
	}
	u := &User{}
	u.BusinessID.Int64, u.BusinessID.Valid = 7, true
	if !u.Owns(7) || u.Owns(8) {
		t.Fatalf("ownership check wrong for %+v", u)
	}
}

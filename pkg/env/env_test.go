package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("KITCHENOPS_TEST_VALUE", "   ")
	if got := Get("KITCHENOPS_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	t.Setenv("KITCHENOPS_TEST_VALUE", "console")
	if got := Get("KITCHENOPS_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected env value, got %q", got)
	}
}

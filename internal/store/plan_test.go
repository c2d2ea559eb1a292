package store_test

import (
	"testing"

	"jobmate/scout-service/internal/store"
)

func strptr(s string) *string { return &s }

func TestPlan(t *testing.T) {
	cases := []struct {
		name     string
		found    bool
		existing *string
		incoming string
		want     store.Action
	}{
		{"new raw text inserts", false, nil, "- bullet", store.ActionInsert},
		{"new raw text without summary still inserts", false, nil, "", store.ActionInsert},
		{"null summary backfilled", true, nil, "- bullet", store.ActionBackfill},
		{"empty summary backfilled", true, strptr(""), "- bullet", store.ActionBackfill},
		{"null summary with empty incoming skips", true, nil, "", store.ActionSkip},
		{"existing summary never overwritten", true, strptr("- old"), "- new", store.ActionSkip},
		{"identical resubmission skips", true, strptr("- bullet"), "- bullet", store.ActionSkip},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := store.Plan(c.found, c.existing, c.incoming)
			if got != c.want {
				t.Errorf("Plan(found=%v, existing=%v, incoming=%q) = %v, want %v",
					c.found, c.existing, c.incoming, got, c.want)
			}
		})
	}
}

package metrics

import "testing"

func TestResetAllowsReregistration(t *testing.T) {
	defer ResetBulkMetricsForTest()

	first := Bulk()
	if first == nil {
		t.Fatalf("expected metrics instance")
	}
	first.IncItemProcessed("bulk_update", "success")

	ResetBulkMetricsForTest()

	// A fresh instance must register without panicking on duplicate
	// collectors and remain usable.
	second := Bulk()
	if second == nil {
		t.Fatalf("expected metrics instance after reset")
	}
	if second == first {
		t.Fatalf("expected a fresh instance after reset")
	}
	second.IncItemProcessed("bulk_update", "success")
	second.SetCatalogZones(3)
}

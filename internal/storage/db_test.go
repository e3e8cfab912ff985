package storage

import (
	"path/filepath"
	"testing"

	"tourdesk/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertPayloadIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	first, err := db.UpsertPayload("hash-1", "trace-1", "2025-03-01T01:00:00Z", 2, "/raw/hash-1.json")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.UpsertPayload("hash-1", "trace-2", "2025-03-01T02:00:00Z", 3, "/raw/hash-1.json")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if second.TraceID != "trace-2" || second.OrderCount != 3 {
		t.Fatalf("row not updated: %+v", second)
	}
}

func TestListPayloadsByStatus(t *testing.T) {
	db := openTestDB(t)

	a, _ := db.UpsertPayload("hash-a", "t", "2025-03-01T01:00:00Z", 1, "/raw/a.json")
	b, _ := db.UpsertPayload("hash-b", "t", "2025-03-01T02:00:00Z", 1, "/raw/b.json")

	pending, err := db.ListPayloadsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].ID != a.ID {
		t.Fatalf("expected oldest first, got id=%d", pending[0].ID)
	}

	if err := db.UpdatePayloadStatus(a.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	pending, err = db.ListPayloadsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("pending after update = %+v", pending)
	}
}

func TestReplaceBookingsIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	row, err := db.UpsertPayload("hash-1", "t", "2025-03-01T01:00:00Z", 1, "/raw/1.json")
	if err != nil {
		t.Fatal(err)
	}

	bookings := []internal.MergedBooking{
		{
			OrderID:     "ORD-1",
			PackageID:   "PKG-1",
			UseDate:     "2025-03-10",
			Adult:       2,
			SideOptions: []string{"스피드보트 업그레이드", "북부지역"},
		},
		{
			OrderID:   "ORD-1",
			PackageID: "PKG-1",
			UseDate:   "2025-03-11",
			Adult:     2,
		},
	}
	if err := db.ReplaceBookings(row.ID, bookings); err != nil {
		t.Fatal(err)
	}

	// Reprocessing the same payload with an updated result must not
	// accumulate rows.
	bookings[0].Adult = 3
	if err := db.ReplaceBookings(row.ID, bookings); err != nil {
		t.Fatal(err)
	}

	stored, err := db.ListBookings(row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored = %d, want 2", len(stored))
	}
	if stored[0].Adult != 3 {
		t.Fatalf("adult = %d, want 3", stored[0].Adult)
	}
	if got := stored[0].SideOption(1); got != "스피드보트 업그레이드" {
		t.Fatalf("sideOption1 = %q", got)
	}
	if got := stored[0].SideOption(2); got != "북부지역" {
		t.Fatalf("sideOption2 = %q", got)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("naver.last_fetch")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing key, got %q", *missing)
	}

	if err := db.SetMetadata("naver.last_fetch", "2025-03-01T01:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("naver.last_fetch", "2025-03-01T02:00:00Z"); err != nil {
		t.Fatal(err)
	}

	value, err := db.GetMetadata("naver.last_fetch")
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "2025-03-01T02:00:00Z" {
		t.Fatalf("value = %v", value)
	}
}

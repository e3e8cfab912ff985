package booking

import (
	"os"
	"path/filepath"
	"testing"

	"tourdesk/internal/config"
	"tourdesk/internal/storage"
)

func TestSmokePayloadToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_payload.json"))
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.json")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	row, err := db.UpsertPayload("fixture-hash", "trace-1", "2025-03-01T01:00:00Z", 2, rawPath)
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg)
	res, err := proc.ProcessPayload(row)
	if err != nil {
		t.Fatal(err)
	}
	if res.Items != 2 {
		t.Fatalf("items = %d, want 2", res.Items)
	}
	if res.Bookings != 1 {
		t.Fatalf("bookings = %d, want 1", res.Bookings)
	}

	bookings, err := db.ListBookings(row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bookings) != 1 {
		t.Fatalf("stored bookings = %d, want 1", len(bookings))
	}

	b := bookings[0]
	if b.UseDate != "2025-03-10" {
		t.Errorf("useDate = %q", b.UseDate)
	}
	if b.Adult != 2 || b.Child != 0 || b.Senior != 0 {
		t.Errorf("headcount = %d/%d/%d", b.Adult, b.Child, b.Senior)
	}
	if b.SideOption(1) != "스피드보트 업그레이드 (왕복)" {
		t.Errorf("sideOption1 = %q", b.SideOption(1))
	}
	if b.LodgingName != "코랄베이 리조트" {
		t.Errorf("lodging = %q", b.LodgingName)
	}
	if b.InitialAmount != 230000 || b.FinalAmount != 210000 {
		t.Errorf("amounts = %d/%d", b.InitialAmount, b.FinalAmount)
	}

	updated, err := db.GetPayloadByHash("fixture-hash")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != "processed" {
		t.Errorf("status = %q", updated.Status)
	}

	out := filepath.Join(tmp, "result.xlsx")
	if err := ExportBookingsToXLSX(bookings, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestRunOnceOffline(t *testing.T) {
	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_payload.json"))
	if err != nil {
		t.Fatal(err)
	}

	merged, orders, err := RunOnce(rawBlob)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged) != 1 {
		t.Fatalf("merged = %d, want 1", len(merged))
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if orders[0].OrdererName != "김철수" {
		t.Errorf("ordererName = %q", orders[0].OrdererName)
	}
}

package booking

import (
	"fmt"
	"testing"

	"tourdesk/internal"
)

func TestAggregateBackfillsSideItemDate(t *testing.T) {
	raws := []internal.RawLineItem{
		{
			OrderID:       "O1",
			PackageID:     "P1",
			ProductName:   "Tour X",
			ProductOption: "이용날짜: 2025-02-15 / 구분: 성인(2명)",
			Quantity:      2,
		},
		{
			OrderID:     "O1",
			PackageID:   "P1",
			ProductName: "스피드보트 업그레이드(잔금 30USD)",
			Quantity:    1,
		},
	}

	merged := Aggregate(ExtractAndClassify(raws))
	if len(merged) != 1 {
		t.Fatalf("len=%d, date backfill failed", len(merged))
	}
	b := merged[0]
	if b.UseDate != "2025-02-15" {
		t.Fatalf("useDate=%q", b.UseDate)
	}
	if b.Adult != 2 || b.Child != 0 || b.Senior != 0 {
		t.Fatalf("counts=(%d,%d,%d)", b.Adult, b.Child, b.Senior)
	}
	if b.SideOption(1) != "스피드보트 업그레이드(잔금 30USD)" {
		t.Fatalf("sideOption1=%q", b.SideOption(1))
	}
	if b.ProductName != "Tour X" {
		t.Fatalf("productName=%q", b.ProductName)
	}
}

func TestAggregateHeadcountConservation(t *testing.T) {
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 2},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Child: 1},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Senior: 3},
		{OrderID: "O1", PackageID: "P1", SideOption: "북부지역 6인 이하(잔금 20USD)"},
	}

	merged := Aggregate(items)
	if len(merged) != 1 {
		t.Fatalf("len=%d", len(merged))
	}
	total := merged[0].Adult + merged[0].Child + merged[0].Senior
	if total != 6 {
		t.Fatalf("headcount=%d want 6", total)
	}
}

func TestAggregateDistinctDatesStaySeparate(t *testing.T) {
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 2},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-16", Adult: 1},
	}
	merged := Aggregate(items)
	if len(merged) != 2 {
		t.Fatalf("len=%d want 2", len(merged))
	}
	if merged[0].UseDate != "2025-02-15" || merged[1].UseDate != "2025-02-16" {
		t.Fatalf("emission order broken: %q then %q", merged[0].UseDate, merged[1].UseDate)
	}
}

func TestAggregateDescriptiveFieldsFromMainItem(t *testing.T) {
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", SideOption: "소나시(무료)"},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 2, LodgingName: "뉴월드 리조트", PayMethod: "완납"},
	}
	merged := Aggregate(items)
	if len(merged) != 1 {
		t.Fatalf("len=%d", len(merged))
	}
	if merged[0].LodgingName != "뉴월드 리조트" {
		t.Fatalf("lodging=%q", merged[0].LodgingName)
	}
	if merged[0].PayMethod != "완납" {
		t.Fatalf("payMethod=%q", merged[0].PayMethod)
	}
}

func TestAggregateSideItemFirstNeverNamesBooking(t *testing.T) {
	raws := []internal.RawLineItem{
		{
			OrderID:     "O1",
			PackageID:   "P1",
			ProductName: "스피드보트 업그레이드(잔금 30USD)",
			Quantity:    1,
		},
		{
			OrderID:       "O1",
			PackageID:     "P1",
			ProductName:   "Tour X",
			ProductOption: "이용날짜: 2025-02-15 / 구분: 성인(2명)",
			Quantity:      2,
		},
	}

	merged := Aggregate(ExtractAndClassify(raws))
	if len(merged) != 1 {
		t.Fatalf("len=%d", len(merged))
	}
	b := merged[0]
	if b.ProductName != "Tour X" {
		t.Fatalf("productName=%q want %q", b.ProductName, "Tour X")
	}
	if b.Adult != 2 {
		t.Fatalf("adult=%d", b.Adult)
	}
	if b.SideOption(1) != "스피드보트 업그레이드(잔금 30USD)" {
		t.Fatalf("sideOption1=%q", b.SideOption(1))
	}
}

func TestAggregateSideOptionSlotOverflow(t *testing.T) {
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 1},
	}
	for i := 1; i <= SideOptionSlots+2; i++ {
		items = append(items, internal.LineItem{
			OrderID:    "O1",
			PackageID:  "P1",
			UseDate:    "2025-02-15",
			SideOption: fmt.Sprintf("옵션%d", i),
		})
	}

	merged := Aggregate(items)
	if len(merged) != 1 {
		t.Fatalf("len=%d", len(merged))
	}
	b := merged[0]
	if got := len(b.SideOptions); got != SideOptionSlots {
		t.Fatalf("slots=%d", got)
	}
	last := b.SideOption(SideOptionSlots)
	want := fmt.Sprintf("옵션%d / 옵션%d / 옵션%d", SideOptionSlots, SideOptionSlots+1, SideOptionSlots+2)
	if last != want {
		t.Fatalf("last slot=%q want %q", last, want)
	}
}

func TestAggregateTowelSums(t *testing.T) {
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 2, InitialAmount: 100000, FinalAmount: 90000},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", TowelCount: 5, InitialAmount: 25000, FinalAmount: 25000},
	}
	merged := Aggregate(items)
	if len(merged) != 1 {
		t.Fatalf("len=%d", len(merged))
	}
	b := merged[0]
	if b.TowelCount != 5 {
		t.Fatalf("towel=%d", b.TowelCount)
	}
	if b.InitialAmount != 125000 || b.FinalAmount != 115000 {
		t.Fatalf("amounts=(%d,%d)", b.InitialAmount, b.FinalAmount)
	}
}

func TestAggregateFirstMainDateWins(t *testing.T) {
	// Two mains disagree on the date inside one package; the first in
	// input order is authoritative for backfill.
	items := []internal.LineItem{
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-15", Adult: 1},
		{OrderID: "O1", PackageID: "P1", UseDate: "2025-02-20", Adult: 1},
		{OrderID: "O1", PackageID: "P1", SideOption: "중부(잔금)"},
	}
	merged := Aggregate(items)
	if len(merged) != 2 {
		t.Fatalf("len=%d", len(merged))
	}
	if merged[0].SideOption(1) != "중부(잔금)" {
		t.Fatalf("side item not attached to first-seen date group: %+v", merged)
	}
}

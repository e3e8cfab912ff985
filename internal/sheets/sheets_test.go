package sheets

import (
	"testing"

	"tourdesk/internal"
)

func TestBookingRowsColumnLayout(t *testing.T) {
	rows := BookingRows([]internal.MergedBooking{
		{
			OrderID:        "ORD-1",
			PackageID:      "PKG-1",
			UseDate:        "2025-02-15",
			RecipientName:  "이경원",
			RecipientPhone: "010-1234-5678",
			LodgingName:    "비다 로카 푸꾸옥 리조트",
			ProductName:    "나트랑 스노쿨링",
			CourseOption:   "B코스",
			PayMethod:      "완납",
			FlightNumber:   "VN1234",
			Adult:          2,
			Child:          1,
			Senior:         0,
			TowelCount:     3,
			ShippingMemo:   "늦게 도착",
			InitialAmount:  300000,
			FinalAmount:    250000,
			SideOptions:    []string{"스피드보트 업그레이드", "북부지역"},
		},
	})

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if len(row) != 25 {
		t.Fatalf("columns = %d, want 25", len(row))
	}

	want := map[int]any{
		0:  "이경원",            // A
		1:  "2025-02-15",     // B
		2:  "",               // C empty
		3:  "2",              // D adult
		4:  "1",              // E child
		5:  "0",              // F senior
		6:  "비다 로카 푸꾸옥 리조트",  // G
		8:  "나트랑 스노쿨링",       // I
		9:  "B코스",            // J
		10: "스피드보트 업그레이드",    // K side 1
		11: "북부지역",           // L side 2
		13: "완납",             // N
		14: "VN1234",         // O
		15: "010-1234-5678",  // P
		16: "3",              // Q towel
		20: "늦게 도착",          // U
		21: "300000",         // V
		22: "250000",         // W
		23: "",               // X side 3 empty
		24: "",               // Y side 4 empty
	}
	for col, v := range want {
		if row[col] != v {
			t.Errorf("column %d = %q, want %q", col, row[col], v)
		}
	}
}

func TestBookingRowsEmpty(t *testing.T) {
	if rows := BookingRows(nil); len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

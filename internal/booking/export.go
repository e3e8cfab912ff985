package booking

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"tourdesk/internal"
)

func ExportBookingsToXLSX(bookings []internal.MergedBooking, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"order_id", "package_id", "product_order_id", "use_date",
		"name", "tel", "lodging", "product_name", "course_option",
		"pay_method", "flight", "adult", "child", "senior", "towel",
		"side_option1", "side_option2", "side_option3", "side_option4",
		"memo", "initial_amount", "final_amount",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, b := range bookings {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, b.OrderID)
		set(2, b.PackageID)
		set(3, b.ProductOrderID)
		set(4, b.UseDate)
		set(5, b.RecipientName)
		set(6, b.RecipientPhone)
		set(7, b.LodgingName)
		set(8, b.ProductName)
		set(9, b.CourseOption)
		set(10, b.PayMethod)
		set(11, b.FlightNumber)
		set(12, b.Adult)
		set(13, b.Child)
		set(14, b.Senior)
		set(15, b.TowelCount)
		set(16, b.SideOption(1))
		set(17, b.SideOption(2))
		set(18, b.SideOption(3))
		set(19, b.SideOption(4))
		set(20, b.ShippingMemo)
		set(21, b.InitialAmount)
		set(22, b.FinalAmount)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

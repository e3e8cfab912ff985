package sheets

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"tourdesk/internal"
	"tourdesk/internal/config"
)

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

type Writer struct {
	service *sheets.Service
	sheetID string
}

func NewWriter(ctx context.Context, cfg config.Config) (*Writer, error) {
	if err := cfg.Require("SHEET_ID", cfg.SheetID); err != nil {
		return nil, err
	}
	if err := cfg.Require("SHEETS_CREDENTIALS_FILE", cfg.SheetsCredentialsFile); err != nil {
		return nil, err
	}

	keyJSON, err := os.ReadFile(cfg.SheetsCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(keyJSON, spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, err
	}

	return &Writer{service: svc, sheetID: cfg.SheetID}, nil
}

// Update writes the rows starting at rangeName, e.g. "input!A40".
// RAW input keeps the values exactly as sent, no formula evaluation.
func (w *Writer) Update(rangeName string, rows [][]any) (int64, error) {
	body := &sheets.ValueRange{Values: rows}
	resp, err := w.service.Spreadsheets.Values.Update(w.sheetID, rangeName, body).
		ValueInputOption("RAW").Do()
	if err != nil {
		return 0, err
	}
	return resp.UpdatedCells, nil
}

func (w *Writer) Read(rangeName string) ([][]any, error) {
	resp, err := w.service.Spreadsheets.Values.Get(w.sheetID, rangeName).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// BookingRows lays merged bookings out in the operations sheet's fixed
// A through Y column order. Columns the pipeline does not fill yet
// (english name, drop point, pickup time, per-day dates) stay empty.
func BookingRows(bookings []internal.MergedBooking) [][]any {
	rows := make([][]any, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []any{
			b.RecipientName,            // A: name
			b.UseDate,                  // B: use date
			"",                         // C: english name
			strconv.Itoa(b.Adult),      // D
			strconv.Itoa(b.Child),      // E
			strconv.Itoa(b.Senior),     // F
			b.LodgingName,              // G: lodging / pickup point
			"",                         // H: drop point
			b.ProductName,              // I
			b.CourseOption,             // J
			b.SideOption(1),            // K
			b.SideOption(2),            // L
			"",                         // M: pickup time
			b.PayMethod,                // N
			b.FlightNumber,             // O
			b.RecipientPhone,           // P
			strconv.Itoa(b.TowelCount), // Q
			"",                         // R
			"",                         // S
			"",                         // T
			b.ShippingMemo,             // U
			strconv.Itoa(b.InitialAmount), // V
			strconv.Itoa(b.FinalAmount),   // W
			b.SideOption(3),               // X
			b.SideOption(4),               // Y
		})
	}
	return rows
}

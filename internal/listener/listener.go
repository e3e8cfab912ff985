package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"tourdesk/internal/booking"
	"tourdesk/internal/config"
	"tourdesk/internal/naver"
	"tourdesk/internal/sheets"
	"tourdesk/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	fetchService := naver.NewFetchService(s.db, s.cfg)
	fetchResult, err := fetchService.FetchAndStore(ctx)
	if err != nil {
		return err
	}

	processor := booking.NewProcessingService(s.db, s.cfg)
	pending, err := s.db.ListPayloadsByStatus("fetched", s.cfg.ListenerProcessBatch)
	if err != nil {
		return err
	}

	processedPayloads := 0
	processedBookings := 0
	for _, row := range pending {
		res, err := processor.ProcessPayload(row)
		if err != nil {
			return err
		}
		processedPayloads++
		processedBookings += res.Bookings

		if err := s.deliver(ctx, res); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done changed=%d stored=%d payloads=%d bookings=%d\n",
		fetchResult.Changed, fetchResult.Stored, processedPayloads, processedBookings)
	return nil
}

// deliver pushes one processed payload to the configured outputs.
func (s *Service) deliver(ctx context.Context, res booking.ProcessResult) error {
	if s.cfg.ListenerAutoExport {
		filename := fmt.Sprintf("payload_%d.xlsx", res.PayloadID)
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", filename)
		if err := booking.ExportBookingsToXLSX(res.Merged, outputPath); err != nil {
			return err
		}
	}

	if s.cfg.ListenerPushSheet {
		writer, err := sheets.NewWriter(ctx, s.cfg)
		if err != nil {
			return err
		}
		if _, err := writer.Update(s.cfg.SheetRange, sheets.BookingRows(res.Merged)); err != nil {
			return err
		}
	}

	if s.cfg.ListenerSyncDB {
		mysqlDB, err := storage.OpenMySQL(s.cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer mysqlDB.Close()
		if err := mysqlDB.SyncBookings(res.Orders, res.LineItems, res.Merged); err != nil {
			return err
		}
	}

	return nil
}

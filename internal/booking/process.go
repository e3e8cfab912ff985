package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"tourdesk/internal"
	"tourdesk/internal/config"
	"tourdesk/internal/naver"
	"tourdesk/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	PayloadID int
	Items     int
	Bookings  int
	Orders    []internal.OrderInfo
	LineItems []internal.RawLineItem
	Merged    []internal.MergedBooking
}

func (s *ProcessingService) ProcessPending(limit int) (int, int, error) {
	pending, err := s.db.ListPayloadsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedPayloads := 0
	processedBookings := 0
	for _, row := range pending {
		res, err := s.ProcessPayload(row)
		if err != nil {
			return processedPayloads, processedBookings, err
		}
		processedPayloads++
		processedBookings += res.Bookings
	}
	return processedPayloads, processedBookings, nil
}

func (s *ProcessingService) ProcessByID(payloadID int) (ProcessResult, error) {
	row, err := s.db.MustPayloadByID(payloadID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessPayload(row)
}

// ProcessPayload parses one stored raw payload, classifies and merges
// its line items, and replaces the payload's booking rows.
func (s *ProcessingService) ProcessPayload(row internal.PayloadRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(row.RawRef)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("read payload %d: %w", row.ID, err)
	}

	items, orders, err := naver.ParseOrderDetail(raw)
	if err != nil {
		_ = s.db.UpdatePayloadStatus(row.ID, "failed")
		return ProcessResult{}, err
	}

	merged := Aggregate(ExtractAndClassify(items))

	if err := s.db.ReplaceBookings(row.ID, merged); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdatePayloadStatus(row.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.InsertRun(traceID(), row.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"items": len(items), "bookings": len(merged)})

	return ProcessResult{
		PayloadID: row.ID,
		Items:     len(items),
		Bookings:  len(merged),
		Orders:    orders,
		LineItems: items,
		Merged:    merged,
	}, nil
}

// RunOnce parses and merges a raw payload without touching storage.
// Used by the one-shot CLI path and offline fixtures.
func RunOnce(raw []byte) ([]internal.MergedBooking, []internal.OrderInfo, error) {
	items, orders, err := naver.ParseOrderDetail(raw)
	if err != nil {
		return nil, nil, err
	}
	return Aggregate(ExtractAndClassify(items)), orders, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

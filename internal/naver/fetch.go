package naver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"tourdesk/internal"
	"tourdesk/internal/config"
	"tourdesk/internal/storage"
)

const fetchCursorKey = "naver.last_fetch"

// FetchService pulls newly paid product orders from the platform and
// stores each detail payload on disk plus a tracking row, ready for
// the processing pass.
type FetchService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

type FetchResult struct {
	Changed int
	Stored  int
}

func NewFetchService(db *storage.DB, cfg config.Config) *FetchService {
	return &FetchService{db: db, client: NewClient(cfg), cfg: cfg}
}

func (s *FetchService) FetchAndStore(ctx context.Context) (FetchResult, error) {
	since := time.Now().Add(-time.Duration(s.cfg.FetchLookbackHrs) * time.Hour)
	if cursor, err := s.db.GetMetadata(fetchCursorKey); err == nil && cursor != nil {
		if parsed, err := time.Parse(time.RFC3339, *cursor); err == nil {
			since = parsed
		}
	}

	changed, err := s.client.LastChangedStatuses(ctx, since)
	if err != nil {
		return FetchResult{}, err
	}
	if len(changed) == 0 {
		return FetchResult{}, nil
	}

	ids := make([]string, 0, len(changed))
	for _, c := range changed {
		if c.ProductOrderID != "" {
			ids = append(ids, c.ProductOrderID)
		}
	}

	raw, err := s.client.ProductOrderDetails(ctx, ids)
	if err != nil {
		return FetchResult{}, err
	}

	row, err := s.store(raw)
	if err != nil {
		return FetchResult{}, err
	}

	_ = s.db.SetMetadata(fetchCursorKey, time.Now().UTC().Format(time.RFC3339))
	return FetchResult{Changed: len(changed), Stored: row.OrderCount}, nil
}

// store writes the raw payload by content hash and upserts its
// tracking row; refetching an unchanged payload is a no-op.
func (s *FetchService) store(raw []byte) (internal.PayloadRow, error) {
	hashBytes := sha256.Sum256(raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.cfg.RawPayloadDir, 0o755); err != nil {
		return internal.PayloadRow{}, err
	}

	rawPath := filepath.Join(s.cfg.RawPayloadDir, hash+".json")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
			return internal.PayloadRow{}, err
		}
	}

	var envelope detailEnvelope
	_ = json.Unmarshal(raw, &envelope)

	return s.db.UpsertPayload(hash, envelope.TraceID, time.Now().UTC().Format(time.RFC3339), len(envelope.Data), rawPath)
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tourdesk/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS payloads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  hash TEXT NOT NULL UNIQUE,
  traceId TEXT,
  fetchedAt TEXT,
  orderCount INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bookings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  payloadId INTEGER NOT NULL,
  orderId TEXT NOT NULL,
  packageId TEXT NOT NULL,
  useDate TEXT NOT NULL DEFAULT '',
  productOrderId TEXT,
  recipientName TEXT,
  recipientPhone TEXT,
  lodgingName TEXT,
  productName TEXT,
  courseOption TEXT,
  payMethod TEXT,
  flightNumber TEXT,
  adult INTEGER NOT NULL DEFAULT 0,
  child INTEGER NOT NULL DEFAULT 0,
  senior INTEGER NOT NULL DEFAULT 0,
  towelCount INTEGER NOT NULL DEFAULT 0,
  shippingMemo TEXT,
  initialAmount INTEGER NOT NULL DEFAULT 0,
  finalAmount INTEGER NOT NULL DEFAULT 0,
  sideOption1 TEXT NOT NULL DEFAULT '',
  sideOption2 TEXT NOT NULL DEFAULT '',
  sideOption3 TEXT NOT NULL DEFAULT '',
  sideOption4 TEXT NOT NULL DEFAULT '',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(orderId, packageId, useDate),
  FOREIGN KEY(payloadId) REFERENCES payloads(id)
);
CREATE INDEX IF NOT EXISTS idx_bookings_payload ON bookings(payloadId);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  payloadId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(payloadId) REFERENCES payloads(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertPayload(hash, traceID, fetchedAt string, orderCount int, rawRef string) (internal.PayloadRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO payloads (hash, traceId, fetchedAt, orderCount, rawRef)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  traceId=excluded.traceId,
  fetchedAt=excluded.fetchedAt,
  orderCount=excluded.orderCount,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, hash, traceID, fetchedAt, orderCount, rawRef)
	if err != nil {
		return internal.PayloadRow{}, err
	}

	row, err := d.GetPayloadByHash(hash)
	if err != nil {
		return internal.PayloadRow{}, err
	}
	if row == nil {
		return internal.PayloadRow{}, errors.New("failed to upsert payload")
	}
	return *row, nil
}

func (d *DB) GetPayloadByHash(hash string) (*internal.PayloadRow, error) {
	var row internal.PayloadRow
	err := d.conn.QueryRow(`
SELECT id, hash, traceId, fetchedAt, orderCount, status, rawRef
FROM payloads WHERE hash = ?
`, hash).Scan(&row.ID, &row.Hash, &row.TraceID, &row.FetchedAt, &row.OrderCount, &row.Status, &row.RawRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetPayloadByID(id int) (*internal.PayloadRow, error) {
	var row internal.PayloadRow
	err := d.conn.QueryRow(`
SELECT id, hash, traceId, fetchedAt, orderCount, status, rawRef
FROM payloads WHERE id = ?
`, id).Scan(&row.ID, &row.Hash, &row.TraceID, &row.FetchedAt, &row.OrderCount, &row.Status, &row.RawRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListPayloadsByStatus(status string, limit int) ([]internal.PayloadRow, error) {
	rows, err := d.conn.Query(`
SELECT id, hash, traceId, fetchedAt, orderCount, status, rawRef
FROM payloads WHERE status = ? ORDER BY fetchedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PayloadRow
	for rows.Next() {
		var row internal.PayloadRow
		if err := rows.Scan(&row.ID, &row.Hash, &row.TraceID, &row.FetchedAt, &row.OrderCount, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdatePayloadStatus(payloadID int, status string) error {
	_, err := d.conn.Exec(`UPDATE payloads SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, payloadID)
	return err
}

// ReplaceBookings swaps a payload's merged bookings for a fresh set so
// reprocessing is repeatable.
func (d *DB) ReplaceBookings(payloadID int, bookings []internal.MergedBooking) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM bookings WHERE payloadId = ?`, payloadID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO bookings (
  payloadId, orderId, packageId, useDate, productOrderId,
  recipientName, recipientPhone, lodgingName, productName, courseOption,
  payMethod, flightNumber, adult, child, senior, towelCount,
  shippingMemo, initialAmount, finalAmount,
  sideOption1, sideOption2, sideOption3, sideOption4
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(orderId, packageId, useDate) DO UPDATE SET
  payloadId=excluded.payloadId,
  productOrderId=excluded.productOrderId,
  recipientName=excluded.recipientName,
  recipientPhone=excluded.recipientPhone,
  lodgingName=excluded.lodgingName,
  productName=excluded.productName,
  courseOption=excluded.courseOption,
  payMethod=excluded.payMethod,
  flightNumber=excluded.flightNumber,
  adult=excluded.adult,
  child=excluded.child,
  senior=excluded.senior,
  towelCount=excluded.towelCount,
  shippingMemo=excluded.shippingMemo,
  initialAmount=excluded.initialAmount,
  finalAmount=excluded.finalAmount,
  sideOption1=excluded.sideOption1,
  sideOption2=excluded.sideOption2,
  sideOption3=excluded.sideOption3,
  sideOption4=excluded.sideOption4
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bookings {
		if _, err := stmt.Exec(
			payloadID, b.OrderID, b.PackageID, b.UseDate, b.ProductOrderID,
			b.RecipientName, b.RecipientPhone, b.LodgingName, b.ProductName, b.CourseOption,
			b.PayMethod, b.FlightNumber, b.Adult, b.Child, b.Senior, b.TowelCount,
			b.ShippingMemo, b.InitialAmount, b.FinalAmount,
			b.SideOption(1), b.SideOption(2), b.SideOption(3), b.SideOption(4),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListBookings(payloadID int) ([]internal.MergedBooking, error) {
	query := `
SELECT orderId, packageId, useDate, productOrderId,
       recipientName, recipientPhone, lodgingName, productName, courseOption,
       payMethod, flightNumber, adult, child, senior, towelCount,
       shippingMemo, initialAmount, finalAmount,
       sideOption1, sideOption2, sideOption3, sideOption4
FROM bookings`
	args := []any{}
	if payloadID > 0 {
		query += ` WHERE payloadId = ?`
		args = append(args, payloadID)
	}
	query += ` ORDER BY id ASC`

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MergedBooking
	for rows.Next() {
		var b internal.MergedBooking
		var side [4]string
		if err := rows.Scan(
			&b.OrderID, &b.PackageID, &b.UseDate, &b.ProductOrderID,
			&b.RecipientName, &b.RecipientPhone, &b.LodgingName, &b.ProductName, &b.CourseOption,
			&b.PayMethod, &b.FlightNumber, &b.Adult, &b.Child, &b.Senior, &b.TowelCount,
			&b.ShippingMemo, &b.InitialAmount, &b.FinalAmount,
			&side[0], &side[1], &side[2], &side[3],
		); err != nil {
			return nil, err
		}
		for _, s := range side {
			if s != "" {
				b.SideOptions = append(b.SideOptions, s)
			}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, payloadID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, payloadId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, payloadID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) MustPayloadByID(id int) (internal.PayloadRow, error) {
	row, err := d.GetPayloadByID(id)
	if err != nil {
		return internal.PayloadRow{}, err
	}
	if row == nil {
		return internal.PayloadRow{}, fmt.Errorf("payload not found: id=%d", id)
	}
	return *row, nil
}

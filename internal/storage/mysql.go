package storage

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"tourdesk/internal"
)

// MySQL mirrors the pipeline's output into the shared reporting
// database. Every write is an upsert keyed on the natural id, so
// replaying a payload converges instead of duplicating rows.
type MySQL struct {
	conn *sql.DB
}

func OpenMySQL(dsn string) (*MySQL, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &MySQL{conn: conn}, nil
}

func NewMySQL(conn *sql.DB) *MySQL {
	return &MySQL{conn: conn}
}

func (m *MySQL) Close() error {
	return m.conn.Close()
}

func (m *MySQL) UpsertOrder(o internal.OrderInfo) error {
	var orderDate any
	if o.OrderDate != "" {
		orderDate = o.OrderDate
	}

	_, err := m.conn.Exec(`
INSERT INTO orders (order_id, order_date, orderer_id, orderer_name, orderer_tel, pay_location_type)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  order_date=VALUES(order_date),
  orderer_id=VALUES(orderer_id),
  orderer_name=VALUES(orderer_name),
  orderer_tel=VALUES(orderer_tel),
  pay_location_type=VALUES(pay_location_type)
`, o.OrderID, orderDate, o.OrdererID, o.OrdererName, o.OrdererTel, o.PayLocationType)
	return err
}

func (m *MySQL) UpsertProductOrder(item internal.RawLineItem) error {
	_, err := m.conn.Exec(`
INSERT INTO product_orders (
  product_order_id, order_id, product_id, product_name, product_option,
  quantity, shipping_memo, initial_product_amount, final_product_amount
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  order_id=VALUES(order_id),
  product_id=VALUES(product_id),
  product_name=VALUES(product_name),
  product_option=VALUES(product_option),
  quantity=VALUES(quantity),
  shipping_memo=VALUES(shipping_memo),
  initial_product_amount=VALUES(initial_product_amount),
  final_product_amount=VALUES(final_product_amount)
`, item.ProductOrderID, item.OrderID, item.PackageID, item.ProductName, item.ProductOption,
		item.Quantity, item.ShippingMemo, item.InitialAmount, item.FinalAmount)
	return err
}

func (m *MySQL) UpsertShippingAddress(item internal.RawLineItem) error {
	_, err := m.conn.Exec(`
INSERT INTO shipping_address (product_order_id, name, tel1)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name=VALUES(name),
  tel1=VALUES(tel1)
`, item.ProductOrderID, item.RecipientName, item.RecipientPhone)
	return err
}

// UpsertBookingDetail writes one merged booking row. An empty use date
// becomes NULL so the DATETIME column stays clean.
func (m *MySQL) UpsertBookingDetail(b internal.MergedBooking) error {
	var useDate any
	if b.UseDate != "" {
		useDate = b.UseDate
	}

	_, err := m.conn.Exec(`
INSERT INTO booking_details (
  product_order_id, order_id, product_id, kor_name, use_date,
  adult, child, elder, hotel_name, product_name, course_option,
  side_option1, side_option2, side_option3, side_option4,
  pay_method, airplane, tel, towel, message,
  initial_product_amount, final_product_amount, statement
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  kor_name=VALUES(kor_name),
  use_date=VALUES(use_date),
  adult=VALUES(adult),
  child=VALUES(child),
  elder=VALUES(elder),
  hotel_name=VALUES(hotel_name),
  product_name=VALUES(product_name),
  course_option=VALUES(course_option),
  side_option1=VALUES(side_option1),
  side_option2=VALUES(side_option2),
  side_option3=VALUES(side_option3),
  side_option4=VALUES(side_option4),
  pay_method=VALUES(pay_method),
  airplane=VALUES(airplane),
  tel=VALUES(tel),
  towel=VALUES(towel),
  message=VALUES(message),
  initial_product_amount=VALUES(initial_product_amount),
  final_product_amount=VALUES(final_product_amount),
  statement=VALUES(statement)
`, b.ProductOrderID, b.OrderID, b.PackageID, b.RecipientName, useDate,
		b.Adult, b.Child, b.Senior, b.LodgingName, b.ProductName, b.CourseOption,
		b.SideOption(1), b.SideOption(2), b.SideOption(3), b.SideOption(4),
		b.PayMethod, b.FlightNumber, b.RecipientPhone, b.TowelCount, b.ShippingMemo,
		b.InitialAmount, b.FinalAmount, "PAYED")
	return err
}

// SyncBookings pushes orders, line items, and merged bookings for one
// processed payload.
func (m *MySQL) SyncBookings(orders []internal.OrderInfo, items []internal.RawLineItem, bookings []internal.MergedBooking) error {
	seen := make(map[string]bool)
	for _, o := range orders {
		if o.OrderID == "" || seen[o.OrderID] {
			continue
		}
		seen[o.OrderID] = true
		if err := m.UpsertOrder(o); err != nil {
			return err
		}
	}
	for _, item := range items {
		if item.ProductOrderID == "" {
			continue
		}
		if err := m.UpsertProductOrder(item); err != nil {
			return err
		}
		if err := m.UpsertShippingAddress(item); err != nil {
			return err
		}
	}
	for _, b := range bookings {
		if err := m.UpsertBookingDetail(b); err != nil {
			return err
		}
	}
	return nil
}

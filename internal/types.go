package internal

// OrderInfo is the order-level envelope around one or more line items,
// as returned by the commerce platform's detail query.
type OrderInfo struct {
	OrderID         string
	OrderDate       string
	OrdererID       string
	OrdererName     string
	OrdererTel      string
	PayLocationType string
}

// RawLineItem is one product order as it arrives from the platform.
// Missing fields on the wire default to empty string or zero; absence
// is never an error.
type RawLineItem struct {
	OrderID        string
	PackageID      string
	ProductOrderID string
	ProductName    string
	ProductOption  string
	Quantity       int
	RecipientName  string
	RecipientPhone string
	ShippingMemo   string
	InitialAmount  int
	FinalAmount    int
}

// LineItem is one classified line item. Exactly one of the following
// determines how its counts are treated during aggregation: main
// (Adult+Child+Senior > 0), side option (SideOption != ""), or towel
// (TowelCount > 0). Side and towel items always carry zero headcounts.
type LineItem struct {
	OrderID        string
	PackageID      string
	ProductOrderID string
	RecipientName  string
	RecipientPhone string
	UseDate        string
	LodgingName    string
	ProductName    string
	CourseOption   string
	PayMethod      string
	FlightNumber   string
	Adult          int
	Child          int
	Senior         int
	SideOption     string
	TowelCount     int
	ShippingMemo   string
	InitialAmount  int
	FinalAmount    int
}

// MergedBooking is the terminal artifact of one aggregation group.
// The (OrderID, PackageID, UseDate) key is unique across a batch.
type MergedBooking struct {
	OrderID        string
	PackageID      string
	ProductOrderID string
	RecipientName  string
	RecipientPhone string
	UseDate        string
	LodgingName    string
	ProductName    string
	CourseOption   string
	PayMethod      string
	FlightNumber   string
	Adult          int
	Child          int
	Senior         int
	TowelCount     int
	ShippingMemo   string
	InitialAmount  int
	FinalAmount    int
	SideOptions    []string
}

// SideOption returns the label in slot n (1-based), or "" when the
// slot is empty.
func (b MergedBooking) SideOption(n int) string {
	if n < 1 || n > len(b.SideOptions) {
		return ""
	}
	return b.SideOptions[n-1]
}

// PayloadRow tracks one fetched detail payload through the pipeline.
type PayloadRow struct {
	ID         int
	Hash       string
	TraceID    string
	FetchedAt  string
	OrderCount int
	Status     string
	RawRef     string
}

// LastChangedStatus is one entry from the last-changed-statuses listing.
type LastChangedStatus struct {
	ProductOrderID  string
	OrderID         string
	LastChangedType string
	LastChangedDate string
}

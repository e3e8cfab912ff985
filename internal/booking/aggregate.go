package booking

import (
	"tourdesk/internal"
	"tourdesk/internal/util"
)

// SideOptionSlots caps how many labeled side-option slots a merged
// booking carries; overflow joins into the last slot.
const SideOptionSlots = 4

const sideOptionJoin = " / "

type packageKey struct {
	orderID   string
	packageID string
}

type bookingKey struct {
	orderID   string
	packageID string
	useDate   string
}

// Aggregate folds classified line items into one MergedBooking per
// (orderId, packageId, useDate) group. It is a pure two-phase reducer:
// phase one backfills missing use-dates from a sibling main item,
// phase two folds each group. Output order is first-seen order of each
// group's key.
func Aggregate(items []internal.LineItem) []internal.MergedBooking {
	backfilled := backfillDates(items)

	order := make([]bookingKey, 0, len(backfilled))
	groups := map[bookingKey][]internal.LineItem{}
	for _, item := range backfilled {
		key := bookingKey{item.OrderID, item.PackageID, item.UseDate}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	out := make([]internal.MergedBooking, 0, len(order))
	for _, key := range order {
		out = append(out, fold(groups[key]))
	}
	return out
}

// backfillDates propagates a main item's use-date onto siblings of the
// same (orderId, packageId) whose own date is empty. When several main
// items disagree, the first in input order wins; see the design notes
// for why that ambiguity is left to the upstream owner.
func backfillDates(items []internal.LineItem) []internal.LineItem {
	dates := map[packageKey]string{}
	for _, item := range items {
		if !isMain(item) || item.UseDate == "" {
			continue
		}
		key := packageKey{item.OrderID, item.PackageID}
		if _, ok := dates[key]; !ok {
			dates[key] = item.UseDate
		}
	}

	out := make([]internal.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].UseDate != "" {
			continue
		}
		if date, ok := dates[packageKey{out[i].OrderID, out[i].PackageID}]; ok {
			out[i].UseDate = date
		}
	}
	return out
}

func fold(group []internal.LineItem) internal.MergedBooking {
	first := group[0]
	merged := internal.MergedBooking{
		OrderID:        first.OrderID,
		PackageID:      first.PackageID,
		ProductOrderID: first.ProductOrderID,
		RecipientName:  first.RecipientName,
		RecipientPhone: first.RecipientPhone,
		UseDate:        first.UseDate,
		ShippingMemo:   first.ShippingMemo,
		SideOptions:    make([]string, 0, SideOptionSlots),
	}

	for _, item := range group {
		merged.Adult += item.Adult
		merged.Child += item.Child
		merged.Senior += item.Senior
		merged.TowelCount += item.TowelCount
		merged.InitialAmount += item.InitialAmount
		merged.FinalAmount += item.FinalAmount

		// Descriptive fields are only trustworthy on main items, so a
		// side-option or towel item first in input order never names
		// the booking. The first main item's value wins.
		if isMain(item) {
			merged.UseDate = util.FirstNonEmpty(merged.UseDate, item.UseDate)
			merged.LodgingName = util.FirstNonEmpty(merged.LodgingName, item.LodgingName)
			merged.ProductName = util.FirstNonEmpty(merged.ProductName, item.ProductName)
			merged.PayMethod = util.FirstNonEmpty(merged.PayMethod, item.PayMethod)
			merged.CourseOption = util.FirstNonEmpty(merged.CourseOption, item.CourseOption)
			merged.FlightNumber = util.FirstNonEmpty(merged.FlightNumber, item.FlightNumber)
		}

		if item.SideOption != "" {
			appendSideOption(&merged, item.SideOption)
		}
	}

	return merged
}

func appendSideOption(merged *internal.MergedBooking, label string) {
	if len(merged.SideOptions) < SideOptionSlots {
		merged.SideOptions = append(merged.SideOptions, label)
		return
	}
	last := len(merged.SideOptions) - 1
	merged.SideOptions[last] += sideOptionJoin + label
}

func isMain(item internal.LineItem) bool {
	return item.Adult+item.Child+item.Senior > 0
}

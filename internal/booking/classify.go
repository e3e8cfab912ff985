package booking

import (
	"regexp"
	"strings"

	"tourdesk/internal"
	"tourdesk/internal/util"
)

// Side-option add-ons are sold as their own line items whose product
// name carries one of these marker substrings (surcharge upgrades,
// regional surcharges). They fold into a sibling main item during
// aggregation instead of standing alone.
var sideOptionMarkers = []string{
	"스피드보트 업그레이드",
	"북부지역",
	"잔금 30USD",
	"잔금 20USD",
	"북부(완납)",
	"남부(완납)",
	"중부(완납)",
	"소나시(무료)",
	"북부(잔금)",
	"남부(잔금)",
	"중부(잔금)",
}

// Rental towels are ordered through a quantity-only product.
const towelSentinel = "원하시는 개수 만큼 선택해주세요"

// Products whose headcount cannot be derived from the generic
// category/quantity rule register an override here; the registry is
// consulted before the generic path so new special cases never touch
// the classifier itself.
type productOverride struct {
	headcount func(option string, quantity int) (adult, child, senior int, ok bool)
	payMethod string
}

const rentalCarProduct = "푸꾸옥 프라이빗 렌트카 기사포함 km무제한 SUV 미니벤"

var reUserCount = regexp.MustCompile(`이용.?인원.*?:\s*(\d+)`)

var productOverrides = map[string]productOverride{
	// The rental car is booked per vehicle: quantity is the vehicle
	// count and the passenger count lives in its own option segment.
	// It is also always sold fully paid.
	rentalCarProduct: {
		headcount: func(option string, quantity int) (int, int, int, bool) {
			m := reUserCount.FindStringSubmatch(util.NormalizeOption(option))
			if m == nil {
				return 0, 0, 0, false
			}
			return util.Atoi(m[1]), 0, 0, true
		},
		payMethod: "완납",
	},
}

// Products that carry a second main option in their text; the extra
// option is appended to the course option rather than reported as a
// separate field.
var secondaryCourseProducts = map[string]bool{
	"[푸꾸옥 에센셜] 프라이빗 모닝투어 체크인 비엣젯, 제주항공, 진에어, 대한항공": true,
}

// ExtractAndClassify converts raw line items into classified LineItems.
// It is a pure per-item transform; grouping happens in Aggregate.
func ExtractAndClassify(raws []internal.RawLineItem) []internal.LineItem {
	out := make([]internal.LineItem, 0, len(raws))
	for _, raw := range raws {
		out = append(out, classifyOne(raw))
	}
	return out
}

func classifyOne(raw internal.RawLineItem) internal.LineItem {
	fields := ExtractFields(raw.ProductOption)

	item := internal.LineItem{
		OrderID:        raw.OrderID,
		PackageID:      raw.PackageID,
		ProductOrderID: raw.ProductOrderID,
		RecipientName:  raw.RecipientName,
		RecipientPhone: raw.RecipientPhone,
		UseDate:        NormalizeDate(fields.UseDate),
		LodgingName:    fields.LodgingName,
		ProductName:    raw.ProductName,
		CourseOption:   fields.CourseOption,
		PayMethod:      fields.PayMethod,
		FlightNumber:   fields.FlightNumber,
		ShippingMemo:   raw.ShippingMemo,
		InitialAmount:  raw.InitialAmount,
		FinalAmount:    raw.FinalAmount,
	}

	if secondaryCourseProducts[raw.ProductName] && fields.SecondaryCourse != "" {
		if item.CourseOption == "" {
			item.CourseOption = fields.SecondaryCourse
		} else {
			item.CourseOption += " / " + fields.SecondaryCourse
		}
	}

	// Side-option and towel checks run before the headcount
	// computation: both suppress it.
	switch {
	case isSideOption(raw.ProductName):
		item.SideOption = raw.ProductName
	case isTowelItem(raw.ProductName):
		item.TowelCount = raw.Quantity
	default:
		item.Adult, item.Child, item.Senior = headcount(raw, fields)
		if ov, ok := productOverrides[raw.ProductName]; ok && ov.payMethod != "" {
			item.PayMethod = ov.payMethod
		}
	}

	return item
}

func headcount(raw internal.RawLineItem, fields Fields) (adult, child, senior int) {
	if ov, ok := productOverrides[raw.ProductName]; ok && ov.headcount != nil {
		if a, c, s, ok := ov.headcount(raw.ProductOption, raw.Quantity); ok {
			return a, c, s
		}
	}
	return SplitCategory(fields.Category, raw.Quantity)
}

func isSideOption(productName string) bool {
	for _, marker := range sideOptionMarkers {
		if strings.Contains(productName, marker) {
			return true
		}
	}
	return false
}

func isTowelItem(productName string) bool {
	return strings.Contains(productName, towelSentinel)
}

package naver

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tourdesk/internal"
)

// The detail response nests each line item as
// data[].productOrder / data[].order, with shippingAddress inside the
// product order. Fields are converted defensively: a missing field is
// an empty string or zero, never an error. The one structural defect
// treated as fatal is a product identifier of the wrong JSON type,
// since the merge key would be garbage for every sibling item.

type detailEnvelope struct {
	Timestamp string `json:"timestamp"`
	TraceID   string `json:"traceId"`
	Data      []struct {
		ProductOrder map[string]any `json:"productOrder"`
		Order        map[string]any `json:"order"`
	} `json:"data"`
}

// ParseOrderDetail converts one raw detail payload into line items and
// their order envelopes, in payload order.
func ParseOrderDetail(raw []byte) ([]internal.RawLineItem, []internal.OrderInfo, error) {
	var envelope detailEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("decode order detail: %w", err)
	}

	items := make([]internal.RawLineItem, 0, len(envelope.Data))
	orders := make([]internal.OrderInfo, 0, len(envelope.Data))
	for i, elem := range envelope.Data {
		po := elem.ProductOrder
		shipping, _ := po["shippingAddress"].(map[string]any)

		packageID, err := asID(po["productId"])
		if err != nil {
			return nil, nil, fmt.Errorf("line item %d: productId: %w", i, err)
		}

		items = append(items, internal.RawLineItem{
			OrderID:        asString(elem.Order["orderId"]),
			PackageID:      packageID,
			ProductOrderID: asString(po["productOrderId"]),
			ProductName:    asString(po["productName"]),
			ProductOption:  asString(po["productOption"]),
			Quantity:       asInt(po["quantity"]),
			RecipientName:  asString(shipping["name"]),
			RecipientPhone: asString(shipping["tel1"]),
			ShippingMemo:   asString(po["shippingMemo"]),
			InitialAmount:  asInt(po["initialProductAmount"]),
			FinalAmount:    asInt(po["finalProductAmount"]),
		})

		orders = append(orders, internal.OrderInfo{
			OrderID:         asString(elem.Order["orderId"]),
			OrderDate:       asString(elem.Order["orderDate"]),
			OrdererID:       asString(elem.Order["ordererId"]),
			OrdererName:     asString(elem.Order["ordererName"]),
			OrdererTel:      asString(elem.Order["ordererTel"]),
			PayLocationType: asString(elem.Order["payLocationType"]),
		})
	}

	return items, orders, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		n, _ := t.Int64()
		return int(n)
	default:
		return 0
	}
}

// asID accepts the string and numeric spellings the platform uses for
// identifiers; anything else is a structural defect.
func asID(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatInt(int64(t), 10), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unexpected type %T", v)
	}
}

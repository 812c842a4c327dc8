package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Order is the root record of a customer purchase.
type Order struct {
	ID         string     `json:"id,omitempty"`
	CustomerID string     `json:"customer_id"`
	OrderDate  string     `json:"order_date,omitempty"`
	Status     Status     `json:"status"`
	Items      []LineItem `json:"order_items"`
}

// LineItem is a single product entry within an order. Quantity and Price are
// kept as entered; the service owns coercion and validation.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
}

// FirstItem returns the line item the form edits. The boolean is false when
// the order carries no items.
func (o Order) FirstItem() (LineItem, bool) {
	if len(o.Items) == 0 {
		return LineItem{}, false
	}
	return o.Items[0], true
}

type wireOrder struct {
	ID         Text      `json:"id"`
	OrderID    Text      `json:"order_id"`
	CustomerID Text      `json:"customer_id"`
	OrderDate  Text      `json:"order_date"`
	Status     Text      `json:"status"`
	Items      wireItems `json:"order_items"`
}

type wireLineItem struct {
	ProductID Text `json:"product_id"`
	Name      Text `json:"name"`
	Quantity  Text `json:"quantity"`
	Price     Text `json:"price"`
}

// wireItems accepts a list of item objects or a single item object. Any other
// shape decodes to no items, and list elements that are not objects are
// skipped.
type wireItems []wireLineItem

func (w *wireItems) UnmarshalJSON(data []byte) error {
	*w = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var item wireLineItem
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil
		}
		*w = wireItems{item}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
		for _, elem := range raw {
			elem = bytes.TrimSpace(elem)
			if len(elem) == 0 || elem[0] != '{' {
				continue
			}
			var item wireLineItem
			if err := json.Unmarshal(elem, &item); err != nil {
				continue
			}
			*w = append(*w, item)
		}
	}
	return nil
}

// UnmarshalJSON decodes an order regardless of whether the service sent
// scalars as strings or numbers. Payloads that only carry "order_id" (as
// some delete responses do) populate ID from it.
func (o *Order) UnmarshalJSON(data []byte) error {
	var wire wireOrder
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("order: decode: %w", err)
	}

	id := wire.ID
	if id == "" {
		id = wire.OrderID
	}

	*o = Order{
		ID:         string(id),
		CustomerID: string(wire.CustomerID),
		OrderDate:  string(wire.OrderDate),
		Status:     Status(wire.Status),
	}
	if len(wire.Items) > 0 {
		o.Items = make([]LineItem, len(wire.Items))
		for i, item := range wire.Items {
			o.Items[i] = LineItem{
				ProductID: string(item.ProductID),
				Name:      string(item.Name),
				Quantity:  string(item.Quantity),
				Price:     string(item.Price),
			}
		}
	}
	return nil
}

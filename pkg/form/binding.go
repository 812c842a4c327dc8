package form

import (
	"github.com/goliatone/go-orderdesk/pkg/order"
)

// Binding maps between the flat fields and an order.Order.
type Binding struct {
	fields Fields
}

// NewBinding binds to the provided field store. A nil store falls back to
// an empty State.
func NewBinding(fields Fields) *Binding {
	if fields == nil {
		fields = NewState(nil)
	}
	return &Binding{fields: fields}
}

// Fields exposes the underlying store.
func (b *Binding) Fields() Fields {
	return b.fields
}

// CollectPayload reads every bound field into a fresh order with exactly
// one line item. Nothing is required here; the service validates.
func (b *Binding) CollectPayload() order.Order {
	return order.Order{
		ID:         b.fields.Get(FieldOrderID),
		CustomerID: b.fields.Get(FieldCustomerID),
		Status:     order.Status(b.fields.Get(FieldStatus)),
		Items: []order.LineItem{
			{
				ProductID: b.fields.Get(FieldProductID),
				Name:      b.fields.Get(FieldItemName),
				Quantity:  b.fields.Get(FieldItemQty),
				Price:     b.fields.Get(FieldItemPrice),
			},
		},
	}
}

// ApplyResponse writes a server order back into the fields. An order
// without line items blanks the item fields.
func (b *Binding) ApplyResponse(record order.Order) {
	b.fields.Set(FieldOrderID, record.ID)
	b.fields.Set(FieldCustomerID, record.CustomerID)
	b.fields.Set(FieldOrderDate, record.OrderDate)
	b.fields.Set(FieldStatus, string(record.Status))

	item, _ := record.FirstItem()
	b.fields.Set(FieldProductID, item.ProductID)
	b.fields.Set(FieldItemName, item.Name)
	b.fields.Set(FieldItemQty, item.Quantity)
	b.fields.Set(FieldItemPrice, item.Price)
}

// Clear resets every field to empty and the status to order.DefaultStatus.
func (b *Binding) Clear() {
	for _, name := range fieldNames {
		b.fields.Set(name, "")
	}
	b.fields.Set(FieldStatus, string(order.DefaultStatus))
}

// CurrentOrderID returns the identifier field as entered.
func (b *Binding) CurrentOrderID() string {
	return b.fields.Get(FieldOrderID)
}

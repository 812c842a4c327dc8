// Package form binds the operator's flat input fields to the nested order
// record. The binding never reaches for page state on its own: callers
// inject a Fields implementation, so the same logic serves the terminal
// session, the browser front-end and tests.
package form

// Input names shared by every front-end.
const (
	FieldOrderID    = "order_id"
	FieldCustomerID = "customer_id"
	FieldOrderDate  = "order_date"
	FieldStatus     = "order_status"
	FieldProductID  = "product_id"
	FieldItemName   = "item_name"
	FieldItemQty    = "item_qty"
	FieldItemPrice  = "item_price"
)

var fieldNames = []string{
	FieldOrderID,
	FieldCustomerID,
	FieldOrderDate,
	FieldStatus,
	FieldProductID,
	FieldItemName,
	FieldItemQty,
	FieldItemPrice,
}

// FieldNames lists every bound field in display order.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// Fields is the accessor/mutator pair the binding reads and writes through.
type Fields interface {
	Get(name string) string
	Set(name, value string)
}

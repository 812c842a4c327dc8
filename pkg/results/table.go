// Package results turns a list response into the rows of the results table.
package results

import "github.com/goliatone/go-orderdesk/pkg/order"

// Header is the fixed column set of the results table.
var Header = []string{"ID", "Customer ID", "Product ID", "Name", "Quantity", "Price", "Status"}

// Table is a rendered-agnostic results table: one header row plus one row
// per order. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Build converts orders into a Table. Line-item columns read the first
// item; orders without items get blank cells.
func Build(orders []order.Order) Table {
	table := Table{
		Header: append([]string(nil), Header...),
		Rows:   make([][]string, 0, len(orders)),
	}
	for _, record := range orders {
		table.Rows = append(table.Rows, Row(record))
	}
	return table
}

// Row returns the cells for a single order.
func Row(record order.Order) []string {
	item, _ := record.FirstItem()
	return []string{
		record.ID,
		record.CustomerID,
		item.ProductID,
		item.Name,
		item.Quantity,
		item.Price,
		string(record.Status),
	}
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

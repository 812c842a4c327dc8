// Package order defines the order record exchanged with the orders service.
//
// The service speaks snake_case JSON and answers numeric identifiers,
// quantities and prices as JSON numbers, while the operator form sends them
// back as strings. Order and LineItem therefore decode every scalar
// tolerantly into its textual form and always encode strings.
package order

package schema

var lineItem = Object(
	Required("sku", String()),
	Required("name", String()),
	Required("qty", Integer().Min(1)),
	Required("unit_price", Number().Min(0)),
)

var address = Object(
	Required("line1", String()),
	Optional("line2", String()),
	Required("city", String()),
	Required("state", String()),
	Required("postal_code", String()),
	Required("country", String()),
)

var salesTransaction = Object(
	Required("order_id", String()),
	Required("customer_id", String()),
	Required("order_date", String().WithFormat(FormatDateTime)),
	Required("source", String()),
	Required("items", Array(lineItem)),
	Required("shipping_address", address),
	Required("payment_method", String()),
	Required("total_amount", Number().Min(0)),
)

// SalesTransaction returns the schema every ingested payload must satisfy.
// The returned tree is shared process-wide and must not be modified.
//
// items carries no minimum length: an empty list is a valid transaction.
func SalesTransaction() *Schema {
	return salesTransaction
}

package outbound

const (
	TopicOutboundOrders = "outbound.orders"
	TopicStockAdjusted  = "inventory.stock.adjusted"
)

// Partition key = order id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

// Stock event di-key per product: semua perubahan stok 1 product masuk partition
// (dan worker ledger) yang sama, walaupun datang dari order berbeda.
func StockKey(productID string) []byte { return []byte(productID) }

package orders

const (
	TopicOrderCreated = "storefront.order.created"
	TopicOrderStatus  = "storefront.order.status"
)

// Partition key = order id, so every event of one order keeps its order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

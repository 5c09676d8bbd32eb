package payment

type OrderItem struct {
	ID       string
	Quantity int
}

// Order is an immutable, ordered list of items for one payment attempt.
type Order struct {
	items []OrderItem
}

func NewOrder(items ...OrderItem) Order {
	return Order{items: append([]OrderItem(nil), items...)}
}

// Items returns a copy so callers cannot mutate the order.
func (o Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

func (o Order) Len() int      { return len(o.items) }
func (o Order) IsEmpty() bool { return len(o.items) == 0 }

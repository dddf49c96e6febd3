package cart

// Item is one cart line: a product in a specific size.
type Item struct {
	ProductID int64
	Size      string
	Quantity  int64
}

type DetailedItem struct {
	Item
	ProductName  string
	ProductPrice float64
}

type Cart struct {
	UserID int64
	Items  []DetailedItem
}

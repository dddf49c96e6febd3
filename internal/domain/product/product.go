package product

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Sizes       []string
	Category    string
	IsActive    bool
}

type ListFilter struct {
	Category   string
	OnlyActive bool
}

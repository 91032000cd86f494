package domain

// Product is one row of products.csv
type Product struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	AisleID      int64  `json:"aisle_id"`
	DepartmentID int64  `json:"department_id"`
}

// Aisle is one row of aisles.csv
type Aisle struct {
	AisleID int64  `json:"aisle_id"`
	Aisle   string `json:"aisle"`
}

// Department is one row of departments.csv
type Department struct {
	DepartmentID int64  `json:"department_id"`
	Department   string `json:"department"`
}

// Order is one row of orders.csv.
// DaysSincePriorOrder is only meaningful when HasPriorOrder is set; a customer's
// first order carries no gap.
type Order struct {
	OrderID             int64 `json:"order_id"`
	UserID              int64 `json:"user_id"`
	OrderDOW            int   `json:"order_dow"`
	OrderHourOfDay      int   `json:"order_hour_of_day"`
	DaysSincePriorOrder int   `json:"days_since_prior_order"`
	HasPriorOrder       bool  `json:"has_prior_order"`
}

// OrderLine is one row of order_products__prior.csv
type OrderLine struct {
	OrderID        int64 `json:"order_id"`
	ProductID      int64 `json:"product_id"`
	AddToCartOrder int   `json:"add_to_cart_order"`
	Reordered      bool  `json:"reordered"`
}

// EnrichedOrderLine is an order line joined with its order, product, aisle and department.
type EnrichedOrderLine struct {
	OrderID             int64  `json:"order_id"`
	UserID              int64  `json:"user_id"`
	OrderDOW            int    `json:"order_dow"`
	OrderHourOfDay      int    `json:"order_hour_of_day"`
	DaysSincePriorOrder int    `json:"days_since_prior_order"`
	HasPriorOrder       bool   `json:"has_prior_order"`
	ProductID           int64  `json:"product_id"`
	AddToCartOrder      int    `json:"add_to_cart_order"`
	Reordered           bool   `json:"reordered"`
	ProductName         string `json:"product_name"`
	Aisle               string `json:"aisle"`
	Department          string `json:"department"`
}

// LineKey identifies an order line
type LineKey struct {
	OrderID   int64
	ProductID int64
}

// Key returns the primary key tuple of the line
func (l EnrichedOrderLine) Key() LineKey {
	return LineKey{OrderID: l.OrderID, ProductID: l.ProductID}
}

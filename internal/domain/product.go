package domain

// Product is one catalog item as served to the storefront. Products are
// owned by the upstream catalog; once published in a snapshot they are
// treated as immutable.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// InStock reports whether the product can currently be ordered.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

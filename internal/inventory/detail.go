package inventory

type PackageDetail struct {
	PackageID   string  `json:"packageId"`
	PackageName string  `json:"packageName"`
	Missing     bool    `json:"missing,omitempty"` // paket sudah dihapus
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type ProductDetail struct {
	PackageID   string  `json:"packageId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Brand       string  `json:"brand"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderDetail breaks an order down against current packages and products.
// TotalPrice is the stored snapshot and may differ from the sum of subtotals.
type OrderDetail struct {
	Order      OutboundOrder   `json:"order"`
	TotalPrice float64         `json:"totalPrice"`
	Packages   []PackageDetail `json:"packages"`
	Products   []ProductDetail `json:"products"`
}

func BuildOrderDetail(o OutboundOrder, packages []Package, products []Product) OrderDetail {
	d := OrderDetail{
		Order:      o,
		TotalPrice: o.TotalPrice,
		Packages:   make([]PackageDetail, 0, len(o.Packages)),
		Products:   []ProductDetail{},
	}
	for _, ol := range o.Packages {
		pkg, ok := FindPackage(packages, ol.PackageID)
		if !ok {
			d.Packages = append(d.Packages, PackageDetail{PackageID: ol.PackageID, Missing: true, Quantity: ol.Quantity})
			continue
		}
		price := PackagePrice(pkg, products)
		d.Packages = append(d.Packages, PackageDetail{
			PackageID:   pkg.ID,
			PackageName: pkg.Name,
			Quantity:    ol.Quantity,
			Price:       price,
			Subtotal:    price * float64(ol.Quantity),
		})
		for _, pl := range pkg.Products {
			p, ok := FindProduct(products, pl.ProductID)
			if !ok {
				continue
			}
			qty := pl.Quantity * ol.Quantity
			d.Products = append(d.Products, ProductDetail{
				PackageID:   pkg.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Brand:       p.Brand,
				UnitPrice:   p.Price,
				Quantity:    qty,
				Subtotal:    p.Price * float64(qty),
			})
		}
	}
	return d
}

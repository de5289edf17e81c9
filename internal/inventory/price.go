package inventory

// PackagePrice sums price*quantity over the package's products. A product id
// that no longer exists contributes 0.
func PackagePrice(pkg Package, products []Product) float64 {
	var total float64
	for _, it := range pkg.Products {
		if p, ok := FindProduct(products, it.ProductID); ok {
			total += p.Price * float64(it.Quantity)
		}
	}
	return total
}

// FormPackagePrice is PackagePrice for lines that are still being edited:
// entries without productId or quantity are skipped.
func FormPackagePrice(lines []ProductLine, products []Product) float64 {
	var total float64
	for _, it := range lines {
		if it.ProductID == "" || it.Quantity == 0 {
			continue
		}
		if p, ok := FindProduct(products, it.ProductID); ok {
			total += p.Price * float64(it.Quantity)
		}
	}
	return total
}

// OrderTotal prices outbound order lines. Incomplete lines and missing
// packages contribute 0.
func OrderTotal(lines []PackageLine, packages []Package, products []Product) float64 {
	var total float64
	for _, it := range lines {
		if it.PackageID == "" || it.Quantity == 0 {
			continue
		}
		if pkg, ok := FindPackage(packages, it.PackageID); ok {
			total += PackagePrice(pkg, products) * float64(it.Quantity)
		}
	}
	return total
}

package inventory

import "context"

// ReconcileStock applies the net stock change of replacing prev with next.
// prev == nil is the create path. Packages and products are read once before
// any write, so every product is written at most once, against the stock it
// had when the pass started. Missing packages or products are skipped.
func ReconcileStock(ctx context.Context, repo Repository, next, prev []PackageLine) ([]StockAdjustment, error) {
	packages, err := repo.Packages(ctx)
	if err != nil {
		return nil, err
	}
	products, err := repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	deltas := map[string]int{}
	var order []string // urutan pertama kali muncul
	accumulate := func(lines []PackageLine, sign int) {
		for _, ol := range lines {
			pkg, ok := FindPackage(packages, ol.PackageID)
			if !ok {
				continue
			}
			for _, pl := range pkg.Products {
				if _, seen := deltas[pl.ProductID]; !seen {
					order = append(order, pl.ProductID)
				}
				deltas[pl.ProductID] += sign * pl.Quantity * ol.Quantity
			}
		}
	}
	accumulate(prev, +1) // kembalikan stok order lama
	accumulate(next, -1) // konsumsi stok order baru

	var applied []StockAdjustment
	for _, id := range order {
		delta := deltas[id]
		if delta == 0 {
			continue
		}
		p, ok := FindProduct(products, id)
		if !ok {
			continue
		}
		p.Stock += delta
		if err := repo.UpdateProduct(ctx, p); err != nil {
			return applied, err
		}
		applied = append(applied, StockAdjustment{ProductID: id, Delta: delta, Stock: p.Stock})
	}
	return applied, nil
}

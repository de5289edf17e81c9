package inventory

import (
	"errors"
	"fmt"
)

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Brand string  `json:"brand"`
	Stock int     `json:"stock"` // boleh negatif (oversell)
	Image string  `json:"image"`
}

// OutOfStock: stok habis atau minus, ditandai di list produk.
func (p Product) OutOfStock() bool { return p.Stock <= 0 }

// Oversold: keluar lebih banyak dari stok yang ada.
func (p Product) Oversold() bool { return p.Stock < 0 }

type ProductLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Package struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Products []ProductLine `json:"products"`
}

type PackageLine struct {
	PackageID string `json:"packageId"`
	Quantity  int    `json:"quantity"`
}

// OutboundOrder. TotalPrice adalah snapshot saat create/update, tidak dihitung ulang.
type OutboundOrder struct {
	ID         string        `json:"id"`
	Packages   []PackageLine `json:"packages"`
	TotalPrice float64       `json:"totalPrice"`
	Note       string        `json:"note"`
	CreatedAt  string        `json:"createdAt"`
}

// StockAdjustment is one product's net stock change from a reconciliation pass.
type StockAdjustment struct {
	ProductID string `json:"productId"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
}

func (a StockAdjustment) Oversold() bool { return a.Stock < 0 }

var (
	ErrDecode     = errors.New("decode failure")
	ErrMalformed  = errors.New("malformed data")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate checks the fields the product form requires.
func (p Product) Validate() error {
	switch {
	case p.Name == "":
		return invalid("name is required")
	case p.Brand == "":
		return invalid("brand is required")
	case p.Image == "":
		return invalid("image is required")
	case p.Price < 0:
		return invalid("price must be >= 0")
	}
	return nil
}

func (p Package) Validate() error {
	if p.Name == "" {
		return invalid("name is required")
	}
	if len(p.Products) == 0 {
		return invalid("at least one product is required")
	}
	for i, l := range p.Products {
		if l.ProductID == "" {
			return invalid("products[%d]: productId is required", i)
		}
		if l.Quantity < 1 {
			return invalid("products[%d]: quantity must be >= 1", i)
		}
	}
	return nil
}

func ValidatePackageLines(lines []PackageLine) error {
	if len(lines) == 0 {
		return invalid("at least one package is required")
	}
	for i, l := range lines {
		if l.PackageID == "" {
			return invalid("packages[%d]: packageId is required", i)
		}
		if l.Quantity < 1 {
			return invalid("packages[%d]: quantity must be >= 1", i)
		}
	}
	return nil
}

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderDetail(t *testing.T) {
	products := []Product{{ID: "a", Name: "A", Brand: "acme", Price: 10}}
	packages := []Package{{ID: "P", Name: "Starter", Products: []ProductLine{
		{ProductID: "a", Quantity: 2},
		{ProductID: "removed", Quantity: 1},
	}}}
	order := OutboundOrder{
		ID:         "o1",
		TotalPrice: 999, // snapshot lama
		Packages: []PackageLine{
			{PackageID: "P", Quantity: 3},
			{PackageID: "deleted", Quantity: 4},
		},
	}

	d := BuildOrderDetail(order, packages, products)

	assert.Equal(t, 999.0, d.TotalPrice)
	require.Len(t, d.Packages, 2)
	assert.Equal(t, PackageDetail{PackageID: "P", PackageName: "Starter", Quantity: 3, Price: 20, Subtotal: 60}, d.Packages[0])
	assert.Equal(t, PackageDetail{PackageID: "deleted", Missing: true, Quantity: 4}, d.Packages[1])
	require.Len(t, d.Products, 1)
	assert.Equal(t, ProductDetail{
		PackageID: "P", ProductID: "a", ProductName: "A", Brand: "acme",
		UnitPrice: 10, Quantity: 6, Subtotal: 60,
	}, d.Products[0])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Product{Name: "A", Brand: "b", Image: "i"}.Validate())
	assert.ErrorIs(t, Product{Brand: "b", Image: "i"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Product{Name: "A", Brand: "b", Image: "i", Price: -1}.Validate(), ErrValidation)
	assert.NoError(t, Product{Name: "A", Brand: "b", Image: "i", Stock: -4}.Validate())

	assert.NoError(t, Package{Name: "P", Products: []ProductLine{{ProductID: "a", Quantity: 1}}}.Validate())
	assert.ErrorIs(t, Package{Name: "P"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Package{Name: "P", Products: []ProductLine{{ProductID: "a"}}}.Validate(), ErrValidation)

	assert.NoError(t, ValidatePackageLines([]PackageLine{{PackageID: "P", Quantity: 1}}))
	assert.ErrorIs(t, ValidatePackageLines(nil), ErrValidation)
	assert.ErrorIs(t, ValidatePackageLines([]PackageLine{{Quantity: 1}}), ErrValidation)

	assert.True(t, Product{Stock: 0}.OutOfStock())
	assert.True(t, Product{Stock: -1}.OutOfStock())
	assert.False(t, Product{Stock: 1}.OutOfStock())

	assert.False(t, Product{Stock: 0}.Oversold())
	assert.True(t, Product{Stock: -1}.Oversold())
	assert.True(t, StockAdjustment{Stock: -1}.Oversold())
	assert.False(t, StockAdjustment{Stock: 0}.Oversold())
}

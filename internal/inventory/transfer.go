package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Document is the whole-store export/import format.
type Document struct {
	Products       []Product       `json:"products"`
	Packages       []Package       `json:"packages"`
	OutboundOrders []OutboundOrder `json:"outboundOrders"`
	ExportDate     string          `json:"exportDate"`
}

func Export(ctx context.Context, repo Repository, now time.Time) (Document, error) {
	products, err := repo.Products(ctx)
	if err != nil {
		return Document{}, err
	}
	packages, err := repo.Packages(ctx)
	if err != nil {
		return Document{}, err
	}
	orders, err := repo.OutboundOrders(ctx)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Products:       products,
		Packages:       packages,
		OutboundOrders: orders,
		ExportDate:     FormatTime(now),
	}, nil
}

// ExportFilename is the suggested download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("inventory-data-%s.json", t.UTC().Format("2006-01-02"))
}

// Import replaces all three collections with the ones in raw. Only the
// presence of the three keys is checked. Collections are written one after
// another; a storage error part way leaves the earlier ones replaced.
func Import(ctx context.Context, repo Repository, raw []byte) (Document, error) {
	var in struct {
		Products       *[]Product       `json:"products"`
		Packages       *[]Package       `json:"packages"`
		OutboundOrders *[]OutboundOrder `json:"outboundOrders"`
		ExportDate     string           `json:"exportDate"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if in.Products == nil || in.Packages == nil || in.OutboundOrders == nil {
		return Document{}, fmt.Errorf("%w: products, packages and outboundOrders are required", ErrMalformed)
	}

	doc := Document{
		Products:       *in.Products,
		Packages:       *in.Packages,
		OutboundOrders: *in.OutboundOrders,
		ExportDate:     in.ExportDate,
	}
	if err := repo.ReplaceProducts(ctx, doc.Products); err != nil {
		return doc, err
	}
	if err := repo.ReplacePackages(ctx, doc.Packages); err != nil {
		return doc, err
	}
	if err := repo.ReplaceOutboundOrders(ctx, doc.OutboundOrders); err != nil {
		return doc, err
	}
	return doc, nil
}

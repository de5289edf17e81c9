package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	"github.com/ariefcatur/go-outbound-inventory/internal/logger"
	"github.com/ariefcatur/go-outbound-inventory/internal/outbound"
	"github.com/go-chi/chi/v5"
)

const maxImportBytes = 10 << 20

// InventoryHandler exposes the catalog, packages, outbound orders and
// export/import over HTTP. Mutations are serialized with mu because the
// store does unlocked read-modify-write of whole collections.
type InventoryHandler struct {
	Repo     inventory.Repository
	Outbound *outbound.Service
	Now      func() time.Time

	mu sync.Mutex
}

type packageView struct {
	inventory.Package
	Price float64 `json:"price"`
}

type priceResp struct {
	TotalPrice float64 `json:"totalPrice"`
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/out-of-stock", h.listOutOfStock)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
	r.Route("/packages", func(r chi.Router) {
		r.Get("/", h.listPackages)
		r.Post("/", h.createPackage)
		r.Post("/preview-price", h.previewPackagePrice)
		r.Get("/{id}/price", h.packagePrice)
		r.Put("/{id}", h.updatePackage)
		r.Delete("/{id}", h.deletePackage)
	})
	r.Route("/outbound", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)
		r.Post("/preview-price", h.previewOrderPrice)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateOrder)
		r.Delete("/{id}", h.deleteOrder)
	})
	r.Get("/transfer/export", h.exportData)
	r.Post("/transfer/import", h.importData)
}

func (h *InventoryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// ---- products ----

func (h *InventoryHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Repo.Products(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *InventoryHandler) listOutOfStock(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Repo.Products(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := []inventory.Product{}
	for _, p := range ps {
		if p.OutOfStock() {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p inventory.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.Repo.AddProduct(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *InventoryHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p inventory.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid json")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Repo.UpdateProduct(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// deleteProduct does not touch packages that still reference the product.
func (h *InventoryHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Repo.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- packages ----

func (h *InventoryHandler) listPackages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pkgs, err := h.Repo.Packages(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	products, err := h.Repo.Products(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]packageView, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, packageView{Package: p, Price: inventory.PackagePrice(p, products)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) packagePrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pkgs, err := h.Repo.Packages(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg, ok := inventory.FindPackage(pkgs, chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, fmt.Errorf("package %s: %w", chi.URLParam(r, "id"), inventory.ErrNotFound))
		return
	}
	products, err := h.Repo.Products(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResp{TotalPrice: inventory.PackagePrice(pkg, products)})
}

func (h *InventoryHandler) previewPackagePrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products []inventory.ProductLine `json:"products"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	products, err := h.Repo.Products(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResp{TotalPrice: inventory.FormPackagePrice(req.Products, products)})
}

func (h *InventoryHandler) createPackage(w http.ResponseWriter, r *http.Request) {
	var p inventory.Package
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.Repo.AddPackage(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *InventoryHandler) updatePackage(w http.ResponseWriter, r *http.Request) {
	var p inventory.Package
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid json")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Repo.UpdatePackage(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *InventoryHandler) deletePackage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Repo.DeletePackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- outbound orders ----

func (h *InventoryHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Outbound.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *InventoryHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	d, err := h.Outbound.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *InventoryHandler) previewOrderPrice(w http.ResponseWriter, r *http.Request) {
	var req outbound.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	total, err := h.Outbound.Preview(r.Context(), req.Packages)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResp{TotalPrice: total})
}

func (h *InventoryHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req outbound.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.Outbound.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *InventoryHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req outbound.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.Outbound.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *InventoryHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Outbound.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- transfer ----

func (h *InventoryHandler) exportData(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	doc, err := inventory.Export(r.Context(), h.Repo, now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, inventory.ExportFilename(now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *InventoryHandler) importData(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		badRequest(w, "read body failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	doc, err := inventory.Import(r.Context(), h.Repo, raw)
	if err != nil {
		if errors.Is(err, inventory.ErrDecode) {
			badRequest(w, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}
	logger.Info(r.Context()).
		Int("products", len(doc.Products)).
		Int("packages", len(doc.Packages)).
		Int("outbound_orders", len(doc.OutboundOrders)).
		Str("export_date", doc.ExportDate).
		Msg("data imported")
	writeJSON(w, http.StatusOK, map[string]int{
		"products":       len(doc.Products),
		"packages":       len(doc.Packages),
		"outboundOrders": len(doc.OutboundOrders),
	})
}

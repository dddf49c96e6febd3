package http

import (
	"net/http"

	domproduct "example.com/threadcart/app/internal/domain/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domproduct.ListFilter{
		Category:   r.URL.Query().Get("category"),
		OnlyActive: true,
	}

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	mapped := make([]map[string]any, 0, len(products))
	for _, p := range products {
		mapped = append(mapped, mapProduct(p))
	}
	respondData(w, http.StatusOK, mapped)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, mapProduct(p))
}

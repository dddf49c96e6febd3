package http

import (
	"net/http"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	orderuc "example.com/threadcart/app/internal/usecase/order"
)

type orderLineRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Size      string `json:"size" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Items         []orderLineRequest `json:"items" validate:"dive"`
	Address       domorder.Address   `json:"address"`
	PaymentMethod string             `json:"payment_method" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req placeOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]domcart.Item, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, domcart.Item{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}

	result, err := a.orderSvc.Place(r.Context(), user.UserID, orderuc.PlaceInput{
		Items:   items,
		Address: req.Address,
		Method:  domorder.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	data := map[string]any{"order": mapOrder(result.Order)}
	if result.RedirectURL != "" {
		data["redirect_url"] = result.RedirectURL
	}
	if result.Intent != nil {
		data["intent"] = mapIntent(result.Intent)
	}
	respondData(w, http.StatusCreated, data)
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	orders, err := a.orderSvc.ListForUser(r.Context(), user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, mapOrders(orders))
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.ListAll(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, mapOrders(orders))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.SetStatus(r.Context(), id, domorder.Status(req.Status))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, mapOrder(o))
}

func mapOrders(orders []*domorder.Order) []map[string]any {
	mapped := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		mapped = append(mapped, mapOrder(o))
	}
	return mapped
}

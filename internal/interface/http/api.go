package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	domproduct "example.com/threadcart/app/internal/domain/product"
	domuser "example.com/threadcart/app/internal/domain/user"
	"example.com/threadcart/app/internal/pkg/metrics"
	authuc "example.com/threadcart/app/internal/usecase/auth"
	cartuc "example.com/threadcart/app/internal/usecase/cart"
	orderuc "example.com/threadcart/app/internal/usecase/order"
	paymentuc "example.com/threadcart/app/internal/usecase/payment"
	productuc "example.com/threadcart/app/internal/usecase/product"
)

type API struct {
	authSvc    *authuc.Service
	productSvc *productuc.Service
	cartSvc    *cartuc.Service
	orderSvc   *orderuc.Service
	verifySvc  *paymentuc.VerificationService
	validator  *validator.Validate
	tokenSvc   authuc.TokenService
}

type Dependencies struct {
	AuthService         *authuc.Service
	ProductService      *productuc.Service
	CartService         *cartuc.Service
	OrderService        *orderuc.Service
	VerificationService *paymentuc.VerificationService
	TokenService        authuc.TokenService
}

func NewAPI(deps Dependencies) *API {
	return &API{
		authSvc:    deps.AuthService,
		productSvc: deps.ProductService,
		cartSvc:    deps.CartService,
		orderSvc:   deps.OrderService,
		verifySvc:  deps.VerificationService,
		tokenSvc:   deps.TokenService,
		validator:  validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me/cart", a.handleGetCart)
			pr.Post("/me/cart/items", a.handleAddCartItem)
			pr.Put("/me/cart/items", a.handleUpdateCartItem)
			pr.Post("/me/orders", a.handlePlaceOrder)
			pr.Get("/me/orders", a.handleListMyOrders)
			pr.Post("/me/payments/hosted/verify", a.handleVerifyHosted)
			pr.Post("/me/payments/two-phase/verify", a.handleVerifyTwoPhase)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin))

			ar.Route("/admin/orders", func(rr chi.Router) {
				rr.Get("/", a.handleListOrders)
				rr.Patch("/{id}", a.handleUpdateOrderStatus)
			})
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

// envelope is the uniform response shape for every operation: callers
// only ever see {success, message?, data?}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

// handleDomainError collapses every internal error kind into the uniform
// envelope at the boundary. Internal detail never leaks inconsistently;
// only the HTTP status hints at the category.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrMissingAddress),
		errors.Is(err, domorder.ErrInvalidStatus):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domuser.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized),
		errors.Is(err, domuser.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domorder.ErrGateway):
		respondError(w, http.StatusBadGateway, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"sizes":       p.Sizes,
		"category":    p.Category,
		"is_active":   p.IsActive,
	}
}

func mapCart(cart *domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"size":       item.Size,
			"quantity":   item.Quantity,
			"name":       item.ProductName,
			"price":      item.ProductPrice,
		})
	}
	return map[string]any{
		"user_id": cart.UserID,
		"items":   items,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"size":       item.Size,
			"unit_price": item.UnitPrice,
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":                o.ID,
		"user_id":           o.UserID,
		"status":            o.Status,
		"payment_method":    o.PaymentMethod,
		"payment_confirmed": o.PaymentConfirmed,
		"amount":            o.Amount,
		"address":           o.Address,
		"created_at":        o.CreatedAt,
		"items":             items,
	}
}

func mapIntent(i *paymentuc.Intent) map[string]any {
	return map[string]any{
		"id":       i.ID,
		"amount":   i.Amount,
		"currency": i.Currency,
		"receipt":  i.Receipt,
	}
}

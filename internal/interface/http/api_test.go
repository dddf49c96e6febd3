package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	domproduct "example.com/threadcart/app/internal/domain/product"
	domuser "example.com/threadcart/app/internal/domain/user"
	"example.com/threadcart/app/internal/infra/security"
	authuc "example.com/threadcart/app/internal/usecase/auth"
	cartuc "example.com/threadcart/app/internal/usecase/cart"
	orderuc "example.com/threadcart/app/internal/usecase/order"
	paymentuc "example.com/threadcart/app/internal/usecase/payment"
	productuc "example.com/threadcart/app/internal/usecase/product"
)

// --- In-memory repositories backing the full router ---

type stubUserRepo struct {
	users map[string]*domuser.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	return u, nil
}

type stubProductRepo struct {
	products map[int64]*domproduct.Product
}

func (s *stubProductRepo) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	var out []*domproduct.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	var out []*domproduct.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

type stubOrderRepo struct {
	orders map[int64]*domorder.Order
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domorder.Order), nextID: 1}
}

func (s *stubOrderRepo) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	created := *o
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	s.nextID++
	s.orders[created.ID] = &created
	return &created, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	var out []*domorder.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) List(ctx context.Context) ([]*domorder.Order, error) {
	var out []*domorder.Order
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	return o, nil
}

func (s *stubOrderRepo) SetPaymentRef(ctx context.Context, id int64, ref string) error {
	o, ok := s.orders[id]
	if !ok {
		return domorder.ErrOrderNotFound
	}
	o.PaymentRef = ref
	return nil
}

func (s *stubOrderRepo) ConfirmPayment(ctx context.Context, id int64) (bool, error) {
	o, ok := s.orders[id]
	if !ok {
		return false, domorder.ErrOrderNotFound
	}
	if o.PaymentConfirmed {
		return false, nil
	}
	o.PaymentConfirmed = true
	return true, nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return domorder.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *stubOrderRepo) ListUnconfirmed(ctx context.Context, method domorder.PaymentMethod, before time.Time) ([]*domorder.Order, error) {
	return nil, nil
}

type stubCartRepo struct {
	items      map[int64][]domcart.Item
	clearCount map[int64]int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[int64][]domcart.Item), clearCount: make(map[int64]int)}
}

func (s *stubCartRepo) AddItem(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	s.items[userID] = append(s.items[userID], domcart.Item{ProductID: productID, Size: size, Quantity: quantity})
	return nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	return nil
}

func (s *stubCartRepo) ListItems(ctx context.Context, userID int64) ([]domcart.Item, error) {
	return s.items[userID], nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID int64) error {
	s.clearCount[userID]++
	delete(s.items, userID)
	return nil
}

type stubHostedClient struct{}

func (stubHostedClient) CreateCheckoutSession(ctx context.Context, lines []paymentuc.CheckoutLine, successURL, cancelURL string) (string, string, error) {
	return "cs_test_1", "https://gateway.example/session/cs_test_1", nil
}

type stubIntentClient struct {
	intents map[string]*paymentuc.Intent
}

func newStubIntentClient() *stubIntentClient {
	return &stubIntentClient{intents: make(map[string]*paymentuc.Intent)}
}

func (s *stubIntentClient) CreateIntent(ctx context.Context, amount int64, currency string, receipt string) (*paymentuc.Intent, error) {
	intent := &paymentuc.Intent{ID: "intent_" + receipt, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}
	s.intents[intent.ID] = intent
	return intent, nil
}

func (s *stubIntentClient) FetchIntent(ctx context.Context, id string) (*paymentuc.Intent, error) {
	intent, ok := s.intents[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return intent, nil
}

type stubEventRecorder struct{}

func (stubEventRecorder) Record(ctx context.Context, orderID int64, event string, detail string) error {
	return nil
}

type testEnv struct {
	router  http.Handler
	orders  *stubOrderRepo
	cart    *stubCartRepo
	intents *stubIntentClient

	customerToken string
	adminToken    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher := security.BcryptHasher{}
	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	customer := &domuser.User{ID: 100, Name: "Alice", Email: "alice@example.com", PasswordHash: hash, RoleCode: domuser.RoleCodeCustomer}
	admin := &domuser.User{ID: 1, Name: "Root", Email: "admin@example.com", PasswordHash: hash, RoleCode: domuser.RoleCodeAdmin}

	users := &stubUserRepo{users: map[string]*domuser.User{
		customer.Email: customer,
		admin.Email:    admin,
	}}
	products := &stubProductRepo{products: map[int64]*domproduct.Product{
		1: {ID: 1, Name: "Tee", Price: 20, IsActive: true},
	}}
	orders := newStubOrderRepo()
	cart := newStubCartRepo()
	intents := newStubIntentClient()

	tokenSvc := security.NewJWTService("test-secret", time.Hour)
	registry := paymentuc.NewRegistry(
		paymentuc.CODAdapter{},
		paymentuc.NewHostedAdapter(stubHostedClient{}, "usd", 10, "https://shop.example/verify"),
		paymentuc.NewTwoPhaseAdapter(intents, "usd"),
	)

	api := NewAPI(Dependencies{
		AuthService:    authuc.NewService(users, hasher, tokenSvc),
		ProductService: productuc.NewService(products),
		CartService:    cartuc.NewService(cart, products),
		OrderService: orderuc.NewService(orders, products, cart, registry, orderuc.Config{
			Currency:    "usd",
			DeliveryFee: 10,
		}),
		VerificationService: paymentuc.NewVerificationService(orders, cart, intents, stubEventRecorder{}, nil),
		TokenService:        tokenSvc,
	})

	customerToken, err := tokenSvc.GenerateToken(customer)
	require.NoError(t, err)
	adminToken, err := tokenSvc.GenerateToken(admin)
	require.NoError(t, err)

	return &testEnv{
		router:        api.Router(),
		orders:        orders,
		cart:          cart,
		intents:       intents,
		customerToken: customerToken,
		adminToken:    adminToken,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func placeOrderBody(method string) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": 1, "size": "M", "quantity": 2},
		},
		"address": map[string]any{
			"first_name": "Alice",
			"street":     "1 Main St",
			"city":       "Springfield",
			"country":    "US",
		},
		"payment_method": method,
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]any)
	require.NotEmpty(t, data["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["success"])
}

func TestPlaceOrder_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", "", placeOrderBody("COD"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["success"])
}

func TestPlaceOrder_COD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("COD"))

	require.Equal(t, http.StatusCreated, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["success"])

	order := payload["data"].(map[string]any)["order"].(map[string]any)
	require.Equal(t, float64(50), order["amount"])
	require.Equal(t, "PLACED", order["status"])
	require.Equal(t, false, order["payment_confirmed"])
	require.Equal(t, 1, env.cart.clearCount[100])
}

func TestPlaceOrder_Hosted_ReturnsRedirect(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("HOSTED"))

	require.Equal(t, http.StatusCreated, rec.Code)
	payload := decodeEnvelope(t, rec)
	data := payload["data"].(map[string]any)
	require.Equal(t, "https://gateway.example/session/cs_test_1", data["redirect_url"])
	require.Zero(t, env.cart.clearCount[100])
}

func TestPlaceOrder_TwoPhase_ReturnsIntent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("TWO_PHASE"))

	require.Equal(t, http.StatusCreated, rec.Code)
	payload := decodeEnvelope(t, rec)
	data := payload["data"].(map[string]any)
	intent := data["intent"].(map[string]any)
	require.Equal(t, float64(5000), intent["amount"])
	require.Equal(t, "usd", intent["currency"])
}

func TestPlaceOrder_UnknownMethod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("WIRE"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["success"])
	require.NotEmpty(t, payload["message"])
}

func TestVerifyHosted_Cancel(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("HOSTED"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["order"].(map[string]any)["id"].(float64)

	rec = env.do(t, http.MethodPost, "/api/v1/me/payments/hosted/verify", env.customerToken, map[string]any{
		"order_id": orderID,
		"success":  false,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "payment cancelled, order removed", payload["message"])
	require.Empty(t, env.orders.orders)

	// Replaying the cancel after deletion reports not-found.
	rec = env.do(t, http.MethodPost, "/api/v1/me/payments/hosted/verify", env.customerToken, map[string]any{
		"order_id": orderID,
		"success":  false,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyHosted_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("HOSTED"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["order"].(map[string]any)["id"].(float64)

	rec = env.do(t, http.MethodPost, "/api/v1/me/payments/hosted/verify", env.customerToken, map[string]any{
		"order_id": orderID,
		"success":  true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["success"])
	order := payload["data"].(map[string]any)
	require.Equal(t, true, order["payment_confirmed"])
	require.Equal(t, 1, env.cart.clearCount[100])
}

func TestVerifyTwoPhase_NotPaid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("TWO_PHASE"))
	require.Equal(t, http.StatusCreated, rec.Code)
	intentID := decodeEnvelope(t, rec)["data"].(map[string]any)["intent"].(map[string]any)["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/v1/me/payments/two-phase/verify", env.customerToken, map[string]any{
		"intent_id": intentID,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "payment not completed", payload["message"])
	require.Len(t, env.orders.orders, 1, "unpaid verification retains the order")
}

func TestVerifyTwoPhase_Paid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("TWO_PHASE"))
	require.Equal(t, http.StatusCreated, rec.Code)
	intentID := decodeEnvelope(t, rec)["data"].(map[string]any)["intent"].(map[string]any)["id"].(string)

	env.intents.intents[intentID].Status = paymentuc.IntentStatusPaid

	rec = env.do(t, http.MethodPost, "/api/v1/me/payments/two-phase/verify", env.customerToken, map[string]any{
		"intent_id": intentID,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["success"])
	order := payload["data"].(map[string]any)
	require.Equal(t, true, order["payment_confirmed"])
	require.Equal(t, 1, env.cart.clearCount[100])
}

func TestAdminOrders_ForbiddenForCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/orders/", env.customerToken, nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/orders", env.customerToken, placeOrderBody("COD"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["order"].(map[string]any)["id"].(float64)

	path := "/api/v1/admin/orders/" + strconv.FormatInt(int64(orderID), 10)
	rec = env.do(t, http.MethodPatch, path, env.adminToken, map[string]any{
		"status": "SHIPPED",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["success"])
	require.Equal(t, "SHIPPED", payload["data"].(map[string]any)["status"])
}

func TestCartRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/me/cart/items", env.customerToken, map[string]any{
		"product_id": 1,
		"size":       "M",
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/me/cart", env.customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	items := payload["data"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	require.Equal(t, "Tee", line["name"])
	require.Equal(t, float64(2), line["quantity"])
}

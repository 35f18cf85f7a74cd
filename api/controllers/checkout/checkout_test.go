package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowstrength/storefront/api/middleware"
	cartsvc "github.com/shadowstrength/storefront/internal/cart"
	checkoutsvc "github.com/shadowstrength/storefront/internal/checkout"
	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/keylock"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/types"
)

const sessionID = "22222222-2222-4222-8222-222222222222"

func newCheckout(t *testing.T) (checkoutsvc.Service, *cartsvc.Store) {
	t.Helper()
	kv := kvstore.NewMemory()
	carts, err := cartsvc.NewStore(kv, nil, nil)
	require.NoError(t, err)
	svc, err := checkoutsvc.NewService(checkoutsvc.Options{Store: kv, Carts: carts, Locks: keylock.New()})
	require.NoError(t, err)
	return svc, carts
}

func serve(handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

const deliveryBody = `{"full_name":"Ana Lima","email":"ana@example.com","phone":"0113 496 0000","address_line1":"1 Iron Street","city":"Leeds","postal_code":"LS1 4AB","country":"UK"}`

const paymentBody = `{"card_name":"Ana Lima","card_number":"4242 4242 4242 4242","expiry":"08/30","cvc":"123"}`

func TestCheckoutHappyPath(t *testing.T) {
	svc, carts := newCheckout(t)
	c := cartsvc.AddItem(cartsvc.Cart{}, "sku1", "Bar", decimal.RequireFromString("29.99"))
	require.NoError(t, carts.Save(context.Background(), sessionID, c))

	resp := serve(CheckoutBegin(svc, nil), http.MethodPost, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = serve(CheckoutDelivery(svc, nil), http.MethodPost, deliveryBody)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var flowEnvelope struct {
		Data checkoutsvc.Flow `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&flowEnvelope))
	assert.Equal(t, enums.CheckoutStepPayment, flowEnvelope.Data.Step)
	require.NotNil(t, flowEnvelope.Data.Summary)
	assert.Equal(t, "$29.99", flowEnvelope.Data.Summary.OrderTotal)

	resp = serve(CheckoutCurrent(svc, nil), http.MethodGet, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"step":"payment"`)

	resp = serve(CheckoutPlaceOrder(svc, nil), http.MethodPost, paymentBody)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var completion struct {
		Data checkoutsvc.Completion `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&completion))
	assert.Equal(t, "index.html", completion.Data.Redirect)
	assert.Equal(t, checkoutsvc.CompletionMessage, completion.Data.Message)
	assert.Equal(t, 1, completion.Data.Summary.ItemCount)
	assert.Empty(t, carts.Load(context.Background(), sessionID))
}

func TestCheckoutDeliveryValidationDetails(t *testing.T) {
	svc, _ := newCheckout(t)

	resp := serve(CheckoutDelivery(svc, nil), http.MethodPost, `{"full_name":"Ana"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
	details, ok := envelope.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["country"])
	assert.NotContains(t, details, "address_line2")
}

func TestCheckoutPlaceOrderBeforeDeliveryConflicts(t *testing.T) {
	svc, _ := newCheckout(t)

	resp := serve(CheckoutPlaceOrder(svc, nil), http.MethodPost, `{"card_name":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), string(pkgerrors.CodeStateConflict))
}

func TestCheckoutNilService(t *testing.T) {
	resp := serve(CheckoutBegin(nil, nil), http.MethodPost, "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

package payment_tools

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
	"github.com/zbdpay/zbd-mcp/internal/tools/toolstest"
)

func TestRegisterPaymentTools_ReadOnly(t *testing.T) {
	env := toolstest.New(t, RegisterPaymentTools, true)
	assert.Equal(t, []string{GetPaymentTool, DecodeChargeTool}, env.Registry.Names())

	for _, info := range env.Registry.List() {
		assert.True(t, info.ReadOnly, info.Name)
	}
}

func TestPaymentTools_Requests(t *testing.T) {
	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		wantMethod string
		wantPath   string
	}{
		{"send payment", SendPaymentTool, map[string]any{"invoice": "lnbc1..."}, http.MethodPost, "/payments"},
		{"get payment", GetPaymentTool, map[string]any{"id": "pay-1"}, http.MethodGet, "/payments/pay-1"},
		{"decode charge", DecodeChargeTool, map[string]any{"invoice": "lnbc1..."}, http.MethodPost, "/decode-invoice"},
		{"email payment", SendEmailPaymentTool, map[string]any{"email": "info@zebedee.io", "amount": "1000", "comment": "thanks"}, http.MethodPost, "/email/send-payment"},
		{"internal transfer", InternalTransferTool, map[string]any{"amount": "1000", "receiverWalletId": "w-2"}, http.MethodPost, "/internal-transfer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := toolstest.New(t, RegisterPaymentTools, false)

			_, err := env.Invoke(t, tt.tool, tt.args)
			require.NoError(t, err)

			requests := env.Backend.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, tt.wantMethod, requests[0].Method)
			assert.Equal(t, tt.wantPath, requests[0].Path)
		})
	}
}

func TestSendPayment_Amountless(t *testing.T) {
	env := toolstest.New(t, RegisterPaymentTools, false)

	_, err := env.Invoke(t, SendPaymentTool, map[string]any{"invoice": "lnbc1...", "amount": "5000"})
	require.NoError(t, err)
	assert.Equal(t, "5000", env.Backend.Requests()[0].Body["amount"])

	result, err := env.Invoke(t, SendPaymentTool, map[string]any{"invoice": "lnbc1...", "amount": "1.5"})
	require.NoError(t, err)
	assert.Equal(t, "Error: invalid amount", toolstest.Text(t, result))
	assert.Len(t, env.Backend.Requests(), 1)
}

func TestSendEmailPayment_AllFieldsRequired(t *testing.T) {
	env := toolstest.New(t, RegisterPaymentTools, false)

	_, err := env.Invoke(t, SendEmailPaymentTool, map[string]any{})

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email", "amount", "comment"}, verr.Fields())
}

func TestGetPayment_NotFound(t *testing.T) {
	env := toolstest.NewWithResponse(t, RegisterPaymentTools, false, http.StatusNotFound, `{"success":false,"message":"Payment not found"}`)

	result, err := env.Invoke(t, GetPaymentTool, map[string]any{"id": "missing"})
	require.NoError(t, err)

	text := toolstest.Text(t, result)
	assert.Contains(t, text, "Error: ")
	assert.Contains(t, text, "404")
	assert.Contains(t, text, "Payment not found")
}

package gamertag_tools

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
	"github.com/zbdpay/zbd-mcp/internal/tools/toolstest"
)

func TestRegisterGamertagTools(t *testing.T) {
	env := toolstest.New(t, RegisterGamertagTools, false)
	assert.Equal(t, []string{SendPaymentTool, CreateChargeTool, UserIDTool, GamertagTool}, env.Registry.Names())

	env = toolstest.New(t, RegisterGamertagTools, true)
	assert.Equal(t, []string{UserIDTool, GamertagTool}, env.Registry.Names())
}

func TestGamertagTools_Requests(t *testing.T) {
	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		wantMethod string
		wantPath   string
		wantBody   map[string]any
	}{
		{
			name:       "send payment",
			tool:       SendPaymentTool,
			args:       map[string]any{"gamertag": "satoshi", "amount": "1000", "description": "gg"},
			wantMethod: http.MethodPost,
			wantPath:   "/gamertag/send-payment",
			wantBody:   map[string]any{"gamertag": "satoshi", "amount": "1000", "description": "gg"},
		},
		{
			name:       "charge with expiry",
			tool:       CreateChargeTool,
			args:       map[string]any{"gamertag": "satoshi", "amount": "2000", "expiresIn": 300},
			wantMethod: http.MethodPost,
			wantPath:   "/gamertag/charges",
			wantBody:   map[string]any{"gamertag": "satoshi", "amount": "2000", "expiresIn": float64(300)},
		},
		{
			name:       "user id by gamertag",
			tool:       UserIDTool,
			args:       map[string]any{"gamertag": "satoshi"},
			wantMethod: http.MethodGet,
			wantPath:   "/user-id/gamertag/satoshi",
		},
		{
			name:       "gamertag by user id",
			tool:       GamertagTool,
			args:       map[string]any{"id": "a1b2 c3"},
			wantMethod: http.MethodGet,
			wantPath:   "/gamertag/user-id/a1b2%20c3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := toolstest.New(t, RegisterGamertagTools, false)

			result, err := env.Invoke(t, tt.tool, tt.args)
			require.NoError(t, err)
			assert.Contains(t, toolstest.Text(t, result), `"success": true`)

			requests := env.Backend.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, tt.wantMethod, requests[0].Method)
			assert.Equal(t, tt.wantPath, requests[0].Path)
			assert.Equal(t, tt.wantBody, requests[0].Body)
		})
	}
}

func TestSendGamertagPayment_MissingDescription(t *testing.T) {
	env := toolstest.New(t, RegisterGamertagTools, false)

	_, err := env.Invoke(t, SendPaymentTool, map[string]any{"gamertag": "satoshi", "amount": "1000"})

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"description"}, verr.Fields())
	assert.Empty(t, env.Backend.Requests())
}

func TestCreateGamertagCharge_InvalidExpiry(t *testing.T) {
	env := toolstest.New(t, RegisterGamertagTools, false)

	_, err := env.Invoke(t, CreateChargeTool, map[string]any{"gamertag": "satoshi", "amount": "1000", "expiresIn": "soon"})

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("expiresIn"))
}

func TestSendGamertagPayment_NegativeAmount(t *testing.T) {
	env := toolstest.New(t, RegisterGamertagTools, false)

	result, err := env.Invoke(t, SendPaymentTool, map[string]any{"gamertag": "satoshi", "amount": "-5", "description": "gg"})
	require.NoError(t, err)

	assert.Equal(t, "Error: invalid amount", toolstest.Text(t, result))
	assert.Empty(t, env.Backend.Requests())
}

package qrcode

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "Perfume & Oud"

func validEnvelope() Envelope {
	return Envelope{
		Type:      EnvelopeType,
		Code:      "PO-DEAD-BEEF-0102",
		Amount:    decimal.NewFromInt(100),
		Currency:  "AED",
		Issuer:    testIssuer,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestEncodeProducesPNG(t *testing.T) {
	codec := NewCodec(testIssuer)

	png, err := codec.Encode("PO-DEAD-BEEF-0102", decimal.NewFromInt(250), "AED", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestDecodeValidEnvelope(t *testing.T) {
	codec := NewCodec(testIssuer)
	env := validEnvelope()

	payload, err := json.Marshal(env)
	require.NoError(t, err)

	decoded, err := codec.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, env.Code, decoded.Code)
	assert.True(t, env.Amount.Equal(decoded.Amount))
	assert.Equal(t, env.Currency, decoded.Currency)
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	codec := NewCodec(testIssuer)

	tests := []struct {
		name   string
		mutate func(*Envelope)
	}{
		{"wrong type", func(e *Envelope) { e.Type = "loyalty_card" }},
		{"missing PO prefix", func(e *Envelope) { e.Code = "XX-DEAD-BEEF-0102" }},
		{"unknown issuer", func(e *Envelope) { e.Issuer = "Someone Else" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnvelope()
			tt.mutate(&env)

			payload, err := json.Marshal(env)
			require.NoError(t, err)

			_, err = codec.Decode(payload)
			require.Error(t, err)
			assert.IsType(t, &ErrInvalidPayload{}, err)
		})
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	codec := NewCodec(testIssuer)

	_, err := codec.Decode([]byte("not json at all"))
	require.Error(t, err)
	assert.IsType(t, &ErrInvalidPayload{}, err)
}

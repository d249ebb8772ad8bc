package pass_test

import (
	"bytes"
	"testing"
	"time"

	"campus-portal/internal/models"
	"campus-portal/internal/registration/pass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration() models.Registration {
	return models.Registration{
		ID:          "reg-1",
		EventID:     "ai",
		Surface:     models.SurfaceEvents,
		State:       models.StateRegistered,
		CreatedAt:   time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, time.March, 10, 9, 0, 1, 500000000, time.UTC),
	}
}

func TestGeneratePNG(t *testing.T) {
	g := pass.NewGenerator("secret")

	png, err := g.GeneratePNG(registration())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestVerify_RoundTrip(t *testing.T) {
	g := pass.NewGenerator("secret")

	payload, err := g.Payload(registration())
	require.NoError(t, err)

	reg, err := g.Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, "reg-1", reg.ID)
	assert.Equal(t, models.StateRegistered, reg.State)
}

func TestVerify_RejectsTamperingAndOtherSecrets(t *testing.T) {
	g := pass.NewGenerator("secret")
	payload, err := g.Payload(registration())
	require.NoError(t, err)

	_, err = pass.NewGenerator("other").Verify(payload)
	assert.ErrorIs(t, err, pass.ErrInvalidPass)

	_, err = g.Verify("x" + payload)
	assert.ErrorIs(t, err, pass.ErrInvalidPass)

	_, err = g.Verify("no-separator")
	assert.ErrorIs(t, err, pass.ErrInvalidPass)
}

package recipient_test

import (
	"testing"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("1 Main St", nil, "Springfield", nil, "62701", "US")
	require.NoError(t, err)
	return addr
}

func TestNewRecipient(t *testing.T) {
	shop := kernel.MustNewShop("acme")

	t.Run("should create recipient with trimmed name", func(t *testing.T) {
		r, err := recipient.NewRecipient(shop, "  Jane Doe ", testAddress(t))

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", r.Name())
		assert.True(t, r.Shop().IsEqual(shop))
		require.NoError(t, r.ID().Validate())
		require.NoError(t, r.Validate())
	})

	t.Run("should reject blank name and zero address together", func(t *testing.T) {
		_, err := recipient.NewRecipient(shop, " ", kernel.Address{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, kernel.ErrAddressIsNotConstructed)
	})

	t.Run("should reject zero shop", func(t *testing.T) {
		_, err := recipient.NewRecipient(kernel.Shop{}, "Jane", testAddress(t))

		require.ErrorIs(t, err, kernel.ErrShopIsNotConstructed)
	})
}

func TestRecipient_Validate(t *testing.T) {
	var nilRecipient *recipient.Recipient

	require.ErrorIs(t, nilRecipient.Validate(), recipient.ErrRecipientIsNotConstructed)
	require.ErrorIs(t, (&recipient.Recipient{}).Validate(), recipient.ErrRecipientIsNotConstructed)
}

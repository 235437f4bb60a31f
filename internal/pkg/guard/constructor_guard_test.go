package guard_test

import (
	"errors"
	"testing"

	"splitship/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("test object not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_with_nil_error_returns_default", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

type shipmentNote struct {
	reference string
	guard     guard.ConstructorGuard
}

var errShipmentNoteNotConstructed = errors.New("shipmentNote must be created via newShipmentNote")

func newShipmentNote(reference string) (shipmentNote, error) {
	if reference == "" {
		return shipmentNote{}, errors.New("reference is required")
	}
	return shipmentNote{reference: reference, guard: guard.NewConstructorGuard()}, nil
}

func (n shipmentNote) Validate() error {
	return n.guard.Validate(errShipmentNoteNotConstructed)
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	t.Run("constructed_value_validates", func(t *testing.T) {
		note, err := newShipmentNote("line-1")

		require.NoError(t, err)
		require.NoError(t, note.Validate())
	})

	t.Run("struct_literal_is_rejected", func(t *testing.T) {
		note := shipmentNote{reference: "line-1"}

		require.ErrorIs(t, note.Validate(), errShipmentNoteNotConstructed)
	})
}

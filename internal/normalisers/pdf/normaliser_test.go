package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	n := New()

	t.Run("empty data is invalid input", func(t *testing.T) {
		_, err := n.Normalise(context.Background(), "empty", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("non-PDF bytes fail parsing", func(t *testing.T) {
		_, err := n.Normalise(context.Background(), "not-a-pdf", []byte("just some text"))
		assert.Error(t, err)
	})

	t.Run("truncated PDF header fails parsing", func(t *testing.T) {
		_, err := n.Normalise(context.Background(), "truncated", []byte("%PDF-1.5\n"))
		assert.Error(t, err)
	})
}

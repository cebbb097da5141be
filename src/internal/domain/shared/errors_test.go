package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

var errSample = shared.NewDomainError("SAMPLE", shared.KindInsufficientCredits, "點數不足")

func TestDomainError_WithContext_KeepsCodeAndKind(t *testing.T) {
	// Act
	err := errSample.WithContext("required", 3, "available", 1)

	// Assert
	assert.ErrorIs(t, err, errSample)
	assert.Equal(t, shared.KindInsufficientCredits, err.Kind)
	assert.Equal(t, 3, err.Context["required"])
	assert.Empty(t, errSample.Context, "原始錯誤不可被修改")
}

func TestDomainError_Error_IncludesCodeAndContext(t *testing.T) {
	assert.Equal(t, "[SAMPLE] 點數不足", errSample.Error())
	assert.Contains(t, errSample.WithContext("card_id", "c1").Error(), "card_id:c1")
}

func TestKindOf_WrappedError(t *testing.T) {
	// Arrange
	wrapped := fmt.Errorf("redeem failed: %w", errSample.WithContext("required", 2))

	// Assert
	assert.Equal(t, shared.KindInsufficientCredits, shared.KindOf(wrapped))
	assert.Equal(t, 2, shared.ContextOf(wrapped)["required"])
	assert.Equal(t, shared.ErrorKind(""), shared.KindOf(errors.New("plain")))
	assert.Nil(t, shared.ContextOf(errors.New("plain")))
}

func TestDomainError_WithContext_OddArguments_Panics(t *testing.T) {
	assert.Panics(t, func() {
		_ = errSample.WithContext("only-key")
	})
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app errors map to their declared status", func(t *testing.T) {
		appErr := New(CodeInsufficientBalance, "insufficient leave balance", http.StatusUnprocessableEntity)

		mapped := ToHTTP(appErr)

		assert.Equal(t, http.StatusUnprocessableEntity, mapped.Status)
		assert.Equal(t, CodeInsufficientBalance, mapped.Code)
		assert.Equal(t, "insufficient leave balance", mapped.Message)
	})

	t.Run("wrapped app errors still map", func(t *testing.T) {
		cause := errors.New("pq: deadlock detected")
		appErr := Wrap(cause, CodeConflict, "conflicting update", http.StatusConflict)
		wrapped := fmt.Errorf("transition request: %w", appErr)

		mapped := ToHTTP(wrapped)

		assert.Equal(t, http.StatusConflict, mapped.Status)
		assert.Equal(t, CodeConflict, mapped.Code)
	})

	t.Run("unknown errors collapse to a generic 500", func(t *testing.T) {
		mapped := ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, mapped.Status)
		assert.Equal(t, CodeInternalError, mapped.Code)
		assert.NotContains(t, mapped.Message, "pq:", "driver details must not leak")
	})
}

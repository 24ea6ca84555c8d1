package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "Validation",
			err:        fmt.Errorf("entry 2: %w", &transaction.ValidationError{Field: "amount", Message: "must be greater than zero"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   "entry 2: invalid amount: must be greater than zero\n",
		},
		{
			name:       "NotFound",
			err:        transaction.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "transaction not found\n",
		},
		{
			name:       "Internal",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusCreated, map[string]int{"count": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
}

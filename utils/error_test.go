package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[error]int{
		NotFound("booking not found"):                     http.StatusNotFound,
		NewError(KindExpired, "expired"):                  http.StatusNotFound,
		InvalidInput("bad date"):                          http.StatusBadRequest,
		NewError(KindSlotConflict, "taken"):               http.StatusBadRequest,
		NewError(KindInvalidSignature, "bad signature"):   http.StatusBadRequest,
		NewError(KindTooLate, "too late"):                 http.StatusBadRequest,
		NewError(KindForbidden, "no"):                     http.StatusForbidden,
		NewError(KindLimitExceeded, "limit"):              http.StatusForbidden,
		NewError(KindUnauthorized, "who"):                 http.StatusUnauthorized,
		WrapError(KindGateway, "down", errors.New("503")): http.StatusBadGateway,
		errors.New("boom"):                                http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusCode(err), err.Error())
	}
}

func TestAppError_IsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create booking: %w", NewError(KindSlotConflict, "This time slot is no longer available"))

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestPublicMessage_HidesInternals(t *testing.T) {
	assert.Equal(t, "Internal Server Error", PublicMessage(errors.New("mongo: connection refused")))
	assert.Equal(t, "Service not found", PublicMessage(NotFound("Service not found")))

	wrapped := WrapError(KindGateway, "Unable to create payment order", errors.New("stripe: api key invalid"))
	assert.Equal(t, "Unable to create payment order", PublicMessage(wrapped))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(99900), ToMinorUnits(999))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestHashTokenAndGenerate(t *testing.T) {
	tok, err := GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.Equal(t, HashToken(tok), HashToken(tok))
	assert.NotEqual(t, tok, HashToken(tok))
}

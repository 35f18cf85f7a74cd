package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
)

type sample struct {
	Name   string `json:"name" validate:"required,notblank_trim,max=10"`
	Email  string `json:"email" validate:"required,email"`
	Card   string `json:"card" validate:"omitempty,card_number"`
	Expiry string `json:"expiry" validate:"omitempty,expiry"`
	CVC    string `json:"cvc" validate:"omitempty,cvc"`
	Kind   string `json:"kind" validate:"omitempty,oneof=tee hoodie"`
}

func TestStructPasses(t *testing.T) {
	err := Struct(&sample{Name: "Ana", Email: "ana@example.com", Card: "4242 4242 4242 4242", Expiry: "09/29", CVC: "123", Kind: "tee"})
	require.NoError(t, err)
}

func TestStructReportsFieldDetails(t *testing.T) {
	err := Struct(&sample{Name: "   ", Email: "nope", Card: "4242", Expiry: "13/29", CVC: "12a", Kind: "cape"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":   "is required",
		"email":  "must be a valid email",
		"card":   "must be 13 to 19 digits",
		"expiry": "must be formatted MM/YY",
		"cvc":    "must be 3 or 4 digits",
		"kind":   "must be one of tee hoodie",
	}, details)
}

func TestStructRejectsNonStruct(t *testing.T) {
	err := Struct("plain")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

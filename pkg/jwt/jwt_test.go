package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("s3cret", "u-1", "ana", "admin", "stock-ledger", 5)
	require.NoError(t, err)

	claims, err := Parse("s3cret", "stock-ledger", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana", claims.Name)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("s3cret", "u-1", "ana", "staff", "stock-ledger", 5)
	require.NoError(t, err)

	_, err = Parse("otro", "stock-ledger", tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = Parse("s3cret", "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("s3cret", "u-1", "ana", "staff", "stock-ledger", -1)
	require.NoError(t, err)
	_, err = Parse("s3cret", "stock-ledger", expired)
	assert.Error(t, err, "expirado")

	_, err = Generate("", "u-1", "ana", "staff", "", 5)
	assert.Error(t, err)
}

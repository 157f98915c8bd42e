package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medhub/ambulatorio-api/internal/config"
	"github.com/medhub/ambulatorio-api/internal/model"
	apperrors "github.com/medhub/ambulatorio-api/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segretissima"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(
		config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		[]model.User{{
			Username:     "infermiere1",
			PasswordHash: string(hash),
			Ambulatori:   []string{"pta_centro"},
		}},
	)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(&model.LoginRequest{Username: "infermiere1", Password: "segretissima"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "infermiere1", resp.User.Username)
		assert.Equal(t, []string{"pta_centro"}, resp.User.Ambulatori)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&model.LoginRequest{Username: "infermiere1", Password: "sbagliata"})
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(&model.LoginRequest{Username: "intruso", Password: "segretissima"})
		require.Error(t, err)
	})
}

func TestParseToken(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Login(&model.LoginRequest{Username: "infermiere1", Password: "segretissima"})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := svc.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "infermiere1", claims.Username)
		assert.True(t, claims.HasAmbulatorio(model.AmbulatorioPTACentro))
		assert.False(t, claims.HasAmbulatorio(model.AmbulatorioVillaGinestre))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		require.Error(t, err)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewService(config.JWTConfig{Secret: "other-secret", ExpiryHours: 1}, nil)
		_, err := other.ParseToken(resp.AccessToken)
		require.Error(t, err)
	})
}

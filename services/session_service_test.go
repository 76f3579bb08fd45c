package services

import (
	"testing"
	"time"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	_, err := svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "Palesa", "Mofokeng", "")
	require.NoError(t, err)

	admin, token, err := svc.Login("manager", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", admin.Role)
	assert.NotNil(t, admin.LastLogin)

	resolved, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolved.ID)

	// Email works as the identifier too.
	_, _, err = svc.Login("manager@phokela.local", "s3cret-pass")
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	_, err := svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login("manager", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, _, err = svc.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestLoginRejectsInactiveAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	admin, err := svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(admin).Update("is_active", false).Error)

	_, _, err = svc.Login("manager", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	admin, err := svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "", "", "")
	require.NoError(t, err)

	session := models.AdminSession{
		Token:     "expired-token",
		AdminID:   admin.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)

	_, err = svc.Authenticate("expired-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Expired sessions get cleaned up.
	var count int64
	require.NoError(t, db.Model(&models.AdminSession{}).Where("token = ?", "expired-token").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	_, err := svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "", "", "")
	require.NoError(t, err)
	_, token, err := svc.Login("manager", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(token))
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestCreateAdminValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	_, err := svc.CreateAdmin("manager", "manager@phokela.local", "short", "", "", "")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.CreateAdmin("manager", "manager@phokela.local", "s3cret-pass", "", "", "")
	require.NoError(t, err)

	_, err = svc.CreateAdmin("manager", "other@phokela.local", "s3cret-pass", "", "", "")
	assert.ErrorAs(t, err, &validationErr)
}

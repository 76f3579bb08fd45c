package services

import (
	"testing"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessages(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	var validationErr *ValidationError
	err := svc.Create(&models.ContactMessage{Email: "guest@example.com"})
	assert.ErrorAs(t, err, &validationErr)

	msg := models.ContactMessage{
		FirstName: "Karabo",
		Email:     "karabo@example.com",
		Message:   "Is breakfast included?",
	}
	require.NoError(t, svc.Create(&msg))

	listed, err := svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsRead)

	read, err := svc.MarkRead(msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.MarkRead(msg.ID + 99)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

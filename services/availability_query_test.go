package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

// The conflict query is the heart of availability; pin its shape so a
// refactor cannot silently widen or narrow the overlap window.
func TestConflictQueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAvailabilityService(db)

	checkin, checkout := date(2026, 3, 10), date(2026, 3, 12)
	rows := sqlmock.NewRows([]string{"room_unit_id"}).AddRow(7).AddRow(9)
	mock.ExpectQuery("SELECT `room_unit_id` FROM `bookings` WHERE \\(room_type_id = \\? AND status <> \\?\\) AND \\(checkin_date <= \\? AND checkout_date >= \\?\\)").
		WithArgs(3, "cancelled", checkout, checkin).
		WillReturnRows(rows)

	occupied, err := svc.conflictingUnitIDs(db, 3, checkin, checkout)
	require.NoError(t, err)
	assert.Len(t, occupied, 2)
	assert.Contains(t, occupied, uint(7))
	assert.Contains(t, occupied, uint(9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

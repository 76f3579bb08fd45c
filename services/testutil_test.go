package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"guesthouse-backend/config"
	"guesthouse-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type unitSpec struct {
	number   string
	floor    string
	features []string
}

func seedRoomType(t *testing.T, db *gorm.DB, name string, price string, maxGuests int, units ...unitSpec) *models.RoomType {
	t.Helper()
	rt := models.RoomType{
		Name:      name,
		Slug:      Slugify(name),
		Price:     price,
		MaxGuests: maxGuests,
		MinStay:   1,
		MaxStay:   30,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&rt).Error)

	for _, u := range units {
		var features datatypes.JSON
		if u.features != nil {
			raw, err := json.Marshal(u.features)
			require.NoError(t, err)
			features = datatypes.JSON(raw)
		}
		unit := models.RoomUnit{
			RoomTypeID:      rt.ID,
			UnitNumber:      u.number,
			UnitName:        fmt.Sprintf("%s %s", name, u.number),
			Floor:           u.floor,
			Status:          models.UnitStatusAvailable,
			SpecialFeatures: features,
		}
		require.NoError(t, db.Create(&unit).Error)
	}
	return &rt
}

// fakeGateway is an in-memory PaymentGateway for service tests.
type fakeGateway struct {
	verifyStatus string
	verifyErr    error
	inits        []string
	verifies     []string
	refunds      []string
	refundErr    error
}

func (g *fakeGateway) InitializeTransaction(email, reference string, amountCents int64, metadata map[string]interface{}) (*CheckoutSession, error) {
	g.inits = append(g.inits, reference)
	return &CheckoutSession{
		AuthorizationURL: "https://fake.test/pay/" + reference,
		AccessCode:       "fake_" + reference,
		Reference:        reference,
	}, nil
}

func (g *fakeGateway) VerifyTransaction(reference string) (*VerifyResult, error) {
	g.verifies = append(g.verifies, reference)
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	status := g.verifyStatus
	if status == "" {
		status = "success"
	}
	return &VerifyResult{
		Reference: reference,
		Status:    status,
		Paid:      status == "success",
		Currency:  "ZAR",
	}, nil
}

func (g *fakeGateway) Refund(reference string) error {
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, reference)
	return nil
}

func (g *fakeGateway) Configured() bool { return true }

func (g *fakeGateway) PublicKey() string { return "pk_test_fake" }

func (g *fakeGateway) Currency() string { return "ZAR" }

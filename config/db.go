package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "guesthouse_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}
	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase(DB)
	return nil
}

// Migrate creates or updates the schema in parent-then-child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.AdminSession{},
		&models.RoomType{},
		&models.SeasonalPricing{},
		&models.BlackoutDate{},
		&models.RoomUnit{},
		&models.Booking{},
		&models.ContactMessage{},
	)
}

type seedRoomType struct {
	name        string
	description string
	price       string
	maxGuests   int
	bedType     string
	units       int
}

// SeedDatabase inserts the default admin and a starter catalog on an empty
// database. Existing rows are never touched.
func SeedDatabase(db *gorm.DB) {
	var adminCount int64
	db.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		password := utils.EnvOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				Username:     utils.EnvOrDefault("ADMIN_USERNAME", "admin"),
				Email:        utils.EnvOrDefault("ADMIN_EMAIL", "admin@phokela.local"),
				PasswordHash: string(hash),
				FirstName:    "Admin",
				LastName:     "User",
				Role:         "admin",
				IsActive:     true,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount > 0 {
		return
	}

	defaults := []seedRoomType{
		{name: "Standard Room", description: "Comfortable room with all essentials", price: "650.00", maxGuests: 2, bedType: "Double", units: 4},
		{name: "Deluxe Room", description: "Spacious room with garden view", price: "850.00", maxGuests: 2, bedType: "Queen", units: 3},
		{name: "Executive Suite", description: "Suite with separate lounge area", price: "1200.00", maxGuests: 3, bedType: "King", units: 2},
		{name: "Family Room", description: "Large room sleeping the whole family", price: "1500.00", maxGuests: 5, bedType: "King + Bunk", units: 2},
	}

	for _, d := range defaults {
		slug := strings.ReplaceAll(strings.ToLower(d.name), " ", "-")
		rt := models.RoomType{
			Name:           d.name,
			Slug:           slug,
			Description:    d.description,
			Price:          d.price,
			MaxGuests:      d.maxGuests,
			BedType:        d.bedType,
			MinStay:        1,
			MaxStay:        30,
			IsActive:       true,
			TotalUnits:     d.units,
			AvailableUnits: d.units,
		}
		if err := db.Create(&rt).Error; err != nil {
			log.Printf("warning: failed to seed room type %s: %v", d.name, err)
			continue
		}
		for i := 1; i <= d.units; i++ {
			unit := models.RoomUnit{
				RoomTypeID: rt.ID,
				UnitNumber: fmt.Sprintf("%s-%03d", slug, i),
				UnitName:   fmt.Sprintf("%s #%03d", d.name, i),
				Status:     models.UnitStatusAvailable,
			}
			if err := db.Create(&unit).Error; err != nil {
				log.Printf("warning: failed to seed unit for %s: %v", d.name, err)
			}
		}
	}
	log.Println("Room catalog seeded")
}

package db

import (
	"errors"
	"fmt"

	"github.com/gamehub-dev/gamehub/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the store named by provider ("postgres" or "mysql").
func ConnectDatabase(provider, dsn string) error {
	var dialector gorm.Dialector

	switch provider {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return fmt.Errorf("unsupported database provider: %s", provider)
	}

	var err error

	DB, err = gorm.Open(dialector, &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

func Migrate(gdb *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Avatar{},
		&models.Article{},
		&models.GameInfo{},
		&models.ArticleContent{},
		&models.ArticleImage{},
		&models.Tag{},
		&models.Comment{},
		&models.AppSettings{},
	}

	migrator := gdb.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := gdb.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDefaults ensures the singleton settings row exists and that a super
// admin account is present when the bootstrap credentials are configured.
func SeedDefaults(gdb *gorm.DB, adminUsername, adminEmail, adminPassword string) error {
	var settings models.AppSettings

	err := gdb.First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.AppSettings{
			StorageProvider: models.StorageProviderDatabase,
			UseCache:        true,
		}

		if err := gdb.Create(&settings).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var admin models.User

	err = gdb.Where("email = ?", adminEmail).First(&admin).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin = models.User{
		Username:       adminUsername,
		Email:          adminEmail,
		PasswordHash:   string(hash),
		Role:           models.RoleSuperAdmin,
		EmailConfirmed: true,
	}

	return gdb.Create(&admin).Error
}

package database

import (
	"fmt"
	"log"
	"sync"

	"campuschat/configs"
	"campuschat/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

func GetDB(config *configs.Config) *gorm.DB {
	once.Do(func() {
		initialize(config)
	})
	return db
}

func initialize(config *configs.Config) {
	var err error
	switch driver := config.Viper.GetString("database.driver"); driver {
	case "sqlite":
		// Local runs and CI use the embedded driver, no server needed.
		db, err = gorm.Open(sqlite.Open(config.Viper.GetString("database.name")), &gorm.Config{})
	default:
		dsn := fmt.Sprintf(
			"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
			config.Viper.GetString("database.host"),
			config.Viper.GetString("database.user"),
			config.Viper.GetString("database.password"),
			config.Viper.GetString("database.name"),
			config.Viper.GetInt("database.port"),
			config.Viper.GetString("database.ssl"),
			config.Viper.GetString("database.timezone"),
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrate()
}

func migrate() {
	err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.MessageFile{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")
}

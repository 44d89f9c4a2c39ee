package configs

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		setDefaults(v)

		if err := v.ReadInConfig(); err != nil {
			log.Printf("Config file not read, falling back to defaults: %v", err)
		}

		config = &Config{Viper: v}
	})
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "campuschat")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")

	v.SetDefault("redis.address", "localhost:6379")

	v.SetDefault("jwt.expiration_time", 86400)
	v.SetDefault("jwt.secret", "aycEW3OtV+axBFZQL4cplAVRFMhSEc+xRrcHXxhTM8U=")

	v.SetDefault("admin.email", "admin@campus.edu")
	v.SetDefault("admin.password", "ChangeMe123!")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.external_endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "minioadmin")
	v.SetDefault("minio.secret_access_key", "minioadmin")
	v.SetDefault("minio.use_ssl", false)
}

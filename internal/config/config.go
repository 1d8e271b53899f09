package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port            string        `mapstructure:"port"`
		Env             string        `mapstructure:"env"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		PublicURL       string        `mapstructure:"public_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	LLM struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"llm"`
	Geocoder struct {
		BaseURL   string        `mapstructure:"base_url"`
		UserAgent string        `mapstructure:"user_agent"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"geocoder"`
	Cache struct {
		RequirementTTL time.Duration `mapstructure:"requirement_ttl"`
		InsightTTL     time.Duration `mapstructure:"insight_ttl"`
	} `mapstructure:"cache"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	OTel struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"otel"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.shutdown_timeout", 10*time.Second)
	v.SetDefault("app.public_url", "http://localhost:5173")
	v.SetDefault("kafka.group_id", "pawpal-worker")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("llm.model", "google/gemini-2.5-flash")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "pawpal-api")
	v.SetDefault("geocoder.timeout", 5*time.Second)
	v.SetDefault("cache.requirement_ttl", 6*time.Hour)
	v.SetDefault("cache.insight_ttl", time.Hour)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
}

// LoadConfig reads .env, then config.yaml from paths (default "."), then the environment.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, strings.TrimRight(p, "/")+"/.env")
	}
	if err = godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.shutdown_timeout", "APP_SHUTDOWN_TIMEOUT")
	v.BindEnv("app.public_url", "APP_PUBLIC_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("geocoder.base_url", "GEOCODER_BASE_URL")
	v.BindEnv("geocoder.user_agent", "GEOCODER_USER_AGENT")
	v.BindEnv("geocoder.timeout", "GEOCODER_TIMEOUT")
	v.BindEnv("cache.requirement_ttl", "CACHE_REQUIREMENT_TTL")
	v.BindEnv("cache.insight_ttl", "CACHE_INSIGHT_TTL")
	v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("otel.endpoint", "OTEL_ENDPOINT")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}

	// Comma-separated env values arrive as a single element.
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	return
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

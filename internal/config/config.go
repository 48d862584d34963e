package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Blob       BlobConfig
	Store      StoreConfig
	Email      EmailConfig
	Schedule   ScheduleConfig
	Simulation SimulationConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port          string
	GinMode       string
	TriggerAPIKey string
}

type BlobConfig struct {
	// Endpoint overrides the default AWS endpoint, e.g. for MinIO or
	// localstack. Empty means the SDK default.
	Endpoint string
	Region   string
}

type StoreConfig struct {
	DBContainer      string
	ReportsContainer string
	ObjectKey        string
	// LocalPath is the scratch file the store blob is swapped through
	LocalPath string
}

type EmailConfig struct {
	Sender   string
	Password string
	Receiver string
	SMTPHost string
	SMTPPort int
}

// Configured reports whether enough settings are present to deliver
// email. Anything missing downgrades delivery to a no-op.
func (e EmailConfig) Configured() bool {
	return e.Sender != "" && e.Password != "" && e.Receiver != ""
}

type ScheduleConfig struct {
	Generate string
	Analyze  string
}

type SimulationConfig struct {
	// Seed fixes the random source for reproducible runs; 0 means
	// seed from the clock.
	Seed int64
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			TriggerAPIKey: getEnv("TRIGGER_API_KEY", ""),
		},
		Blob: BlobConfig{
			Endpoint: getEnv("BLOB_ENDPOINT", ""),
			Region:   getEnv("BLOB_REGION", "us-east-1"),
		},
		Store: StoreConfig{
			DBContainer:      getEnv("DB_CONTAINER", "database"),
			ReportsContainer: getEnv("REPORTS_CONTAINER", "reports"),
			ObjectKey:        getEnv("DB_OBJECT_KEY", "hospital.db"),
			LocalPath:        getEnv("DB_LOCAL_PATH", filepath.Join(os.TempDir(), "hospital.db")),
		},
		Email: EmailConfig{
			Sender:   getEnv("EMAIL_SENDER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			Receiver: getEnv("EMAIL_RECEIVER", ""),
			SMTPHost: getEnv("SMTP_SERVER", "smtp.gmail.com"),
			SMTPPort: parseInt(getEnv("SMTP_PORT", "587"), 587),
		},
		Schedule: ScheduleConfig{
			Generate: getEnv("GENERATE_SCHEDULE", "0 2 * * *"),
			Analyze:  getEnv("ANALYZE_SCHEDULE", "0 4 * * *"),
		},
		Simulation: SimulationConfig{
			Seed: parseInt64(getEnv("SIM_SEED", "0"), 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default\n", s)
		return defaultValue
	}
	return v
}

func parseInt64(s string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default\n", s)
		return defaultValue
	}
	return v
}

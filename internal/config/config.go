package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Account    AccountConfig
	Captcha    CaptchaConfig
	Browser    BrowserConfig
	Delays     DelayConfig
	Files      FileConfig
	Processing ProcessingConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

type AccountConfig struct {
	Email    string
	Password string
}

type CaptchaConfig struct {
	APIKey    string
	SolverURL string
	HumanWait time.Duration
}

type BrowserConfig struct {
	Headless       bool
	BaseURL        string
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

// DelayConfig holds the two randomized wait bands used between UI actions.
type DelayConfig struct {
	ShortMin time.Duration
	ShortMax time.Duration
	LongMin  time.Duration
	LongMax  time.Duration
}

type FileConfig struct {
	SessionFile   string
	OrdersFile    string
	OrdersDir     string
	SchedulerFile string
	LogFile       string
	SnapshotDir   string
}

type ProcessingConfig struct {
	MaxAttempts     int
	MaxSubAttempts  int
	MaxOrdersPerRun int
	WindowDays      int
}

type ServerConfig struct {
	Enabled bool
	Port    int
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Account: AccountConfig{
			Email:    os.Getenv("TEMU_EMAIL"),
			Password: os.Getenv("TEMU_PASSWORD"),
		},
		Captcha: CaptchaConfig{
			APIKey:    os.Getenv("CAPTCHA_API_KEY"),
			SolverURL: getEnvOrDefault("CAPTCHA_SOLVER_URL", "https://api.sadcaptcha.com/api/v1/temu"),
			HumanWait: getDurationOrDefault("CAPTCHA_HUMAN_WAIT", 120*time.Second),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", false),
			BaseURL:        getEnvOrDefault("TEMU_BASE_URL", "https://www.temu.com"),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "en-US,en;q=0.9,pt-BR;q=0.8"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/Sao_Paulo"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
		},
		Delays: DelayConfig{
			ShortMin: getDurationOrDefault("DELAY_SHORT_MIN", 500*time.Millisecond),
			ShortMax: getDurationOrDefault("DELAY_SHORT_MAX", 5*time.Second),
			LongMin:  getDurationOrDefault("DELAY_LONG_MIN", 10*time.Second),
			LongMax:  getDurationOrDefault("DELAY_LONG_MAX", 30*time.Second),
		},
		Files: FileConfig{
			SessionFile:   getEnvOrDefault("SESSION_FILE", "session.json"),
			OrdersFile:    getEnvOrDefault("ORDERS_FILE", "orders.json"),
			OrdersDir:     getEnvOrDefault("ORDERS_DIR", "orders"),
			SchedulerFile: getEnvOrDefault("SCHEDULER_STATE_FILE", "scheduler_state.json"),
			LogFile:       getEnvOrDefault("LOG_FILE", "temu_bot.log"),
			SnapshotDir:   getEnvOrDefault("SNAPSHOT_DIR", "."),
		},
		Processing: ProcessingConfig{
			MaxAttempts:     getIntOrDefault("MAX_ATTEMPTS", 5),
			MaxSubAttempts:  getIntOrDefault("MAX_SUB_ATTEMPTS", 7),
			MaxOrdersPerRun: getIntOrDefault("MAX_ORDERS_PER_RUN", 10),
			WindowDays:      getIntOrDefault("ADJUSTMENT_WINDOW_DAYS", 30),
		},
		Server: ServerConfig{
			Enabled: getBoolOrDefault("STATUS_SERVER_ENABLED", true),
			Port:    getIntOrDefault("STATUS_SERVER_PORT", 8730),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Account.Email == "" || c.Account.Password == "" {
		return fmt.Errorf("TEMU_EMAIL and TEMU_PASSWORD must be set")
	}

	if c.Delays.ShortMin > c.Delays.ShortMax {
		return fmt.Errorf("DELAY_SHORT_MIN cannot be greater than DELAY_SHORT_MAX")
	}

	if c.Delays.LongMin > c.Delays.LongMax {
		return fmt.Errorf("DELAY_LONG_MIN cannot be greater than DELAY_LONG_MAX")
	}

	if c.Processing.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS must be at least 1")
	}

	if c.Processing.MaxSubAttempts < 1 {
		return fmt.Errorf("MAX_SUB_ATTEMPTS must be at least 1")
	}

	if c.Processing.WindowDays < 1 {
		return fmt.Errorf("ADJUSTMENT_WINDOW_DAYS must be at least 1")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	CORSOrigin string
	RateLimit  int

	DB DBConfig

	Restaurant RestaurantConfig

	AuthEnabled bool
	JWTSecret   string
}

type DBConfig struct {
	Driver          string // mysql, postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	Path            string // sqlite file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes
}

// RestaurantConfig holds the opening schedule reservations are checked against.
type RestaurantConfig struct {
	Location  *time.Location
	ClosedDay time.Weekday
	Opens     string // HH:MM
	Closes    string // HH:MM
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "5001"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		RateLimit:  getEnvInt("RATE_LIMIT", 50),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:            getEnv("DB_HOST", "localhost"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "reservations"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			Path:            getEnv("DB_PATH", "reservations.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		},
		AuthEnabled: getEnvBool("AUTH_ENABLED", false),
		JWTSecret:   getEnv("JWT_SECRET", ""),
	}

	defaultPort := 3306
	if cfg.DB.Driver == "postgres" {
		defaultPort = 5432
	}
	cfg.DB.Port = getEnvInt("DB_PORT", defaultPort)

	restaurant, err := loadRestaurant()
	if err != nil {
		return nil, err
	}
	cfg.Restaurant = restaurant

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("invalid config: JWT_SECRET must be set when AUTH_ENABLED is true")
	}
	switch cfg.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func loadRestaurant() (RestaurantConfig, error) {
	rc := DefaultRestaurant()

	if name := getEnv("RESTAURANT_TIMEZONE", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return rc, fmt.Errorf("invalid config: RESTAURANT_TIMEZONE: %w", err)
		}
		rc.Location = loc
	}

	if day := getEnv("RESTAURANT_CLOSED_DAY", ""); day != "" {
		wd, err := parseWeekday(day)
		if err != nil {
			return rc, err
		}
		rc.ClosedDay = wd
	}

	rc.Opens = getEnv("RESTAURANT_OPENS", rc.Opens)
	rc.Closes = getEnv("RESTAURANT_CLOSES", rc.Closes)
	for _, v := range []string{rc.Opens, rc.Closes} {
		if _, err := time.Parse("15:04", v); err != nil {
			return rc, fmt.Errorf("invalid config: opening hour %q is not HH:MM", v)
		}
	}
	return rc, nil
}

// DefaultRestaurant is open 10:30 to 21:30 local time and closed on Tuesdays.
func DefaultRestaurant() RestaurantConfig {
	return RestaurantConfig{
		Location:  time.Local,
		ClosedDay: time.Tuesday,
		Opens:     "10:30",
		Closes:    "21:30",
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid config: RESTAURANT_CLOSED_DAY %q is not a weekday name", s)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// FrontendConfig configures the host-stand pages served by cmd/frontend.
type FrontendConfig struct {
	Port       string
	GinMode    string
	APIBaseURL string
	APIToken   string
	Location   *time.Location
}

// LoadFrontend reads .env (when present) and the process environment.
func LoadFrontend() (*FrontendConfig, error) {
	_ = godotenv.Load()

	cfg := &FrontendConfig{
		Port:       getEnv("FRONTEND_PORT", "5002"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5001"), "/"),
		APIToken:   getEnv("API_TOKEN", ""),
		Location:   time.Local,
	}

	if name := getEnv("RESTAURANT_TIMEZONE", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid config: RESTAURANT_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("invalid config: API_BASE_URL %q must start with http:// or https://", cfg.APIBaseURL)
	}
	return cfg, nil
}

// FloorFeedURL is the API's floor websocket, reached over ws or wss to match
// the API scheme.
func (c *FrontendConfig) FloorFeedURL() string {
	if rest, ok := strings.CutPrefix(c.APIBaseURL, "https://"); ok {
		return "wss://" + rest + "/floor/ws"
	}
	return "ws://" + strings.TrimPrefix(c.APIBaseURL, "http://") + "/floor/ws"
}

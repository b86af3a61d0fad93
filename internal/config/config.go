package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes configured identities
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// hours and prices.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	OperatorEmail string // the one privileged operator identity, compared case-insensitively
	Courts        int    // number of courts at the facility, numbered from 1
	PriceCents    int64  // price of a one-hour slot in cents
	Currency      string // ISO currency code used for charges
	OpenHour      int    // first bookable hour of the day (inclusive)
	CloseHour     int    // last bookable hour of the day (exclusive)
	HoldTTLMin    int    // minutes a soft hold survives before expiring
	PublicBaseURL string // absolute base URL used when deriving voucher links
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Booking-window and
// pricing settings fall back to the facility defaults when unset.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		OperatorEmail: strings.ToLower(strings.TrimSpace(must("OPERATOR_EMAIL"))),
		Courts:        optInt("COURTS", 3),
		PriceCents:    int64(optInt("PRICE_PER_HOUR_CENTS", 3500)),
		Currency:      opt("CURRENCY", "PEN"),
		OpenHour:      optInt("BOOKING_OPEN_HOUR", 6),
		CloseHour:     optInt("BOOKING_CLOSE_HOUR", 22),
		HoldTTLMin:    optInt("HOLD_TTL_MIN", 5),
		PublicBaseURL: opt("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
	if cfg.OpenHour < 0 || cfg.CloseHour > 24 || cfg.OpenHour >= cfg.CloseHour {
		log.Fatalf("invalid booking window: %d..%d", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.Courts < 1 {
		log.Fatalf("invalid court count: %d", cfg.Courts)
	}
	return cfg
}

// IsOperator reports whether the given email is the privileged operator
// identity.  Comparison is case-insensitive; the configured value is
// normalized once at load time.
func (c Config) IsOperator(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), c.OperatorEmail)
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// opt returns the value of an optional environment variable, or the given
// default when unset or empty.
func opt(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optInt is like opt() but converts the value into an integer.  Invalid
// values fall back to the default rather than aborting startup.
func optInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

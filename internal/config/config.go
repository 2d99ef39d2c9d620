package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and limits.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign JWTs
	TokenTTLMin     int    // access token time-to-live in minutes
	ResetTTLMin     int    // password reset token time-to-live in minutes
	BcryptCost      int    // bcrypt cost for password hashing
	UploadDir       string // directory where uploaded images are stored
	MaxUploadBytes  int64  // per-file upload size cap in bytes
	PortfolioImages int    // portfolio images returned in a full profile
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Upload and display
// limits carry defaults so a minimal .env is enough for local development.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty password allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		TokenTTLMin:     mustInt("TOKEN_TTL_MIN"),
		ResetTTLMin:     optInt("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:      mustInt("BCRYPT_COST"),
		UploadDir:       opt("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:  int64(optInt("MAX_UPLOAD_BYTES", 5<<20)),
		PortfolioImages: optInt("PROFILE_PORTFOLIO_IMAGES", 6),
	}
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

// opt returns the value of an optional environment variable or a default.
func opt(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optInt returns the integer value of an optional environment variable, or
// the default when the variable is unset or malformed.
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

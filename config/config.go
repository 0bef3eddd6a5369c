package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/logging"
	"github.com/linesmerrill/wildlife-watch-api/models"
)

// DefaultRecentWindow is the number of reports a reporting view keeps on screen.
const DefaultRecentWindow = 5

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string

	// ClientKey is the public key browsers present in the apikey header.
	ClientKey string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	RecentWindow int

	SendgridAPIKey string
	DigestEmail    string
	DigestCron     string
}

// New sets up all config related services
func New() *Config {
	env := getenv("ENV", "production")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:               os.Getenv("DB_URI"),
		DatabaseName:      getenv("DB_NAME", "wildlife"),
		BaseURL:           os.Getenv("BASE_URL"),
		Port:              getenv("PORT", "8080"),
		Env:               env,
		ClientKey:         os.Getenv("CLIENT_KEY"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		RecentWindow:      getenvInt("RECENT_WINDOW", DefaultRecentWindow),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		DigestEmail:       os.Getenv("DIGEST_EMAIL"),
		DigestCron:        getenv("DIGEST_CRON", "0 7 * * *"),
	}
}

func setLogger(env string) (*zap.Logger, error) {
	return logging.New(env)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "error", err, "status", httpStatusCode)
	resp := models.ErrorMessageResponse{Response: models.MessageError{Message: message}}
	if err != nil {
		resp.Response.Error = err.Error()
	}
	b, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

package config

import (
	"encoding/xml"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	Client         ClientConfig         `xml:"CLIENT"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
	DB             DBConfig             `xml:"DB"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	TimeZone string `xml:"TIME_ZONE"`
	LogDir   string `xml:"LOG_DIR"`
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	TokenSecret        string `xml:"TOKEN_SECRET"`
	TokenExpiryMinutes int    `xml:"TOKEN_EXPIRY_MINUTES"`
}

// ClientConfig holds the settings of the terminal client.
type ClientConfig struct {
	BaseURL        string `xml:"BASE_URL"`
	TimeoutSeconds int    `xml:"TIMEOUT_SECONDS"`
	TokenFile      string `xml:"TOKEN_FILE"`
	ReportDir      string `xml:"REPORT_DIR"`
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Enabled           bool    `xml:"ENABLED"`
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	SSLMode  string       `xml:"SSL_MODE"`
	Name     string       `xml:"NAME"`
	Username string       `xml:"USERNAME"`
	Password DBPassword   `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoadConfig loads and parses the XML configuration from the given file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			return
		}

		newCfg.applyEnvOverrides()
		cfg = &newCfg
	})

	if cfg == nil {
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

// applyEnvOverrides lets a .env file or the environment win over the XML file.
func (c *APIConfig) applyEnvOverrides() {
	if v := os.Getenv("DIGIASSISTANT_API_URL"); v != "" {
		c.Client.BaseURL = v
	}
	if v := os.Getenv("DIGIASSISTANT_TOKEN_SECRET"); v != "" {
		c.Authentication.TokenSecret = v
	}
	if v := os.Getenv("DIGIASSISTANT_DB_PASSWORD"); v != "" {
		c.DB.Password.Value = v
	}
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

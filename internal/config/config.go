package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	UploaderHTTP = "http"
	UploaderS3   = "s3"
)

// Config is loaded from defaults, then the optional YAML file named by
// MITRA_CONFIG, then the environment. Later sources win.
type Config struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	APIBaseURL string `yaml:"api_base_url"`
	// APITimeout bounds every API call. Zero leaves calls unbounded; the
	// caller's context still applies.
	APITimeout       time.Duration `yaml:"api_timeout"`
	APITLSCert       string        `yaml:"api_tls_cert"`
	APITLSKey        string        `yaml:"api_tls_key"`
	APITLSCACert     string        `yaml:"api_tls_ca_cert"`
	APITLSServerName string        `yaml:"api_tls_server_name"`

	SessionDir string `yaml:"session_dir"`

	UploaderBackend string `yaml:"uploader_backend"`
	UploaderURL     string `yaml:"uploader_url"`
	S3Endpoint      string `yaml:"s3_endpoint"`
	S3Region        string `yaml:"s3_region"`
	S3Bucket        string `yaml:"s3_bucket"`
	S3AccessKey     string `yaml:"s3_access_key"`
	S3SecretKey     string `yaml:"s3_secret_key"`
	S3PublicURL     string `yaml:"s3_public_url"`

	DevServerAddr          string `yaml:"devserver_addr"`
	DevServerJWTSecret     string `yaml:"devserver_jwt_secret"`
	DevServerAdminEmail    string `yaml:"devserver_admin_email"`
	DevServerAdminPassword string `yaml:"devserver_admin_password"`

	MCPAddr      string `yaml:"mcp_addr"`
	MCPToolsFile string `yaml:"mcp_tools_file"`
}

func defaults() Config {
	return Config{
		LogLevel:        "info",
		APIBaseURL:      "https://ekraf.asepharyana.tech/api",
		UploaderBackend: UploaderHTTP,
		UploaderURL:     "https://apidl.asepharyana.cloud/api/uploader/ryzencdn",
		S3Region:        "us-east-1",
		DevServerAddr:   ":8080",
		MCPAddr:         ":8090",
	}
}

func Load() (*Config, error) {
	file := defaults()
	if path := os.Getenv("MITRA_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		ServiceName:            getEnv("SERVICE_NAME", file.ServiceName),
		LogLevel:               getEnv("LOG_LEVEL", file.LogLevel),
		MetricsAddr:            getEnv("METRICS_ADDR", file.MetricsAddr),
		APIBaseURL:             strings.TrimRight(getEnv("API_BASE_URL", file.APIBaseURL), "/"),
		APITLSCert:             getEnv("API_TLS_CERT", file.APITLSCert),
		APITLSKey:              getEnv("API_TLS_KEY", file.APITLSKey),
		APITLSCACert:           getEnv("API_TLS_CA_CERT", file.APITLSCACert),
		APITLSServerName:       getEnv("API_TLS_SERVER_NAME", file.APITLSServerName),
		SessionDir:             getEnv("SESSION_DIR", file.SessionDir),
		UploaderBackend:        strings.ToLower(getEnv("UPLOADER_BACKEND", file.UploaderBackend)),
		UploaderURL:            getEnv("UPLOADER_URL", file.UploaderURL),
		S3Endpoint:             getEnv("S3_ENDPOINT", file.S3Endpoint),
		S3Region:               getEnv("S3_REGION", file.S3Region),
		S3Bucket:               getEnv("S3_BUCKET", file.S3Bucket),
		S3AccessKey:            getEnv("S3_ACCESS_KEY", file.S3AccessKey),
		S3SecretKey:            getEnv("S3_SECRET_KEY", file.S3SecretKey),
		S3PublicURL:            getEnv("S3_PUBLIC_URL", file.S3PublicURL),
		DevServerAddr:          getEnv("DEVSERVER_ADDR", file.DevServerAddr),
		DevServerJWTSecret:     getEnv("DEVSERVER_JWT_SECRET", file.DevServerJWTSecret),
		DevServerAdminEmail:    getEnv("DEVSERVER_ADMIN_EMAIL", file.DevServerAdminEmail),
		DevServerAdminPassword: getEnv("DEVSERVER_ADMIN_PASSWORD", file.DevServerAdminPassword),
		MCPAddr:                getEnv("MCP_ADDR", file.MCPAddr),
		MCPToolsFile:           getEnv("MCP_TOOLS_FILE", file.MCPToolsFile),
		APITimeout:             file.APITimeout,
	}

	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}

	return cfg, nil
}

// Validate checks the fields the named binary needs: "cli", "devserver" or
// "mcp-server". Unknown names only get the shared checks.
func (c *Config) Validate(component string) error {
	var errs []error

	switch component {
	case "cli", "mcp-server":
		if c.APIBaseURL == "" {
			errs = append(errs, errors.New("API_BASE_URL is required"))
		}
		errs = append(errs, c.validateUploader()...)
		if component == "mcp-server" && c.MCPAddr == "" {
			errs = append(errs, errors.New("MCP_ADDR is required"))
		}
	case "devserver":
		if c.DevServerAddr == "" {
			errs = append(errs, errors.New("DEVSERVER_ADDR is required"))
		}
		if c.DevServerJWTSecret == "" {
			errs = append(errs, errors.New("DEVSERVER_JWT_SECRET is required"))
		}
	}

	if (c.APITLSCert == "") != (c.APITLSKey == "") {
		errs = append(errs, errors.New("API_TLS_CERT and API_TLS_KEY must both be set"))
	}
	if c.APITimeout < 0 {
		errs = append(errs, errors.New("API_TIMEOUT must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateUploader() []error {
	switch c.UploaderBackend {
	case UploaderHTTP:
		if c.UploaderURL == "" {
			return []error{errors.New("UPLOADER_URL is required for the http uploader")}
		}
	case UploaderS3:
		if c.S3Bucket == "" {
			return []error{errors.New("S3_BUCKET is required for the s3 uploader")}
		}
	default:
		return []error{fmt.Errorf("UPLOADER_BACKEND must be %q or %q, got %q", UploaderHTTP, UploaderS3, c.UploaderBackend)}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/BearBump/WriteDesk/internal/feeds/activity"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	Mail      MailConfig      `yaml:"mail"`
	Geo       GeoConfig       `yaml:"geo"`
	WriteDesk WriteDeskConfig `yaml:"writedesk"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	OrderSubmittedTopicName string `yaml:"order_submitted_topic_name"`
	NotifierConsumerGroup   string `yaml:"notifier_consumer_group"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// StorageConfig points at an S3-compatible bucket (MinIO in dev).
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type MailConfig struct {
	// "http" | "fake"
	Mode           string `yaml:"mode"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	From          string `yaml:"from"`
	ReplyTo       string `yaml:"reply_to"`
	AdminTo       string `yaml:"admin_to"`
	SiteName      string `yaml:"site_name"`
	SupportEmail  string `yaml:"support_email"`
	AdminOrderURL string `yaml:"admin_order_url"`

	RetryAttempts   int `yaml:"retry_attempts"`
	RetryBaseMillis int `yaml:"retry_base_millis"`
	RetryMaxMillis  int `yaml:"retry_max_millis"`
}

type GeoConfig struct {
	// "http" | "fake" | "off"
	Mode           string `yaml:"mode"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type WriteDeskConfig struct {
	HTTPAddr         string `yaml:"http_addr"`
	NotifierHTTPAddr string `yaml:"notifier_http_addr"`
	AdminToken       string `yaml:"admin_token"`
	Timezone         string `yaml:"timezone"`

	SubmitLimit         int      `yaml:"submit_limit"`
	SubmitWindowSeconds int      `yaml:"submit_window_seconds"`
	MaxUploadBytes      int64    `yaml:"max_upload_bytes"`
	AllowedExtensions   []string `yaml:"allowed_extensions"`
	FeedCacheEnabled    *bool    `yaml:"feed_cache_enabled"`

	Activity activity.Config `yaml:"activity"`
}

// LoadConfig reads a YAML file. ${VAR} references are expanded from the
// environment first, so secrets can come from .env.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// PostgresURL builds the pgx connection string.
func (c DatabaseConfig) PostgresURL() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

func (c KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

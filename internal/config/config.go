package config

import (
	"fmt"
	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"shift-metrics/internal/storage"
	"time"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`

	DBDriver   string `yaml:"db_driver" env:"DB_DRIVER" env-default:"mysql"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"shift-metrics.db"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"shift_metrics"`
	ParseTime  bool   `yaml:"parse_time" env:"DB_PARSE_TIME" env-default:"true"`

	Blob `yaml:"blob"`

	TimeZone string `yaml:"timezone" env:"TZ_NAME" env-default:"Local"`
	ErrorLog string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	DefaultShiftTypes []storage.ShiftTypeDefinition `yaml:"default_shift_types"`

	WatchFolder string `yaml:"watch_folder" env:"WATCH_FOLDER"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Blob struct {
	Root          string `yaml:"root" env:"BLOB_ROOT" env-default:"./blobs"`
	ImportPrefix  string `yaml:"import_prefix" env:"IMPORT_PREFIX" env-default:"shift_manager_imports/"`
	ArchivePrefix string `yaml:"archive_prefix" env:"ARCHIVE_PREFIX"`
}

// MustConfig reads CONFIG_PATH (or ./config/local.yaml) and exits on failure.
func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.DefaultShiftTypes) == 0 {
		cfg.DefaultShiftTypes = DefaultShiftTypes()
	}

	return &cfg, nil
}

// MySQLDSN builds the go-sql-driver DSN from the flat db_* fields.
func (c *Config) MySQLDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = c.ParseTime

	return mc.FormatDSN()
}

func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// DefaultShiftTypes is used when neither the config file nor the manager's own
// settings define any shift types.
func DefaultShiftTypes() []storage.ShiftTypeDefinition {
	return []storage.ShiftTypeDefinition{
		{Key: "open", Label: "Open", RangeStart: "05:00", RangeEnd: "11:00", SortOrder: 1},
		{Key: "mid", Label: "Mid", RangeStart: "11:00", RangeEnd: "17:00", SortOrder: 2},
		{Key: "close", Label: "Close", RangeStart: "17:00", RangeEnd: "05:00", SortOrder: 3},
	}
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	StorageMongoDB = "mongodb"
	StorageBoltDB  = "boltdb"
	StorageRedis   = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"BKAP_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BKAP_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BKAP_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BKAP_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BKAP_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BKAP_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BKAP_LOG_MAX_SIZE"`
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BKAP_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BKAP_PROFILER_ENDPOINTS_ENABLE"`
	Storage                 string        `yaml:"storage" envconfig:"BKAP_STORAGE"`
	Server                  ServerConfig  `yaml:"server"`
	MongoDB                 MongoDBConfig `yaml:"mongodb"`
	Redis                   RedisConfig   `yaml:"redis"`
	BoltDB                  BoltDBConfig  `yaml:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKAP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKAP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKAP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKAP_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKAP_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKAP_SERVER_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"BKAP_SERVER_MAX_BODY_BYTES"`
}

type MongoDBConfig struct {
	URI                    string        `yaml:"uri" json:"-" envconfig:"BKAP_MONGODB_URI"`
	Database               string        `yaml:"database" envconfig:"BKAP_MONGODB_DATABASE"`
	Collection             string        `yaml:"collection" envconfig:"BKAP_MONGODB_COLLECTION"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout" envconfig:"BKAP_MONGODB_CONNECT_TIMEOUT"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout" envconfig:"BKAP_MONGODB_SERVER_SELECTION_TIMEOUT"`
	MaxPoolSize            uint64        `yaml:"max_pool_size" envconfig:"BKAP_MONGODB_MAX_POOL_SIZE"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKAP_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKAP_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKAP_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKAP_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKAP_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKAP_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKAP_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKAP_REDIS_USERNAME"`
	Password      string        `yaml:"password" json:"-" envconfig:"BKAP_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKAP_REDIS_DATABASE_INDEX"`
	HashKey       string        `yaml:"hash_key" envconfig:"BKAP_REDIS_HASH_KEY"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKAP_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKAP_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKAP_BOLTDB_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	setDefaults(config)

	switch config.Storage {
	case StorageMongoDB:
		if len(config.MongoDB.URI) == 0 {
			return errors.New("make sure to set valid mongodb uri in configuration file")
		}
	case StorageRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	case StorageBoltDB:
		if len(config.BoltDB.FilePath) == 0 {
			return errors.New("make sure to set valid boltdb file path in configuration file")
		}
	default:
		return fmt.Errorf("unsupported storage %q: expected one of %s, %s, %s",
			config.Storage, StorageMongoDB, StorageBoltDB, StorageRedis)
	}

	return nil
}

func setDefaults(config *Config) {
	if config.Storage == "" {
		config.Storage = StorageMongoDB
	}
	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}
	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}
	if config.Server.RequestTimeout <= 0 {
		config.Server.RequestTimeout = 10 * time.Second
	}
	if config.Server.ShutdownTimeout <= 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}
	if config.Server.MaxBodyBytes <= 0 {
		config.Server.MaxBodyBytes = 1 << 20
	}
	if config.MongoDB.Database == "" {
		config.MongoDB.Database = "bookstore"
	}
	if config.MongoDB.Collection == "" {
		config.MongoDB.Collection = "books"
	}
	if config.MongoDB.ConnectTimeout <= 0 {
		config.MongoDB.ConnectTimeout = 10 * time.Second
	}
	if config.MongoDB.ServerSelectionTimeout <= 0 {
		config.MongoDB.ServerSelectionTimeout = 5 * time.Second
	}
	if config.Redis.HashKey == "" {
		config.Redis.HashKey = "books"
	}
	if config.BoltDB.Timeout <= 0 {
		config.BoltDB.Timeout = 5 * time.Second
	}
	if config.BoltDB.BucketName == "" {
		config.BoltDB.BucketName = "books"
	}
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The dotenv file is optional.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BKAP`.
	err = LoadConfigEnvs("BKAP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}

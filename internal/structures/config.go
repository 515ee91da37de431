package structures

import "time"

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
}

type YouTubeConfig struct {
	APIKey            string        `yaml:"apiKey" mapstructure:"apiKey"`
	BaseURL           string        `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required"`
	PageURL           string        `yaml:"pageUrl" mapstructure:"pageUrl" validate:"required"`
	MaxResults        int           `yaml:"maxResults" mapstructure:"maxResults" validate:"required|int|min:1|max:50"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond" mapstructure:"requestsPerSecond"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"required|min:1"`
}

type RetryConfig struct {
	Attempts   int           `yaml:"attempts" mapstructure:"attempts" validate:"required|int|min:1"`
	BaseDelay  time.Duration `yaml:"baseDelay" mapstructure:"baseDelay" validate:"required|min:1"`
	MaxDelay   time.Duration `yaml:"maxDelay" mapstructure:"maxDelay"`
	MaxElapsed time.Duration `yaml:"maxElapsed" mapstructure:"maxElapsed"`
}

type ResolverConfig struct {
	CacheTTL time.Duration `yaml:"cacheTTL" mapstructure:"cacheTTL" validate:"required|min:1"`
}

type PollConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval    time.Duration `yaml:"interval" mapstructure:"interval" validate:"required|min:1"`
	LockTTL     time.Duration `yaml:"lockTTL" mapstructure:"lockTTL" validate:"required|min:1"`
	LeaseMargin time.Duration `yaml:"leaseMargin" mapstructure:"leaseMargin"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	Channels    []string      `yaml:"channels" mapstructure:"channels"`
}

type NotifyConfig struct {
	Provider string   `yaml:"provider" mapstructure:"provider" validate:"required|in:resend,log"`
	APIKey   string   `yaml:"apiKey" mapstructure:"apiKey"`
	BaseURL  string   `yaml:"baseUrl" mapstructure:"baseUrl"`
	From     string   `yaml:"from" mapstructure:"from"`
	To       []string `yaml:"to" mapstructure:"to"`
	Timezone string   `yaml:"timezone" mapstructure:"timezone"`
}

type StoreConfig struct {
	Driver       string        `yaml:"driver" mapstructure:"driver" validate:"required|in:memory,redis,sqlite,postgres"`
	DSN          string        `yaml:"dsn" mapstructure:"dsn"`
	FilePath     string        `yaml:"filePath" mapstructure:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval" mapstructure:"saveInterval"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Size    int  `yaml:"size" mapstructure:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer" mapstructure:"webServer"`
	Logger    LoggerConfig   `yaml:"logger" mapstructure:"logger"`
	YouTube   YouTubeConfig  `yaml:"youtube" mapstructure:"youtube"`
	Retry     RetryConfig    `yaml:"retry" mapstructure:"retry"`
	Resolver  ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Poll      PollConfig     `yaml:"poll" mapstructure:"poll"`
	Notify    NotifyConfig   `yaml:"notify" mapstructure:"notify"`
	Store     StoreConfig    `yaml:"store" mapstructure:"store"`
	Cache     CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
}

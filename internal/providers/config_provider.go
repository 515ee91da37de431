package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"ytwatch/internal/structures"

	"github.com/spf13/viper"
)

const appName = "ytwatch"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("youtube.baseUrl", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.pageUrl", "https://www.youtube.com")
	v.SetDefault("youtube.maxResults", 3)
	v.SetDefault("youtube.requestsPerSecond", 5)
	v.SetDefault("youtube.timeout", 15*time.Second)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.baseDelay", 500*time.Millisecond)
	v.SetDefault("retry.maxDelay", 4*time.Second)
	v.SetDefault("retry.maxElapsed", 20*time.Second)
	v.SetDefault("resolver.cacheTTL", 7*24*time.Hour)
	v.SetDefault("poll.enabled", true)
	v.SetDefault("poll.interval", 10*time.Minute)
	v.SetDefault("poll.lockTTL", 90*time.Second)
	v.SetDefault("poll.leaseMargin", 10*time.Second)
	v.SetDefault("notify.provider", "resend")
	v.SetDefault("notify.baseUrl", "https://api.resend.com")
	v.SetDefault("notify.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.filePath", "./data/ytwatch.dat")
	v.SetDefault("store.saveInterval", time.Minute)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("metrics.enabled", true)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("youtube.apiKey", "YOUTUBE_API_KEY")
	v.BindEnv("notify.to", "NOTIFY_EMAIL_TO")
	v.BindEnv("notify.from", "NOTIFY_EMAIL_FROM")
	v.BindEnv("notify.apiKey", "RESEND_API_KEY")
	v.BindEnv("poll.channels", "CHANNELS")
	v.BindEnv("logger.level", "YTW_LOG_LEVEL")
	v.BindEnv("poll.interval", "YTW_POLL_INTERVAL")
	v.BindEnv("poll.enabled", "YTW_POLL_ENABLED")
	v.BindEnv("store.driver", "YTW_STORE_DRIVER")
	v.BindEnv("store.dsn", "YTW_STORE_DSN")
	v.BindEnv("cache.enabled", "YTW_CACHE_ENABLED")
	v.BindEnv("cache.size", "YTW_CACHE_SIZE")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.Poll.Channels = splitList(conf.Poll.Channels)
	conf.Notify.To = splitList(conf.Notify.To)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = appName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// splitList flattens comma separated entries coming from env variables
// and drops blanks.
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"ytwatch/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp = iota
	TypeGet
	TypePost
	TypePoll
)

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

var logFiles = map[TypeEnum]string{
	TypeApp:  "app.log",
	TypeGet:  "http.log",
	TypePost: "http.log",
	TypePoll: "poll.log",
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}
	mode := os.FileMode(conf.Logger.Mode)
	if mode == 0 {
		mode = 0644
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logFiles))}
	opened := make(map[string]io.Writer)
	for t, name := range logFiles {
		w, ok := opened[name]
		if !ok {
			f, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
			if err != nil {
				lp.Close()
				return nil, fmt.Errorf("open log file %s: %w", name, err)
			}
			lp.files = append(lp.files, f)
			w = f
			if conf.Debug {
				w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stdout})
			}
			opened[name] = w
		}
		lp.loggers[t] = zerolog.New(w).Level(level).With().Timestamp().Str("type", typeName(t)).Logger()
	}
	return lp, nil
}

func typeName(t TypeEnum) string {
	switch t {
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	case TypePoll:
		return "poll"
	default:
		return "app"
	}
}

func (lp *LogProvider) logger(t TypeEnum) *zerolog.Logger {
	l, ok := lp.loggers[t]
	if !ok {
		l = lp.loggers[TypeApp]
	}
	return &l
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.logger(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.logger(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.logger(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.logger(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.logger(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
	lp.files = nil
}

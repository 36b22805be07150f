package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	config "github.com/mwantia/palanaeum/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

// LoggerServiceImpl is one named view onto a sink. Loggers derived through Named share
// the sink of their parent.
type LoggerServiceImpl struct {
	name  string
	level LogLevel
	sink  *sink
}

// sink serialises every write so lines from different services never interleave
type sink struct {
	mutex      sync.Mutex
	writer     io.Writer
	color      bool
	json       bool
	timeFormat string
	exit       func(int)
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLoggerService(name string, cfg config.LogConfig) LoggerService {
	return &LoggerServiceImpl{
		name:  name,
		level: Parse(cfg.Level),
		sink:  newSink(cfg),
	}
}

// NewLoggerServiceWithWriter logs to w only, without colour or rotation.
func NewLoggerServiceWithWriter(name string, cfg config.LogConfig, w io.Writer) LoggerService {
	return &LoggerServiceImpl{
		name:  name,
		level: Parse(cfg.Level),
		sink: &sink{
			writer:     w,
			json:       cfg.JSON,
			timeFormat: timeFormat(cfg),
			exit:       os.Exit,
		},
	}
}

func timeFormat(cfg config.LogConfig) string {
	if cfg.TimeFormat == "" {
		return time.RFC3339
	}
	return cfg.TimeFormat
}

func newSink(cfg config.LogConfig) *sink {
	s := &sink{
		json:       cfg.JSON,
		timeFormat: timeFormat(cfg),
		exit:       os.Exit,
	}

	var writers []io.Writer
	if !cfg.NoTerminal {
		writers = append(writers, os.Stdout)
		s.color = !cfg.NoColor && !cfg.JSON && isatty.IsTerminal(os.Stdout.Fd())
	}

	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		})
		// escape sequences would end up in the rotated file
		s.color = false
	}

	switch len(writers) {
	case 0:
		s.writer = os.Stdout
	case 1:
		s.writer = writers[0]
	default:
		s.writer = io.MultiWriter(writers...)
	}
	return s
}

func (s *sink) encode(level LogLevel, service, message string) []byte {
	var buf bytes.Buffer
	timestamp := time.Now().Format(s.timeFormat)

	if s.json {
		data, err := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   service,
			Message:   message,
		})
		if err != nil {
			data = []byte(fmt.Sprintf(`{"level":"ERROR","message":%q}`, err.Error()))
		}
		buf.Write(data)
		buf.WriteByte('\n')
		return buf.Bytes()
	}

	if s.color {
		buf.WriteString(Color(level))
	}
	fmt.Fprintf(&buf, "[%s] %-5s", timestamp, level)
	if service != "" {
		fmt.Fprintf(&buf, " [%s]", service)
	}
	buf.WriteByte(' ')
	buf.WriteString(message)
	if s.color {
		buf.WriteString("\033[0m")
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func (s *sink) write(line []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.writer.Write(line)
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	impl.sink.write(impl.sink.encode(level, impl.name, fmt.Sprintf(msg, args...)))
	if level == Fatal {
		impl.sink.exit(1)
	}
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

// Fatal logs and terminates the process
func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	if impl.name != "" {
		name = impl.name + "/" + name
	}
	return &LoggerServiceImpl{
		name:  name,
		level: impl.level,
		sink:  impl.sink,
	}
}

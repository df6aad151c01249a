package logger

import (
	"io"
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 애플리케이션 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거 인스턴스다.
// Init 계열 함수가 호출되지 않더라도 기본 info 레벨로 동작하도록 초기화한다.
var Log Logger = NewLogger("info")

// InitFromEnv 는 주어진 환경변수 키에서 로그 레벨을 읽어 전역 로거를 초기화한다.
// 값이 비어 있으면 fallback 을, fallback 도 비어 있으면 info 를 사용한다.
func InitFromEnv(envKey string, fallback string) {
	level := strings.ToLower(os.Getenv(envKey))
	if level == "" {
		level = strings.ToLower(fallback)
	}
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// InitToWriter 는 표준 출력 대신 w 로 로그를 쓰는 전역 로거를 설정한다.
// 터미널 UI 처럼 stdout 을 점유하는 프로세스에서 사용한다.
func InitToWriter(level string, w io.Writer) {
	Log = NewLoggerWithWriter(level, w)
}

// NewLogger 는 주어진 레벨로 stdout 에 JSON 로그를 쓰는 gookit/slog 로거를 생성한다.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stdout)
}

func NewLoggerWithWriter(level string, w io.Writer) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewIOWriterHandler(w, levels)
	// 기본 필드는 datetime/level/message 로만 제한하고 나머지 정보는
	// Fields(top-level 키)로만 출력한다.
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

var serviceName string

// SetServiceName 은 SERVICE_NAME 환경변수가 없을 때 사용할 기본 서비스 이름을 지정한다.
// 각 실행 파일(api, auditor, aggregate, console)이 main 에서 한 번 호출한다.
func SetServiceName(name string) {
	serviceName = name
}

// withServiceName 은 service_name 필드를 보강한다. SERVICE_NAME 이 우선한다.
func withServiceName(fields Fields) Fields {
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if _, ok := out["service_name"]; ok {
		return out
	}
	if sn := os.Getenv("SERVICE_NAME"); sn != "" {
		out["service_name"] = sn
	} else if serviceName != "" {
		out["service_name"] = serviceName
	}
	return out
}

// logWithFields 는 fields 를 top-level JSON 키로 붙여 출력한다.
// Log 가 gookit/slog 로거가 아니면(테스트 대역 등) 메시지만 남긴다.
func logWithFields(level slog.Level, msg string, fields Fields) {
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.DebugLevel:
			Log.Debug(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		case slog.ErrorLevel:
			Log.Error(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	r := lg.WithFields(slog.M(withServiceName(fields)))
	switch level {
	case slog.DebugLevel:
		r.Debug(msg)
	case slog.WarnLevel:
		r.Warn(msg)
	case slog.ErrorLevel:
		r.Error(msg)
	default:
		r.Info(msg)
	}
}

func InfoWithFields(msg string, fields Fields)  { logWithFields(slog.InfoLevel, msg, fields) }
func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }
func WarnWithFields(msg string, fields Fields)  { logWithFields(slog.WarnLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }

// Flush 는 버퍼에 남은 로그를 기록한다. 파일로 로그를 보내는 프로세스는 파일을 닫기 전에 호출한다.
func Flush() error {
	if lg, ok := Log.(*slog.Logger); ok {
		return lg.Flush()
	}
	return nil
}

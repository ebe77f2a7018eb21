package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeHTTP   LogType = "HTTP"
	TypeDB     LogType = "DB"
	TypeAuth   LogType = "AUTH"
	TypeSystem LogType = "SYS"
	TypeError  LogType = "ERR"
)

type CustomHandler struct {
	opts   *slog.HandlerOptions
	name   string
	color  bool
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a console handler writing to stdout with colors.
func NewHandler(name string, level slog.Leveler) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, name, level, true)
}

func NewHandlerWithWriter(out io.Writer, name string, level slog.Leveler, color bool) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		opts:   &slog.HandlerOptions{Level: level},
		name:   name,
		color:  color,
		out:    out,
		mu:     &sync.Mutex{},
		attrs:  make([]slog.Attr, 0),
		groups: make([]string, 0),
	}
}

// New builds the process logger for the configured format: "json" or the console handler.
func New(name, format string, level slog.Leveler, addSource bool) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: addSource,
		}))
	}
	return slog.New(NewHandler(name, level))
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	default:
		levelColor = colorPurple
		levelText = "DEBUG"
	}

	logType := h.getLogType(&r)
	errorDetails := getErrorDetails(&r)

	message := r.Message
	if r.Level >= slog.LevelError {
		if location := getErrorLocation(&r); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if errorDetails != "" {
			message = fmt.Sprintf("%s: %s", message, errorDetails)
		}
	}

	var attrs strings.Builder
	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}
	writeAttr := func(a slog.Attr) {
		if isInternalAttr(a.Key) {
			return
		}
		if a.Key == "error" && r.Level >= slog.LevelError {
			return
		}
		fmt.Fprintf(&attrs, " %s%s=%v", prefix, a.Key, a.Value)
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	var line string
	if h.color {
		line = fmt.Sprintf("%s[%s] [%s] [%s%s%s] [%s] %s%s%s\n",
			colorWhite, h.name, timestamp.Format("15:04:05"),
			levelColor, levelText, colorWhite,
			logType, message, attrs.String(), colorReset)
	} else {
		line = fmt.Sprintf("[%s] [%s] [%s] [%s] %s%s\n",
			h.name, timestamp.Format("15:04:05"), levelText, logType, message, attrs.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

func (h *CustomHandler) getLogType(r *slog.Record) LogType {
	logType := TypeSystem
	find := func(a slog.Attr) bool {
		if a.Key != "type" {
			return true
		}
		switch strings.ToLower(a.Value.String()) {
		case "http":
			logType = TypeHTTP
		case "db":
			logType = TypeDB
		case "auth":
			logType = TypeAuth
		case "error":
			logType = TypeError
		}
		return false
	}
	for _, a := range h.attrs {
		if !find(a) {
			break
		}
	}
	r.Attrs(find)
	return logType
}

func isInternalAttr(key string) bool {
	return key == "type" || key == "error_location"
}

func getErrorDetails(r *slog.Record) string {
	var details string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error" {
			details = fmt.Sprintf("%v", a.Value)
			return false
		}
		return true
	})
	return details
}

func getErrorLocation(r *slog.Record) string {
	var location string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error_location" {
			location = a.Value.String()
			return false
		}
		return true
	})
	if location == "" && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			location = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
	}
	return location
}

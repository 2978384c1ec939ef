package glog

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerValue atomic.Pointer[zap.Logger]
	atomicLevel = zap.NewAtomicLevel()
)

func init() {
	Init(DefaultConfig())
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "M",
		LevelKey:       "L",
		TimeKey:        "T",
		CallerKey:      "C",
		NameKey:        "N",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000Z0700"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Init 初始化全局 logger，cfg 为 nil 时保持不变
func Init(cfg *Config) {
	if cfg == nil {
		return
	}
	atomicLevel.SetLevel(parseLevel(cfg.Level))
	encCfg := encoderConfig()

	cores := make([]zapcore.Core, 0, 2)
	if cfg.Path != "" {
		w := newWriter(cfg.Path, cfg.File)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), atomicLevel))
	}
	if cfg.PrintConsole {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), atomicLevel))
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.DPanicLevel))
	SetLogger(logger)
}

// SetLogger 替换全局 logger
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	loggerValue.Store(l)
}

// Logger 返回当前 logger，供需要注入 *zap.Logger 的组件使用
func Logger() *zap.Logger {
	if l := loggerValue.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Stop 同步所有缓冲的日志
func Stop() {
	_ = Logger().Sync()
}

func SetLogLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}

func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

func skipped() *zap.Logger {
	return Logger().WithOptions(zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) { skipped().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { skipped().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { skipped().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { skipped().Error(msg, fields...) }

func Debugf(template string, args ...interface{}) { skipped().Sugar().Debugf(template, args...) }
func Infof(template string, args ...interface{})  { skipped().Sugar().Infof(template, args...) }
func Warnf(template string, args ...interface{})  { skipped().Sugar().Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { skipped().Sugar().Errorf(template, args...) }

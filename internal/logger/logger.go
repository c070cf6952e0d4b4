package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Init 配置全局 logrus logger。
// 可重复调用，后一次调用覆盖前一次的设置。
func Init() {
	out := io.Writer(os.Stdout)

	// 可选：同时写入日志文件（LOG_FILE=bot.log）
	if path := os.Getenv("LOG_FILE"); path != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Warnf("Failed to open log file %s: %v", path, err)
		} else {
			out = io.MultiWriter(os.Stdout, file)
		}
	}

	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := log.ParseLevel(levelStr); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// L 返回全局 logger。
func L() *log.Logger { return log.StandardLogger() }

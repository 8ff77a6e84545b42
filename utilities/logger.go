package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	logMutex sync.Mutex
)

// SetupLogging wires the three level loggers to stdout/stderr plus rotating
// files under logDir.
func SetupLogging(logDir string) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	infoFile := rotatingLogFile(filepath.Join(logDir, "info.log"))
	warnFile := rotatingLogFile(filepath.Join(logDir, "warn.log"))
	errorFile := rotatingLogFile(filepath.Join(logDir, "error.log"))

	infoWriter := io.MultiWriter(os.Stdout, infoFile)
	warnWriter := io.MultiWriter(os.Stdout, warnFile)
	errorWriter := io.MultiWriter(os.Stderr, errorFile)

	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(warnWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errorWriter, "ERROR: ", log.Ldate|log.Ltime)

	// Override Go's default log
	log.SetOutput(infoWriter)
}

func rotatingLogFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logAt(level string, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()

	message := fmt.Sprintf(format, v...)
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), message)

	switch level {
	case "INFO":
		if infoLog != nil {
			infoLog.Println(logEntry)
		} else {
			log.Println(logEntry)
		}
	case "WARNING":
		if warnLog != nil {
			warnLog.Println(logEntry)
		} else {
			log.Println(logEntry)
		}
	case "ERROR":
		if errorLog != nil {
			errorLog.Println(logEntry)
		} else {
			log.Println(logEntry)
		}
	}
}

func Info(format string, v ...interface{}) {
	logAt("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	logAt("WARNING", format, v...)
}

func Error(format string, v ...interface{}) {
	logAt("ERROR", format, v...)
}

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// InitLogger configura slog para escribir en consola y en el archivo de log del módulo.
//
// Parámetros:
//   - logPath: archivo donde se van a guardar los logs (se crea el directorio si no existe)
//   - logLevel: nivel de logueo definido en la config (DEBUG, INFO, WARN, ERROR)
//
// Ejemplo:
//
//	func main() {
//		log.InitLogger("./logs/memoria.log", "INFO")
//	}
func InitLogger(logPath string, logLevel string) {
	if err := os.MkdirAll(filepath.Dir(logPath), os.ModePerm); err != nil {
		panic(err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		panic(err)
	}

	level, err := convertStringToLogLevel(logLevel)
	slog.SetDefault(NewLogger(io.MultiWriter(os.Stdout, logFile), level))

	// Si el nivel no existe avisamos recién ahora que el logger ya está configurado
	if err != nil {
		slog.Warn(err.Error())
	}

	slog.Debug("Logger configurado", "archivo", logPath, "nivel", level.String())
}

// NewLogger arma un logger de texto sobre el writer dado. Lo usan los tests para capturar la salida.
func NewLogger(writer io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// convertStringToLogLevel traduce el nivel de la config a slog.Level. Por defecto INFO.
func convertStringToLogLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("No existe el nivel %q, se coloca INFO por defecto. ", levelStr)
	}
}

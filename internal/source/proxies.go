package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/shaiso/Trax/internal/transport"
)

// ReadProxies читает список прокси. Отсутствующий файл — пустой список
// (все кошельки работают напрямую). Нераспознанная строка логируется
// и пропускается.
func ReadProxies(path string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read proxies: %w", err)
	}

	lines := readLines(data)
	proxies := make([]string, 0, len(lines))
	for i, p := range lines {
		if _, err := transport.ParseProxy(p); err != nil {
			logger.Warn("skipping invalid proxy", "file", path, "entry", i+1, "error", err)
			continue
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Trax/internal/chain"
	"github.com/shaiso/Trax/internal/domain"
)

// ErrInvalidWallet — запись в файле кошельков не прошла валидацию.
var ErrInvalidWallet = errors.New("invalid wallet entry")

// FileSource — источник кошельков из файла.
type FileSource struct {
	Path   string
	Logger *slog.Logger
}

// ListWallets читает кошельки из файла, пропуская невалидные записи.
func (s FileSource) ListWallets(_ context.Context) ([]domain.Wallet, error) {
	return ReadWallets(s.Path, s.Logger)
}

// ReadWallets читает кошельки. Отсутствующий файл — пустой список.
//
// Невалидная запись логируется и пропускается; ошибка возвращается
// только если файл не читается или не разбирается целиком.
func ReadWallets(path string, logger *slog.Logger) ([]domain.Wallet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read wallets: %w", err)
	}

	var entries []domain.Wallet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = parseJSON(data)
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		entries = parseKeys(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	wallets := make([]domain.Wallet, 0, len(entries))
	for i, w := range entries {
		w, err := normalizeWallet(w)
		if err != nil {
			logger.Warn("skipping invalid wallet entry",
				"file", path,
				"entry", i+1,
				"error", fmt.Errorf("%w: %v", ErrInvalidWallet, err),
			)
			continue
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// normalizeWallet обрезает поля, выводит адрес из ключа и валидирует запись.
func normalizeWallet(w domain.Wallet) (domain.Wallet, error) {
	w.Address = strings.TrimSpace(w.Address)
	w.PrivateKey = strings.TrimSpace(w.PrivateKey)

	if w.Address == "" && w.PrivateKey != "" {
		addr, err := chain.AddressFromKey(w.PrivateKey)
		if err != nil {
			return w, err
		}
		w.Address = addr.Hex()
	}
	return w, w.Validate()
}

func parseJSON(data []byte) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	if err := json.Unmarshal(data, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// parseYAML принимает список кошельков или документ с ключом wallets.
func parseYAML(data []byte) ([]domain.Wallet, error) {
	var list []domain.Wallet
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Wallets []domain.Wallet `yaml:"wallets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Wallets, nil
}

// parseKeys — по одному приватному ключу в строке; адрес выводится при валидации.
func parseKeys(data []byte) []domain.Wallet {
	lines := readLines(data)
	wallets := make([]domain.Wallet, 0, len(lines))
	for _, key := range lines {
		wallets = append(wallets, domain.Wallet{PrivateKey: key})
	}
	return wallets
}

// readLines возвращает непустые строки без комментариев.
func readLines(data []byte) []string {
	var result []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, line)
	}
	return result
}

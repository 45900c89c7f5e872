// Package config собирает конфигурацию Trax из .env и переменных окружения.
//
// Порядок: .env (godotenv, не перетирает уже заданные переменные),
// затем .env.local (перетирает), затем парсинг в Config с дефолтами
// и validate(). Ошибка валидации — фатальная, до любых сетевых вызовов.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shaiso/Trax/internal/captcha"
)

// Значения по умолчанию.
const (
	DefaultFaucetURL    = "https://bartiofaucet.berachain.com"
	DefaultAPIURL       = "https://beratrax-api-ae00332865bc.herokuapp.com"
	DefaultReferrer     = "GeognosticalBera"
	DefaultConnector    = "io.metamask"
	DefaultWalletsFile  = "wallets.json"
	DefaultProxiesFile  = "proxy.txt"
	DefaultRetries      = 3
	DefaultRetryDelay   = 2 * time.Second
	DefaultCooldown     = 8 * time.Hour
	DefaultStartupDelay = 3 * time.Second
	DefaultServerPort   = 8090
	DefaultGasReserve   = "1000000000000000" // 0.001 BERA
)

// Config — полная конфигурация процесса.
type Config struct {
	Captcha  CaptchaConfig
	Files    FilesConfig
	Remote   RemoteConfig
	Schedule ScheduleConfig
	Chain    ChainConfig
	DB       DBConfig
	MQ       MQConfig
	Server   ServerConfig
	Log      LogConfig
}

// CaptchaConfig — настройки сервиса решения captcha.
type CaptchaConfig struct {
	APIKey       string
	SolverType   string
	SiteKey      string
	PageURL      string
	PollInterval time.Duration
	MaxPolls     int
}

// Provider возвращает провайдера, выбранного CAPTCHA_SOLVER_TYPE.
// Вызывать после успешной валидации.
func (c CaptchaConfig) Provider() captcha.Provider {
	p, _ := captcha.ParseProvider(c.SolverType)
	return p
}

// FilesConfig — пути к файлам кошельков и прокси.
type FilesConfig struct {
	Wallets string
	Proxies string
}

// RemoteConfig — адреса API и политика retry.
type RemoteConfig struct {
	FaucetURL  string
	APIURL     string
	Referrer   string
	Connector  string
	Retries    int
	RetryDelay time.Duration

	// RateLimit — попыток в секунду на все вызовы; 0 — без ограничения.
	RateLimit float64
}

// ScheduleConfig — параметры цикла.
type ScheduleConfig struct {
	Cooldown     time.Duration
	StartupDelay time.Duration
}

// ChainConfig — настройки on-chain шага.
// Пустой ZapContract отключает шаг.
type ChainConfig struct {
	RPCURL         string
	ZapContract    string
	ZapCalldata    string
	VaultToken     string
	GasReserveWei  *big.Int
	ReceiptTimeout time.Duration
}

// Enabled возвращает true, если on-chain шаг настроен.
func (c ChainConfig) Enabled() bool {
	return c.RPCURL != "" && c.ZapContract != ""
}

// DBConfig — PostgreSQL как источник кошельков (опционально).
type DBConfig struct {
	URL string
}

// MQConfig — RabbitMQ для событий (опционально).
type MQConfig struct {
	URL string
}

// ServerConfig — HTTP-сервер worker'а.
type ServerConfig struct {
	Port int
}

// LogConfig — уровень и формат логов.
type LogConfig struct {
	Level  string
	Format string
}

// LoadDotEnv загружает .env и .env.local, если они есть.
func LoadDotEnv() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")
}

// Load читает конфигурацию из окружения и валидирует её.
func Load() (*Config, error) {
	var errs []error

	gasReserve, ok := new(big.Int).SetString(getEnv("GAS_RESERVE_WEI", DefaultGasReserve), 10)
	if !ok || gasReserve.Sign() < 0 {
		errs = append(errs, fmt.Errorf("%w: GAS_RESERVE_WEI", ErrInvalidValue))
	}

	cfg := &Config{
		Captcha: CaptchaConfig{
			APIKey:       strings.TrimSpace(os.Getenv("CAPTCHA_SOLVER_API_KEY")),
			SolverType:   strings.TrimSpace(os.Getenv("CAPTCHA_SOLVER_TYPE")),
			SiteKey:      getEnv("CAPTCHA_SITE_KEY", captcha.DefaultSiteKey),
			PageURL:      getEnv("CAPTCHA_PAGE_URL", captcha.DefaultPageURL),
			PollInterval: getEnvDuration("CAPTCHA_POLL_INTERVAL", captcha.DefaultPollInterval, &errs),
			MaxPolls:     getEnvInt("CAPTCHA_MAX_POLLS", captcha.DefaultMaxPolls, &errs),
		},
		Files: FilesConfig{
			Wallets: getEnv("WALLETS_FILE", DefaultWalletsFile),
			Proxies: getEnv("PROXIES_FILE", DefaultProxiesFile),
		},
		Remote: RemoteConfig{
			FaucetURL:  strings.TrimRight(getEnv("FAUCET_URL", DefaultFaucetURL), "/"),
			APIURL:     strings.TrimRight(getEnv("TRAX_API_URL", DefaultAPIURL), "/"),
			Referrer:   getEnv("REFERRER", DefaultReferrer),
			Connector:  getEnv("CONNECTOR", DefaultConnector),
			Retries:    getEnvInt("REMOTE_RETRIES", DefaultRetries, &errs),
			RetryDelay: getEnvDuration("REMOTE_RETRY_DELAY", DefaultRetryDelay, &errs),
			RateLimit:  getEnvFloat("REMOTE_RATE_LIMIT", 0, &errs),
		},
		Schedule: ScheduleConfig{
			Cooldown:     getEnvDuration("COOLDOWN", DefaultCooldown, &errs),
			StartupDelay: getEnvDuration("STARTUP_DELAY", DefaultStartupDelay, &errs),
		},
		Chain: ChainConfig{
			RPCURL:         getEnv("RPC_URL", ""),
			ZapContract:    getEnv("ZAP_CONTRACT", ""),
			ZapCalldata:    getEnv("ZAP_CALLDATA", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			GasReserveWei:  gasReserve,
			ReceiptTimeout: getEnvDuration("RECEIPT_TIMEOUT", 2*time.Minute, &errs),
		},
		DB: DBConfig{
			URL: getEnv("DB_URL", ""),
		},
		MQ: MQConfig{
			URL: getEnv("RABBITMQ_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvInt("WORKER_PORT", DefaultServerPort, &errs),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := captcha.ParseProvider(c.Captcha.SolverType); err != nil {
		return ErrInvalidCaptchaType
	}
	if c.Captcha.APIKey == "" {
		return ErrMissingCaptchaKey
	}
	if c.Remote.Retries < 0 {
		return fmt.Errorf("%w: REMOTE_RETRIES must be >= 0", ErrInvalidValue)
	}
	if c.Remote.RetryDelay < 0 {
		return fmt.Errorf("%w: REMOTE_RETRY_DELAY must be >= 0", ErrInvalidValue)
	}
	if c.Remote.RateLimit < 0 {
		return fmt.Errorf("%w: REMOTE_RATE_LIMIT must be >= 0", ErrInvalidValue)
	}
	if c.Schedule.Cooldown <= 0 {
		return fmt.Errorf("%w: COOLDOWN must be positive", ErrInvalidValue)
	}
	if c.Captcha.MaxPolls <= 0 {
		return fmt.Errorf("%w: CAPTCHA_MAX_POLLS must be positive", ErrInvalidValue)
	}
	if c.Chain.ZapContract != "" && c.Chain.RPCURL == "" {
		return fmt.Errorf("%w: RPC_URL is required when ZAP_CONTRACT is set", ErrInvalidValue)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return f
}

// getEnvDuration принимает "2s"/"8h" или целое число секунд.
func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return d
}

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Trax/internal/config"
)

// NewConfigCmd создаёт группу команд для проверки конфигурации.
func NewConfigCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigCheckCmd(deps))
	return cmd
}

// ConfigView — конфигурация без секретов.
type ConfigView struct {
	CaptchaProvider string  `json:"captcha_provider"`
	WalletsFile     string  `json:"wallets_file"`
	ProxiesFile     string  `json:"proxies_file"`
	FaucetURL       string  `json:"faucet_url"`
	APIURL          string  `json:"api_url"`
	Referrer        string  `json:"referrer"`
	Retries         int     `json:"retries"`
	RetryDelay      string  `json:"retry_delay"`
	RateLimit       float64 `json:"rate_limit"`
	Cooldown        string  `json:"cooldown"`
	ChainEnabled    bool    `json:"chain_enabled"`
	WalletDB        bool    `json:"wallet_db"`
	Events          bool    `json:"events"`
	WorkerPort      int     `json:"worker_port"`
}

// NewConfigView строит представление конфигурации для вывода.
func NewConfigView(cfg *config.Config) ConfigView {
	return ConfigView{
		CaptchaProvider: cfg.Captcha.Provider().Name(),
		WalletsFile:     cfg.Files.Wallets,
		ProxiesFile:     cfg.Files.Proxies,
		FaucetURL:       cfg.Remote.FaucetURL,
		APIURL:          cfg.Remote.APIURL,
		Referrer:        cfg.Remote.Referrer,
		Retries:         cfg.Remote.Retries,
		RetryDelay:      cfg.Remote.RetryDelay.String(),
		RateLimit:       cfg.Remote.RateLimit,
		Cooldown:        cfg.Schedule.Cooldown.String(),
		ChainEnabled:    cfg.Chain.Enabled(),
		WalletDB:        cfg.DB.URL != "",
		Events:          cfg.MQ.URL != "",
		WorkerPort:      cfg.Server.Port,
	}
}

func newConfigCheckCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and validate configuration from the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			out := deps.Output()

			view := NewConfigView(cfg)
			rows := [][]string{
				{"captcha provider", view.CaptchaProvider},
				{"wallets file", view.WalletsFile},
				{"proxies file", view.ProxiesFile},
				{"faucet url", view.FaucetURL},
				{"api url", view.APIURL},
				{"referrer", view.Referrer},
				{"retries", strconv.Itoa(view.Retries)},
				{"retry delay", view.RetryDelay},
				{"rate limit", strconv.FormatFloat(view.RateLimit, 'f', -1, 64)},
				{"cooldown", view.Cooldown},
				{"on-chain stake", strconv.FormatBool(view.ChainEnabled)},
				{"wallet db", strconv.FormatBool(view.WalletDB)},
				{"events", strconv.FormatBool(view.Events)},
				{"worker port", strconv.Itoa(view.WorkerPort)},
			}

			out.Print([]string{"SETTING", "VALUE"}, rows, view)
			out.Success("Configuration is valid")
			return nil
		},
	}
}

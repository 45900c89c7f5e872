package cli

import (
	"log/slog"

	"github.com/shaiso/Trax/internal/config"
)

// Deps — ленивые зависимости команд.
type Deps struct {
	Client func() *Client
	Output func() *Output
	Config func() (*config.Config, error)
	Logger func() *slog.Logger
}

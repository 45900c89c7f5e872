package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCmd создаёт команду опроса status API worker'а.
func NewStatusCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the worker's sweep loop state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := deps.Client().Status(cmd.Context())
			if err != nil {
				return err
			}

			uptime := (time.Duration(status.UptimeSeconds) * time.Second).String()
			rows := [][]string{
				{"wallets", strconv.Itoa(status.Wallets)},
				{"sweeps", strconv.Itoa(status.Sweeps)},
				{"bonus claimed", strconv.FormatBool(status.BonusClaimed)},
				{"uptime", uptime},
			}
			if last := status.LastSweep; last != nil {
				rows = append(rows,
					[]string{"last sweep", "#" + strconv.Itoa(last.Number)},
					[]string{"last sweep ok/failed", strconv.Itoa(last.Succeeded) + "/" + strconv.Itoa(last.Failed)},
					[]string{"last sweep finished", last.FinishedAt.Format(time.RFC3339)},
				)
				if last.NextRunAt != nil {
					rows = append(rows, []string{"next sweep", last.NextRunAt.Format(time.RFC3339)})
				}
			}

			deps.Output().Print([]string{"FIELD", "VALUE"}, rows, status)
			return nil
		},
	}
}

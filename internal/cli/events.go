package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/mq"
)

// NewEventsCmd создаёт группу команд для потока событий.
func NewEventsCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Observe worker events",
	}
	cmd.AddCommand(newEventsTailCmd(deps))
	return cmd
}

func newEventsTailCmd(deps Deps) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow wallet and sweep events from RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			if cfg.MQ.URL == "" {
				return fmt.Errorf("RABBITMQ_URL is required for events")
			}

			bindings, err := tailBindings(only)
			if err != nil {
				return err
			}

			logger := deps.Logger()
			conn, err := mq.NewConnection(cfg.MQ.URL, "trax-cli", logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()
			if err := mq.SetupTopology(ctx, conn); err != nil {
				return err
			}

			out := deps.Output()
			consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
				Bindings: bindings,
				Handler: func(_ context.Context, msg *mq.Message) error {
					return printEvent(out, msg)
				},
			})

			out.Success("Waiting for events, press Ctrl+C to stop")
			return consumer.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Event type filter: wallet or sweep")
	return cmd
}

func tailBindings(only string) ([]mq.RoutingKey, error) {
	switch strings.ToLower(only) {
	case "":
		return []mq.RoutingKey{mq.RoutingKeyAll}, nil
	case "wallet":
		return []mq.RoutingKey{mq.RoutingKeyWalletProcessed}, nil
	case "sweep":
		return []mq.RoutingKey{mq.RoutingKeySweepCompleted}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", only)
	}
}

// printEvent выводит событие строкой или JSON-конвертом.
func printEvent(out *Output, msg *mq.Message) error {
	if out.JSONMode() {
		out.JSON(msg)
		return nil
	}

	ts := msg.Timestamp.Format("15:04:05")

	switch msg.Type {
	case mq.MessageTypeWalletProcessed:
		report, err := mq.ParsePayload[domain.WalletReport](msg)
		if err != nil {
			return err
		}
		stake := "-"
		if report.Stake.Settled() {
			stake = report.Stake.Balance.String()
		}
		line := fmt.Sprintf("%s wallet %s claim=%s stake=%s history=%s",
			ts, report.Address, report.Claim.Status, stake, report.History)
		if report.Failed() {
			line += " error=" + report.Error
		}
		out.Line("%s", line)

	case mq.MessageTypeSweepCompleted:
		summary, err := mq.ParsePayload[domain.SweepSummary](msg)
		if err != nil {
			return err
		}
		out.Line("%s sweep #%d wallets=%d ok=%d failed=%d bonus=%t",
			ts, summary.Number, summary.Wallets, summary.Succeeded, summary.Failed, summary.BonusRound)

	default:
		out.Line("%s %s %s", ts, msg.Type, string(msg.Payload))
	}
	return nil
}

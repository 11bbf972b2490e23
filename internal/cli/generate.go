package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"signaldesk/internal/domain"
	"signaldesk/internal/generator"
)

func init() {
	GenerateCmd.Flags().String("asset", string(domain.AssetEURUSD), "asset symbol, e.g. \"EUR/USD (OTC)\"")
	GenerateCmd.Flags().String("expiration", string(domain.Expiration1m), "expiration interval: 1m or 5m")
	GenerateCmd.Flags().String("at", "", "evaluate at this RFC3339 time instead of now")
	GenerateCmd.Flags().Bool("invert", false, "flip the direction")
	GenerateCmd.Flags().Int("count", 1, "print this many consecutive boundaries")
	RootCmd.AddCommand(GenerateCmd)
}

var GenerateCmd = &cobra.Command{
	Use:          "generate",
	Short:        "compute the signal for the next boundary",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawAsset, _ := cmd.Flags().GetString("asset")
		rawExp, _ := cmd.Flags().GetString("expiration")
		invert, _ := cmd.Flags().GetBool("invert")
		count, _ := cmd.Flags().GetInt("count")

		asset, err := domain.ParseAsset(rawAsset)
		if err != nil {
			return err
		}
		exp, err := domain.ParseExpiration(rawExp)
		if err != nil {
			return err
		}

		now, err := parseAt(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		req := domain.SignalRequest{Asset: asset, Expiration: exp, Invert: invert}
		for i := 0; i < count; i++ {
			res, err := generator.Generate(req, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", res.TargetTime, asset, exp, res.Direction)
			now = res.TargetDate
		}
		return nil
	},
}

func parseAt(cmd *cobra.Command) (time.Time, error) {
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at: %w", err)
	}
	return t, nil
}

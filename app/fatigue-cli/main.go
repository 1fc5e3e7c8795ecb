package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"adFatigue/business/fatigue"
	"adFatigue/domain"

	"github.com/spf13/cobra"
)

type options struct {
	input      string
	configFile string
}

type firstTimeInput struct {
	Snapshots               []domain.MetricSnapshot `json:"snapshots"`
	ReachedNonFollowersRate *float64                `json:"reached_non_followers_rate,omitempty"`
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "fatigue-cli",
		Short:         "fatigue-cli - score ad fatigue from JSON input",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "JSON input file, - for stdin")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Scoring config file (YAML or JSON)")

	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Format-adjusted fatigue of delivery metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.DeliveryMetrics
			cfg, err := prepare(cmd, opts, &in)
			if err != nil {
				return err
			}
			res, err := cfg.FormatFatigue(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	instagramCmd := &cobra.Command{
		Use:   "instagram",
		Short: "Instagram value score of engagement metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.InstagramMetrics
			cfg, err := prepare(cmd, opts, &in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg.InstagramValue(in))
		},
	}

	blendCmd := &cobra.Command{
		Use:   "blend",
		Short: "Blend base scores with Instagram and delivery adjustments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.BlendRequest
			cfg, err := prepare(cmd, opts, &in)
			if err != nil {
				return err
			}
			res, err := cfg.Blend(in.Base, in.Instagram, in.Delivery)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	firstTimeCmd := &cobra.Command{
		Use:   "first-time",
		Short: "Estimate the first-time impression ratio from daily snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in firstTimeInput
			cfg, err := prepare(cmd, opts, &in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg.EstimateFirstTimeRatio(in.Snapshots, in.ReachedNonFollowersRate))
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective scoring config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fatigue.LoadConfigFile(opts.configFile)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.AddCommand(formatCmd, instagramCmd, blendCmd, firstTimeCmd, configCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// prepare loads the scoring config and decodes the input into v.
func prepare(cmd *cobra.Command, opts *options, v any) (fatigue.Config, error) {
	cfg, err := fatigue.LoadConfigFile(opts.configFile)
	if err != nil {
		return fatigue.Config{}, err
	}

	var r io.Reader = cmd.InOrStdin()
	if opts.input != "-" && opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fatigue.Config{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fatigue.Config{}, fmt.Errorf("decode input: %w", err)
	}
	return cfg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

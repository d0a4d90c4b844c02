package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/axiomfp/compileinfo"
	"github.com/carbocation/axiomfp/config"
	"github.com/carbocation/axiomfp/pipeline"
	"github.com/carbocation/axiomfp/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errUsage marks command line mistakes, which exit with status 2.
var errUsage = errors.New("usage")

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "axiomfp [flags] <snp_stat> <snp_ccp> <output_folder>",
		Short: "Histograms of Axiom log ratios for well separated SNPs",
		Long: `axiomfp joins an Axiom SNP statistics report with its call contrast
positions report, removes SNPs with too many no-calls or poorly separated
genotype clusters, and writes one histogram per sample column.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(3)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v.Set("snp_stat", args[0])
			v.Set("snp_ccp", args[1])
			v.Set("output_folder", args[2])

			c, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			rep := report.NewLogrus(cmd.ErrOrStderr(), c.Verbose)
			rep.Stage("axiomFP")
			rep.Debugf("%s", compileinfo.Get())
			rep.Debugf("%s", strings.Join(os.Args, " "))

			res, err := pipeline.Run(*c, rep)
			if err != nil {
				return err
			}

			rep.Infof("Done: %s", res)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	defaults := config.New()
	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "optional config file (yaml, toml or json)")
	f.Int("nnc", defaults.GetInt("nnc"), "Cutoff value for number of calls.")
	f.Float64("ab-min", defaults.GetFloat64("ab_min"), "Lowest accepted AB.meanX")
	f.Float64("ab-max", defaults.GetFloat64("ab_max"), "Highest accepted AB.meanX")
	f.String("delimiter", defaults.GetString("delimiter"), `field delimiter: "tab", "comma", "auto" or a single character`)
	f.Int("ccp-skip", defaults.GetInt("ccp_skip"), "metadata lines before the header of the call contrast positions file")
	f.Int("bins", defaults.GetInt("bins"), "histogram bins")
	f.Float64("dpi", defaults.GetFloat64("dpi"), "histogram resolution")
	f.Int("width", defaults.GetInt("width"), "histogram width in pixels")
	f.Int("height", defaults.GetInt("height"), "histogram height in pixels")
	f.Bool("no-summary", false, "skip column_summary.tsv and run_summary.yaml")
	f.BoolP("verbose", "v", false, "debug logging")

	for _, name := range []string{"nnc", "ab-min", "ab-max", "delimiter", "ccp-skip", "bins", "dpi", "width", "height", "no-summary", "verbose"} {
		// Flag names use dashes, config keys use underscores.
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f.Lookup(name)); err != nil {
			panic(err)
		}
	}

	return cmd
}

// Execute runs the command line and returns the process exit status.
func Execute(args []string) int {
	cmd := newRootCmd(config.New())
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
			return 2
		}
		return 1
	}

	return 0
}

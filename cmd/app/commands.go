package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/moonwatch/internal/domain/compass"
	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/infra/config"
)

// newRootCmd builds the moonwatch CLI. Without a sub-command it serves the
// browser UI.
//
//	moonwatch [serve] [-c configs/config.yaml]
//	moonwatch lookup --location "New York"
//	moonwatch compass --angle 135 [-o compass.svg]
func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:          "moonwatch",
		Short:        "Personalized moon viewing",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file path (default $CONFIG_PATH or configs/config.yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the moon viewing page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, config.Path(cfgPath))
		},
	}
	root.RunE = serve.RunE

	root.AddCommand(serve, newLookupCmd(&cfgPath), newCompassCmd())
	return root
}

func runServe(cmd *cobra.Command, path config.Path) error {
	app, cleanup, err := initializeApp(path)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()
	return app.Run(cmd.Context())
}

func newLookupCmd(cfgPath *string) *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Fetch moon data for a city and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := initializeLookup(config.Path(*cfgPath))
			if err != nil {
				return fmt.Errorf("wire lookup: %w", err)
			}
			return runner.Run(cmd.Context(), location, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "city to look up")
	return cmd
}

func newCompassCmd() *cobra.Command {
	var (
		angle  float64
		output string
	)
	cmd := &cobra.Command{
		Use:   "compass",
		Short: "Write the compass dial for an angle as SVG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCompass(cmd.OutOrStdout(), output, angle)
		},
	}
	cmd.Flags().Float64VarP(&angle, "angle", "a", 0, "needle angle in degrees clockwise from North")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func writeCompass(stdout io.Writer, output string, angle float64) error {
	svg := compass.SVG(angle) + "\n"
	if strings.TrimSpace(output) == "" {
		_, err := io.WriteString(stdout, svg)
		return err
	}
	if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

var errLookupFailed = errors.New("lookup failed")

func printView(w io.Writer, view moonview.ViewState) error {
	if view.Status != moonview.StatusLoaded {
		fmt.Fprintln(w, view.Error)
		return errLookupFailed
	}
	fmt.Fprintln(w, view.Location)
	for _, f := range moonview.Facts(view.Result) {
		fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
	}
	fmt.Fprintf(w, "Moon Direction: %s\n", compass.Label(view.CompassAngle()))
	return nil
}

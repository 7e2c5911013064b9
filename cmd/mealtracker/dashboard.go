// Dashboard command: the interactive terminal dashboard.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
)

var flagOnce bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive meal dashboard",
	Long: `Dashboard loads meals, insights and the profile from the API and shows
them in the terminal. Press r to refresh and q to quit.

With --once the dashboard is loaded a single time and printed.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&flagOnce, "once", false, "print the dashboard once and exit")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	d := dashboard.New(c)

	if flagOnce {
		err := d.Hydrate(cmd.Context())
		state := d.Snapshot()
		if perr := printOutput(cmd, state, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, dashboard.RenderDashboard(state, time.Local))
			return err
		}); perr != nil {
			return perr
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return dashboard.Run(ctx, d)
}

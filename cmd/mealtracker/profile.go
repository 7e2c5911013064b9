// Profile commands: show and set height/weight, and the BMI calculator.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mealtracker/internal/bmi"
	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update height and weight",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile and BMI",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update height (cm) and weight (kg)",
	Long: `Set updates the profile. Omitted values are left unchanged. Without
flags a form is shown, pre-filled with the current profile.

Example:
  mealtracker profile set --height 170 --weight 65
  mealtracker profile set`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

var bmiCmd = &cobra.Command{
	Use:   "bmi <weight-kg> <height-cm>",
	Short: "Calculate BMI without storing anything",
	Args:  cobra.ExactArgs(2),
	RunE:  runBMI,
}

var (
	profileHeight string
	profileWeight string
)

func init() {
	profileSetCmd.Flags().StringVar(&profileHeight, "height", "", "height in centimetres")
	profileSetCmd.Flags().StringVar(&profileWeight, "weight", "", "weight in kilograms")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	resp, err := c.FetchProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	return printOutput(cmd, resp, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, dashboard.RenderProfile(dashboard.NewProfileView(resp)))
		return err
	})
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	form := dashboard.ProfileForm{Height: profileHeight, Weight: profileWeight}
	if !cmd.Flags().Changed("height") && !cmd.Flags().Changed("weight") {
		current, err := c.FetchProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		form = dashboard.NewProfileForm(dashboard.NewProfileView(current))
		if err := dashboard.PromptProfile(&form); err != nil {
			return err
		}
	}

	height, weight, err := form.Values()
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	resp, err := c.UpdateProfile(cmd.Context(), height, weight)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return printOutput(cmd, resp, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, dashboard.RenderProfile(dashboard.NewProfileView(resp)))
		return err
	})
}

func runBMI(cmd *cobra.Command, args []string) error {
	weight, err := types.ParseNumberString(args[0])
	if err != nil {
		return fmt.Errorf("%w: weight must be a number", errUsage)
	}
	height, err := types.ParseNumberString(args[1])
	if err != nil {
		return fmt.Errorf("%w: height must be a number", errUsage)
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	value, err := c.ComputeBMI(cmd.Context(), weight, height)
	if err != nil {
		return fmt.Errorf("compute bmi: %w", err)
	}
	result := map[string]any{"bmi": value, "category": bmi.Classify(value).Label}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "BMI %.1f (%s)\n", value, bmi.Classify(value).Label)
		return err
	})
}

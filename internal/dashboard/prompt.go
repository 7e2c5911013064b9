package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// ErrCancelled is returned when the user aborts a form.
var ErrCancelled = errors.New("cancelled")

// PromptMeal asks for the meal form fields interactively. A photo path, when
// given, is converted to a data URL.
func PromptMeal(f *MealForm) error {
	var photoPath string
	moodOptions := []huh.Option[string]{huh.NewOption("Select mood", "")}
	for _, m := range Moods {
		moodOptions = append(moodOptions, huh.NewOption(m, m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Foods").
				Description("Comma separated list of foods.").
				Placeholder("e.g. grilled chicken, salad, rice").
				Value(&f.Foods),
			huh.NewInput().
				Title("Estimated Calories").
				Placeholder("Optional override").
				Validate(validateOptionalNumber).
				Value(&f.Calories),
			huh.NewSelect[string]().
				Title("Mood").
				Options(moodOptions...).
				Value(&f.Mood),
			huh.NewText().
				Title("Notes").
				Placeholder("How did you feel, what did you notice?").
				Value(&f.Notes),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Photo URL").
				Placeholder("https://example.com/meal.jpg").
				Value(&f.PhotoURL),
			huh.NewInput().
				Title("Meal photo file").
				Description("Optional path to an image to attach.").
				Validate(validatePhotoPath).
				Value(&photoPath),
		),
	)
	if err := runForm(form); err != nil {
		return err
	}

	if strings.TrimSpace(photoPath) != "" {
		data, err := PhotoDataURL(strings.TrimSpace(photoPath))
		if err != nil {
			return err
		}
		f.PhotoData = data
	}
	return nil
}

// PromptProfile asks for height and weight, pre-filled from f.
func PromptProfile(f *ProfileForm) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Height (cm)").
				Placeholder("170").
				Validate(validateOptionalNumber).
				Value(&f.Height),
			huh.NewInput().
				Title("Weight (kg)").
				Placeholder("68").
				Validate(validateOptionalNumber).
				Value(&f.Weight),
		),
	)
	return runForm(form)
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

func validateOptionalNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := types.ParseNumberString(s)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

func validatePhotoPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := PhotoDataURL(s)
	return err
}

// PromptCredentials asks for whichever of email and password is empty.
func PromptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(huh.NewForm(huh.NewGroup(fields...)))
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSelection is returned when a filter selection has an unsupported
// day count or region.
var ErrInvalidSelection = errors.New("invalid selection")

// DayOption is one choice offered by the time-window control.
type DayOption struct {
	Label string `json:"label"`
	Days  int    `json:"value"`
}

var dayOptions = []DayOption{
	{Label: "Today", Days: 0},
	{Label: "Last 7 Days", Days: 7},
	{Label: "Last 14 Days", Days: 14},
	{Label: "Last 30 Days", Days: 30},
}

// ControlOptions lists the values the page offers for each control.
type ControlOptions struct {
	Days     []DayOption `json:"days"`
	Regions  []string    `json:"regions"`
	Defaults Selection   `json:"defaults"`
}

// Options returns the control values in display order.
func Options() ControlOptions {
	regions := make([]string, 0, len(regionOrder)+1)
	regions = append(regions, AllRegions)
	for _, r := range regionOrder {
		regions = append(regions, string(r))
	}
	days := make([]DayOption, len(dayOptions))
	copy(days, dayOptions)
	return ControlOptions{Days: days, Regions: regions, Defaults: DefaultSelection()}
}

// Selection is the (time window, region) pair chosen by the user.
type Selection struct {
	Days   int    `json:"days" validate:"oneof=0 7 14 30"`
	Region string `json:"region" validate:"required,region_filter"`
}

// DefaultSelection is the selection shown on first page load.
func DefaultSelection() Selection {
	return Selection{Days: 30, Region: AllRegions}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag name or nil func.
	_ = v.RegisterValidation("region_filter", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == AllRegions || Region(value).IsValid()
	})
	return v
}

// Validate checks the selection against the supported control values.
// The returned error wraps both ErrInvalidSelection and the validator's
// field errors.
func (s Selection) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return nil
}

// Window returns the closed time window [from, to] for the selection.
func (s Selection) Window(reference time.Time) (from, to time.Time) {
	return reference.Add(-time.Duration(s.Days) * 24 * time.Hour), reference
}

// Matches reports whether e passes both the time and region predicates.
func (s Selection) Matches(e Event, reference time.Time) bool {
	from, to := s.Window(reference)
	if e.Time.Before(from) || e.Time.After(to) {
		return false
	}
	return s.Region == AllRegions || Region(s.Region) == e.Region
}

// ParseSelection builds a selection from query-string values. Empty values
// fall back to DefaultSelection. The result is validated.
func ParseSelection(days, region string) (Selection, error) {
	sel := DefaultSelection()
	if days = strings.TrimSpace(days); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: days %q is not an integer", ErrInvalidSelection, days)
		}
		sel.Days = n
	}
	if region = strings.TrimSpace(region); region != "" {
		sel.Region = region
	}
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

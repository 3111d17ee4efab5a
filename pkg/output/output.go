// Package output renders seating plans, either in the plain text layout operators read or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/limaJavier/carpool/pkg/model"
)

const (
	Unsatisfiable = "The provided constraints are unsatisfiable."
	Relaxed       = "Avoidance constraints were dropped to find this seating."
	NotApplicable = "N / A"

	timestampLayout = "01022006150405.000000"
)

// WriteText writes one block per car:
//
//	==== Car #1: Sedan ====
//	Window: alice bob
//	Shotgun: carol
//	Middle:
func WriteText(w io.Writer, plan model.Plan, colored bool) error {
	header, marker, warning := color.New(color.FgCyan, color.Bold), color.New(color.Faint), color.New(color.FgYellow)
	for _, c := range []*color.Color{header, marker, warning} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	if !plan.Satisfiable {
		_, err := warning.Fprintln(w, Unsatisfiable)
		return err
	}
	if plan.Relaxed {
		if _, err := warning.Fprintln(w, Relaxed); err != nil {
			return err
		}
	}

	for _, car := range plan.Cars {
		if _, err := header.Fprintf(w, "==== Car #%d: %v ====\n", car.Number, car.Build); err != nil {
			return err
		}
		for _, seats := range car.Seats {
			line := seats.Category + ":"
			if len(seats.Riders) > 0 {
				line += " " + strings.Join(seats.Riders, " ")
			}
			if _, err := fmt.Fprint(w, line); err != nil {
				return err
			}
			if seats.NotApplicable {
				if _, err := marker.Fprint(w, " "+NotApplicable); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func WriteJSON(w io.Writer, plan model.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(plan)
}

// OutputPath names the result of an input file: its base name followed by the solve time,
// inside dir.
func OutputPath(dir, input string, now time.Time) string {
	stamp := strings.ReplaceAll(now.Format(timestampLayout), ".", "")
	return filepath.Join(dir, fmt.Sprintf("%v_%v", filepath.Base(input), stamp))
}

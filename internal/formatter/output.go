package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatHuman, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Prediction writes a prediction result for category and city.
func Prediction(w io.Writer, category domain.Category, city string, result domain.PredictionResult, format string) error {
	return render(w, result, format, func() { displayPrediction(w, category, city, result) })
}

// Weather writes a weather record.
func Weather(w io.Writer, record domain.WeatherRecord, format string) error {
	return render(w, record, format, func() { displayWeather(w, record) })
}

// Status writes a connectivity state.
func Status(w io.Writer, state domain.ConnectivityState, format string) error {
	return render(w, state, format, func() { displayStatus(w, state) })
}

type categoryView struct {
	Name   domain.Category `json:"name" yaml:"name"`
	Title  string          `json:"title" yaml:"title"`
	Fields []domain.Field  `json:"fields" yaml:"fields"`
}

// Categories writes the input fields of every category.
func Categories(w io.Writer, categories []domain.Category, format string) error {
	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView{Name: c, Title: c.Title(), Fields: c.Fields()})
	}
	return render(w, views, format, func() { displayCategories(w, views) })
}

func render(w io.Writer, v any, format string, human func()) error {
	switch format {
	case FormatJSON:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	case FormatYAML:
		output, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(output))
		return err
	case FormatHuman:
		human()
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want human, json or yaml)", format)
	}
}

func displayPrediction(w io.Writer, category domain.Category, city string, result domain.PredictionResult) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "%s prediction for %s\n\n", category.Title(), city)

	likelihoodColor(result.Likelihood).Fprintf(w, "  Likelihood: %s\n", strings.ToUpper(string(result.Likelihood)))
	fmt.Fprintf(w, "  Confidence: %s %d%%\n\n", confidenceBar(result.ConfidenceScore, 20), result.ConfidenceScore)
	fmt.Fprintln(w, wrapText(result.Explanation, 80, "  "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func displayWeather(w io.Writer, r domain.WeatherRecord) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "Current weather in %s\n\n", r.City)
	fmt.Fprintf(w, "  Condition:     %s\n", r.Condition)
	fmt.Fprintf(w, "  Temperature:   %d°C\n", r.Temperature)
	fmt.Fprintf(w, "  Humidity:      %d%%\n", r.Humidity)
	fmt.Fprintf(w, "  Wind Speed:    %d km/h\n", r.WindSpeedKmh)
	fmt.Fprintf(w, "  Pressure:      %d hPa\n", r.Pressure)
	fmt.Fprintf(w, "  Precipitation: %g mm\n", r.PrecipitationMm)
	fmt.Fprintln(w)
}

func displayStatus(w io.Writer, s domain.ConnectivityState) {
	switch s.Status {
	case domain.StatusConnected:
		color.New(color.FgGreen).Fprintln(w, "✓ Prediction service connected")
	case domain.StatusFailed:
		color.New(color.FgRed).Fprintf(w, "✗ Prediction service unavailable: %s\n", s.Reason)
	default:
		color.New(color.FgYellow).Fprintln(w, "… Checking prediction service")
	}
}

func displayCategories(w io.Writer, views []categoryView) {
	bold := color.New(color.Bold)
	for _, v := range views {
		bold.Fprintf(w, "%s (%s)\n", v.Title, v.Name)
		for _, f := range v.Fields {
			req := "optional"
			if f.Required {
				req = "required"
			}
			fmt.Fprintf(w, "  --%-18s %s [%s] %s\n", f.Name, f.Label, f.Unit, color.HiBlackString(req))
		}
		fmt.Fprintln(w)
	}
}

func likelihoodColor(l domain.Likelihood) *color.Color {
	switch l {
	case domain.LikelihoodHigh:
		return color.New(color.FgRed, color.Bold)
	case domain.LikelihoodModerate:
		return color.New(color.FgYellow, color.Bold)
	case domain.LikelihoodLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

// confidenceBar renders score (0-100) as a fixed-width bar.
func confidenceBar(score, width int) string {
	score = max(0, min(score, 100))
	filled := score * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			switch {
			case len(currentLine)+len(word)+1 > width && currentLine != indent:
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			case currentLine == indent:
				currentLine += word
			default:
				currentLine += " " + word
			}
		}
		result.WriteString(currentLine + "\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}

package scoring

import (
	"errors"
	"fmt"

	"verisight/config"
	shared "verisight/shared/types"
)

// ErrInvalidScore is returned for scores outside 0..100
var ErrInvalidScore = errors.New("score must be between 0 and 100")

// Category is the authenticity bucket a trust score falls into
type Category string

const (
	Authentic  Category = "authentic"
	Suspicious Category = "suspicious"
	Deepfake   Category = "deepfake"
)

// Tone is the color family used to render a category
type Tone string

const (
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
)

type presentation struct {
	tone     Tone
	label    string
	headline string
	color    string
	hex      string
}

var presentations = map[Category]presentation{
	Authentic: {
		tone:     ToneSuccess,
		label:    "Verified Authentic",
		headline: "Verified Authentic",
		color:    "hsl(142 76% 45%)",
		hex:      "#1BCA5B",
	},
	Suspicious: {
		tone:     ToneWarning,
		label:    "Suspicious",
		headline: "Requires Review",
		color:    "hsl(38 92% 50%)",
		hex:      "#F59F0A",
	},
	Deepfake: {
		tone:     ToneDestructive,
		label:    "Likely Deepfake",
		headline: "Likely Deepfake",
		color:    "hsl(0 84% 60%)",
		hex:      "#EF4343",
	},
}

// Classify maps a trust score to its category.
// Scores at or above 80 are authentic, 50 up to 80 suspicious, below 50 deepfake.
func Classify(score int) Category {
	switch {
	case score >= config.AuthenticThreshold:
		return Authentic
	case score >= config.SuspiciousThreshold:
		return Suspicious
	default:
		return Deepfake
	}
}

// ValidScore reports whether score is a percentage
func ValidScore(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}
	return nil
}

// Tone returns the color family of the category
func (c Category) Tone() Tone { return presentations[c].tone }

// Label is the badge text under the trust gauge
func (c Category) Label() string { return presentations[c].label }

// Headline is the verdict shown on the result card
func (c Category) Headline() string { return presentations[c].headline }

// Color is the gauge stroke color as a CSS value
func (c Category) Color() string { return presentations[c].color }

// Hex is the gauge color as a hex triplet for terminal rendering
func (c Category) Hex() string { return presentations[c].hex }

// ProbabilityTone colors the deepfake probability figure
func ProbabilityTone(probability int) Tone {
	if probability > config.ProbabilityAlertThreshold {
		return ToneDestructive
	}
	return ToneSuccess
}

// StatusTone maps an activity status word back to its tone.
// Unknown words fall back to warning, matching the activity badges.
func StatusTone(status string) Tone {
	switch Category(status) {
	case Authentic:
		return ToneSuccess
	case Deepfake:
		return ToneDestructive
	default:
		return ToneWarning
	}
}

// Verdict builds the shared presentation record for a score/probability pair
func Verdict(score, probability int) shared.Verdict {
	c := Classify(score)
	return shared.Verdict{
		Category:        string(c),
		Tone:            string(c.Tone()),
		Label:           c.Label(),
		Headline:        c.Headline(),
		Color:           c.Color(),
		ProbabilityTone: string(ProbabilityTone(probability)),
	}
}

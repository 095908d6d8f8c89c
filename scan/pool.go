package scan

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"verisight/config"
	"verisight/types"
)

// pool holds the three canned outcomes a scan can end with
var pool = []types.ScanResult{
	{
		TrustScore:          23,
		DeepfakeProbability: 87,
		Confidence:          94,
		MediaType:           types.MediaImage,
		Anomalies: []string{
			"Facial landmark inconsistency detected",
			"Unnatural eye blinking pattern",
			"GAN artifacts in hair region",
			"Frequency domain anomalies",
		},
		ProcessingTime: 1.8,
	},
	{
		TrustScore:          92,
		DeepfakeProbability: 8,
		Confidence:          96,
		MediaType:           types.MediaVideo,
		Anomalies:           []string{},
		ProcessingTime:      4.2,
	},
	{
		TrustScore:          67,
		DeepfakeProbability: 33,
		Confidence:          78,
		MediaType:           types.MediaAudio,
		Anomalies: []string{
			"Voice frequency irregularities",
			"Potential audio splicing detected",
		},
		ProcessingTime: 2.1,
	},
}

// Steps are the analysis stages shown while a scan runs
var Steps = []string{
	"Extracting features",
	"Analyzing facial landmarks",
	"Frequency domain analysis",
	"Neural network inference",
}

// Pool returns copies of the canned results in their fixed order
func Pool() []types.ScanResult {
	out := make([]types.ScanResult, len(pool))
	for i, r := range pool {
		out[i] = r.Clone()
	}
	return out
}

// Picker selects canned results uniformly at random. Safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a picker over the given source; nil seeds from the clock
func NewPicker(src rand.Source) *Picker {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Picker{rng: rand.New(src)}
}

// Pick returns one of the pool results
func (p *Picker) Pick() types.ScanResult {
	p.mu.Lock()
	idx := p.rng.Intn(len(pool))
	p.mu.Unlock()
	return pool[idx].Clone()
}

// Heatmap returns the hotspots drawn over a result. Only image results
// that score below the suspicious threshold get any.
func Heatmap(r types.ScanResult) []types.HeatmapSpot {
	if r.MediaType != types.MediaImage || r.TrustScore >= config.SuspiciousThreshold {
		return nil
	}
	return []types.HeatmapSpot{
		{X: 35, Y: 30, Intensity: 0.9, Label: "GAN artifacts"},
		{X: 65, Y: 45, Intensity: 0.7, Label: "Facial inconsistency"},
	}
}

// Bar is one column of the decorative waveform
type Bar struct {
	Low      float64 `json:"low"`  // resting height, percent
	High     float64 `json:"high"` // peak height, percent
	Hue      float64 `json:"hue"`
	Duration float64 `json:"duration"` // seconds per swing
	Delay    float64 `json:"delay"`    // seconds
}

// Color is the bar fill as a CSS value
func (b Bar) Color() string {
	return fmt.Sprintf("hsl(%.0f 100%% 50%%)", b.Hue)
}

// HeightAt is the bar height, in percent, t seconds into the animation.
// Bars swing linearly Low -> High -> Low once per Duration, starting after Delay.
func (b Bar) HeightAt(t float64) float64 {
	t -= b.Delay
	if t <= 0 || b.Duration <= 0 {
		return b.Low
	}
	phase := math.Mod(t, b.Duration) / b.Duration
	if phase > 0.5 {
		phase = 1 - phase
	}
	return b.Low + (b.High-b.Low)*phase*2
}

// Waveform generates n decorative bars with a cyan to purple hue ramp
func Waveform(n int, rng *rand.Rand) []Bar {
	if n <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			Low:      20 + rng.Float64()*30,
			High:     50 + rng.Float64()*50,
			Hue:      185 + float64(i)/float64(n)*85,
			Duration: 0.5 + rng.Float64()*0.5,
			Delay:    float64(i) * 0.02,
		}
	}
	return bars
}

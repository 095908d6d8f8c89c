// Package content holds the site copy shown on every page.
// The copy lives in an embedded YAML document so it can be edited without touching templates.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"verisight/types"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

// Link is a named route
type Link struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// LinkGroup is one footer column
type LinkGroup struct {
	Title string `yaml:"title" json:"title"`
	Links []Link `yaml:"links" json:"links"`
}

// Card is the common title + description block
type Card struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Stat is a headline figure
type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type SampleScan struct {
	File        string `yaml:"file"`
	Score       int    `yaml:"score"`
	Probability int    `yaml:"probability"`
	Confidence  int    `yaml:"confidence"`
}

type Landing struct {
	Badge          string     `yaml:"badge"`
	Headline       string     `yaml:"headline"`
	Intro          string     `yaml:"intro"`
	Certifications []string   `yaml:"certifications"`
	Sample         SampleScan `yaml:"sample"`
	Stats          []Stat     `yaml:"stats"`
	Features       []Card     `yaml:"features"`
	UseCases       []Card     `yaml:"use_cases"`
	CTA            string     `yaml:"cta"`
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Pricing struct {
	Plans []Plan `yaml:"plans"`
	// Comparison rows are feature, free, pro, enterprise
	Comparison [][]string `yaml:"comparison"`
	FAQs       []FAQ      `yaml:"faqs"`
}

type MediaTypeCard struct {
	Title      string          `yaml:"title"`
	Kind       types.MediaType `yaml:"kind"`
	Techniques []string        `yaml:"techniques"`
}

type Risk struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Stat        string `yaml:"stat"`
	StatLabel   string `yaml:"stat_label"`
}

type Milestone struct {
	Year        string `yaml:"year"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Education struct {
	Intro      string          `yaml:"intro"`
	Topics     []Card          `yaml:"topics"`
	MediaTypes []MediaTypeCard `yaml:"media_types"`
	Risks      []Risk          `yaml:"risks"`
	Timeline   []Milestone     `yaml:"timeline"`
}

// TrustFactor is one weighted input of the trust score explanation
type TrustFactor struct {
	Name        string `yaml:"name"`
	Weight      int    `yaml:"weight"` // percent
	Description string `yaml:"description"`
}

type Model struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Accuracy    string `yaml:"accuracy"`
	Description string `yaml:"description"`
}

type Trust struct {
	Intro     string        `yaml:"intro"`
	DemoScore int           `yaml:"demo_score"`
	Factors   []TrustFactor `yaml:"factors"`
	Pipeline  []Card        `yaml:"pipeline"`
	Models    []Model       `yaml:"models"`
}

type Member struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Bio  string `yaml:"bio"`
}

// Initials is shown in the member's avatar bubble
func (m Member) Initials() string {
	out := make([]rune, 0, 2)
	start := true
	for _, r := range m.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}

type Paper struct {
	Title string `yaml:"title"`
	Venue string `yaml:"venue"`
}

type About struct {
	Intro       string   `yaml:"intro"`
	Mission     []string `yaml:"mission"`
	Stats       []Stat   `yaml:"stats"`
	Values      []Card   `yaml:"values"`
	Team        []Member `yaml:"team"`
	Datasets    []string `yaml:"datasets"`
	Research    []Paper  `yaml:"research"`
	EthicsIntro string   `yaml:"ethics_intro"`
	Ethics      []string `yaml:"ethics"`
}

// Activity is a placeholder row for the dashboard's recent activity panel
type Activity struct {
	Type   types.MediaType `yaml:"type" json:"type"`
	Status string          `yaml:"status" json:"status"`
	Time   string          `yaml:"time" json:"time"`
}

type Dashboard struct {
	Intro          string     `yaml:"intro"`
	Tips           []string   `yaml:"tips"`
	SampleActivity []Activity `yaml:"sample_activity"`
}

// Site is the full copy deck
type Site struct {
	Brand     string      `yaml:"brand"`
	Tagline   string      `yaml:"tagline"`
	Copyright string      `yaml:"copyright"`
	Nav       []Link      `yaml:"nav"`
	Footer    []LinkGroup `yaml:"footer"`
	Landing   Landing     `yaml:"landing"`
	Pricing   Pricing     `yaml:"pricing"`
	Education Education   `yaml:"education"`
	Trust     Trust       `yaml:"trust"`
	About     About       `yaml:"about"`
	Dashboard Dashboard   `yaml:"dashboard"`
}

// Parse decodes and validates a copy deck
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) validate() error {
	if s.Brand == "" {
		return errors.New("site content: brand is required")
	}
	if len(s.Nav) == 0 {
		return errors.New("site content: nav is empty")
	}
	for _, l := range s.Nav {
		if l.Name == "" || l.Path == "" || l.Path[0] != '/' {
			return fmt.Errorf("site content: bad nav link %+v", l)
		}
	}
	if len(s.Pricing.Plans) == 0 {
		return errors.New("site content: no pricing plans")
	}
	for _, row := range s.Pricing.Comparison {
		if len(row) != len(s.Pricing.Plans)+1 {
			return fmt.Errorf("site content: comparison row %q has %d cells", row, len(row))
		}
	}
	for _, m := range s.Education.MediaTypes {
		if !m.Kind.Valid() {
			return fmt.Errorf("site content: unknown media kind %q", m.Kind)
		}
	}
	return nil
}

var loadSite = sync.OnceValues(func() (*Site, error) {
	return Parse(siteYAML)
})

// Load returns the embedded copy deck. It is parsed once.
func Load() (*Site, error) {
	return loadSite()
}

// Plan looks up a pricing plan by name
func (s *Site) Plan(name string) (Plan, bool) {
	for _, p := range s.Pricing.Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

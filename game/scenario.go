package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_scenario.yaml
var defaultScenario []byte

// Scenario describes the initial state of a world
type Scenario struct {
	Name     string        `yaml:"name"`
	Regions  []RegionSpec  `yaml:"regions"`
	Elements []ElementSpec `yaml:"elements"`
}

// RegionSpec describes one region
type RegionSpec struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"` // space, orbital or airspace
	Primary  string  `yaml:"primary"`
	Location Vec3    `yaml:"location"`
	Terrain  float64 `yaml:"terrain"`
}

// ElementSpec describes a flight of identical ships
type ElementSpec struct {
	Name       string         `yaml:"name"`
	IFF        int            `yaml:"iff"`
	Design     string         `yaml:"design"`
	Count      int            `yaml:"count"`
	Region     string         `yaml:"region"`
	Location   Vec3           `yaml:"location"`
	Heading    float64        `yaml:"heading"` // degrees
	Speed      float64        `yaml:"speed"`
	Spacing    float64        `yaml:"spacing"`
	Skill      int            `yaml:"skill"`
	Controller string         `yaml:"controller"`
	Ward       string         `yaml:"ward"`
	Farcast    string         `yaml:"farcast"` // paired gate for farcaster hosts
	Phase      string         `yaml:"phase"`
	NavPoints  []NavPointSpec `yaml:"navpoints"`
}

// NavPointSpec describes one navpoint in an element's flight plan
type NavPointSpec struct {
	Action   string  `yaml:"action"`
	Region   string  `yaml:"region"`
	Location Vec3    `yaml:"location"`
	Speed    float64 `yaml:"speed"`
	Hold     float64 `yaml:"hold"`
	Farcast  bool    `yaml:"farcast"`
}

// LoadScenario decodes a scenario. Unknown keys are rejected.
func LoadScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScenarioFile reads a scenario from disk.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return LoadScenario(f)
}

// DefaultScenario returns the built-in carrier group scenario.
func DefaultScenario() (*Scenario, error) {
	return LoadScenario(bytes.NewReader(defaultScenario))
}

// Validate checks cross references between regions, designs and elements.
func (sc *Scenario) Validate() error {
	regions := make(map[string]bool)
	for _, r := range sc.Regions {
		if r.Name == "" {
			return fmt.Errorf("scenario %q: region without a name", sc.Name)
		}
		if _, ok := parseRegionType(r.Type); !ok {
			return fmt.Errorf("region %q: unknown type %q", r.Name, r.Type)
		}
		regions[r.Name] = true
	}
	for _, e := range sc.Elements {
		if _, ok := Designs[e.Design]; !ok {
			return fmt.Errorf("element %q: unknown design %q", e.Name, e.Design)
		}
		if !regions[e.Region] {
			return fmt.Errorf("element %q: unknown region %q", e.Name, e.Region)
		}
		if e.Skill < 0 || e.Skill > 2 {
			return fmt.Errorf("element %q: skill %d out of range 0-2", e.Name, e.Skill)
		}
		for i, n := range e.NavPoints {
			if ParseAction(n.Action) == ActionNone {
				return fmt.Errorf("element %q navpoint %d: unknown action %q", e.Name, i+1, n.Action)
			}
			if n.Region != "" && !regions[n.Region] {
				return fmt.Errorf("element %q navpoint %d: unknown region %q", e.Name, i+1, n.Region)
			}
		}
	}
	return nil
}

func parseRegionType(s string) (RegionType, bool) {
	switch strings.ToLower(s) {
	case "", "space":
		return RegionSpace, true
	case "orbital":
		return RegionOrbital, true
	case "airspace", "terrain":
		return RegionAirSpace, true
	}
	return RegionSpace, false
}

func parsePhase(s string) FlightPhase {
	for i, n := range phaseNames {
		if n == strings.ToLower(s) {
			return FlightPhase(i)
		}
	}
	return PhaseActive
}

// Build creates a populated world from the scenario.
func (sc *Scenario) Build() (*World, error) {
	w := NewWorld()
	for _, rs := range sc.Regions {
		t, _ := parseRegionType(rs.Type)
		w.Regions = append(w.Regions, &Region{
			Name:          rs.Name,
			Type:          t,
			Primary:       rs.Primary,
			Location:      rs.Location,
			TerrainHeight: rs.Terrain,
			Active:        true,
		})
	}

	type link struct {
		ship *Ship
		spec ElementSpec
	}
	var links []link

	for _, es := range sc.Elements {
		design := Designs[es.Design]
		region := w.FindRegion(es.Region)
		elem := &Element{Name: es.Name, IFF: es.IFF}
		for _, ns := range es.NavPoints {
			n := &Instruction{
				Action:   ParseAction(ns.Action),
				Status:   StatusPending,
				Location: ns.Location,
				Speed:    ns.Speed,
				HoldTime: ns.Hold,
				Farcast:  ns.Farcast,
			}
			if ns.Region != "" {
				n.Region = w.FindRegion(ns.Region)
			}
			elem.NavList = append(elem.NavList, n)
		}
		w.Elements = append(w.Elements, elem)

		count := es.Count
		if count < 1 {
			count = 1
		}
		spacing := es.Spacing
		if spacing <= 0 {
			spacing = design.Radius * 20
		}
		heading := es.Heading * math.Pi / 180
		for i := 0; i < count; i++ {
			name := es.Name
			if count > 1 {
				name = fmt.Sprintf("%s %d", es.Name, i+1)
			}
			s := NewShip(name, design, es.IFF)
			s.Region = region
			s.Element = elem
			s.AILevel = es.Skill
			s.Cam = CameraFromHeading(heading)
			// echelon right behind the lead
			offset := Vec3{X: float64(i) * spacing, Z: -float64(i) * spacing}.RotateY(heading)
			s.Loc = es.Location.Add(offset)
			s.Vel = s.Cam.Forward.Scale(es.Speed)
			if es.Phase != "" {
				s.Phase = parsePhase(es.Phase)
			}
			w.AddShip(s)
			links = append(links, link{ship: s, spec: es})
		}
	}

	for _, l := range links {
		if l.spec.Controller != "" {
			c := w.FindShip(l.spec.Controller)
			if c == nil {
				return nil, fmt.Errorf("element %q: unknown controller %q", l.spec.Name, l.spec.Controller)
			}
			l.ship.Controller = c.ID
		}
		if l.spec.Ward != "" {
			ward := w.FindShip(l.spec.Ward)
			if ward == nil {
				return nil, fmt.Errorf("element %q: unknown ward %q", l.spec.Name, l.spec.Ward)
			}
			l.ship.Ward = ward.ID
		}
		if l.spec.Farcast != "" {
			dest := w.FindShip(l.spec.Farcast)
			if dest == nil || l.ship.Farcaster == nil {
				return nil, fmt.Errorf("element %q: cannot pair farcaster with %q", l.spec.Name, l.spec.Farcast)
			}
			l.ship.Farcaster.Dest = dest.ID
		}
	}

	w.IndexContacts()
	return w, nil
}

// Package scene loads YAML scene files and builds populated physics worlds
// from them.
package scene

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scenes/*.yaml
var builtin embed.FS

var (
	ErrUnknownScene  = errors.New("unknown scene")
	ErrInvalidShape  = errors.New("body needs a positive size or radius")
	ErrDuplicateName = errors.New("duplicate name")
	ErrUnknownTarget = errors.New("unknown group or body")
)

// XY is a pair of floats written as {x: .., y: ..}.
type XY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// World overrides the world configuration. Zero values keep the defaults.
type World struct {
	Gravity     XY      `yaml:"gravity"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	OverlapBias float64 `yaml:"overlapBias"`
	FPS         float64 `yaml:"fps"`
	ForceX      bool    `yaml:"forceX"`
	UseTree     *bool   `yaml:"useTree"`
}

// Body describes a dynamic body. A positive Radius makes it a circle whose
// bounding box starts at (X, Y).
type Body struct {
	Name               string  `yaml:"name"`
	Group              string  `yaml:"group"`
	X                  float64 `yaml:"x"`
	Y                  float64 `yaml:"y"`
	Width              float64 `yaml:"width"`
	Height             float64 `yaml:"height"`
	Radius             float64 `yaml:"radius"`
	Velocity           XY      `yaml:"velocity"`
	Bounce             XY      `yaml:"bounce"`
	Drag               XY      `yaml:"drag"`
	Damping            bool    `yaml:"damping"`
	Mass               float64 `yaml:"mass"`
	MaxSpeed           float64 `yaml:"maxSpeed"`
	Immovable          bool    `yaml:"immovable"`
	Pushable           *bool   `yaml:"pushable"`
	AllowGravity       *bool   `yaml:"allowGravity"`
	CollideWorldBounds bool    `yaml:"collideWorldBounds"`
}

// Static describes a static body. OneWay platforms only collide on their top face.
type Static struct {
	Name   string  `yaml:"name"`
	Group  string  `yaml:"group"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
	OneWay bool    `yaml:"oneWay"`
}

// Collider pairs two groups or named bodies.
type Collider struct {
	Name    string `yaml:"name"`
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	Overlap bool   `yaml:"overlap"`
}

// Spawn configures the balls the host adds on request. They join Group,
// which colliders may reference before any ball exists.
type Spawn struct {
	Group  string  `yaml:"group"`
	Bounce float64 `yaml:"bounce"`
}

// Scene is a parsed scene file.
type Scene struct {
	Name      string     `yaml:"name"`
	World     World      `yaml:"world"`
	Player    string     `yaml:"player"`
	Spawn     Spawn      `yaml:"spawn"`
	Bodies    []Body     `yaml:"bodies"`
	Statics   []Static   `yaml:"statics"`
	Colliders []Collider `yaml:"colliders"`
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scene file at path. Scenes without a name are
// named after the file.
func Load(p string) (*Scene, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	return s, nil
}

// Builtin returns one of the scenes embedded in the binary.
func Builtin(name string) (*Scene, error) {
	data, err := builtin.ReadFile("scenes/" + name + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// Open resolves ref as a builtin scene name first and as a file path otherwise.
func Open(ref string) (*Scene, error) {
	s, err := Builtin(ref)
	if errors.Is(err, ErrUnknownScene) {
		return Load(ref)
	}
	return s, err
}

// Names lists the builtin scenes in alphabetical order.
func Names() []string {
	entries, _ := builtin.ReadDir("scenes")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Validate checks shapes, name uniqueness and collider references.
func (s *Scene) Validate() error {
	names := make(map[string]struct{})
	groups := make(map[string]struct{})
	claim := func(kind string, i int, name, group string) error {
		if group != "" {
			groups[group] = struct{}{}
		}
		if name == "" {
			return nil
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("%s %d: %w %q", kind, i, ErrDuplicateName, name)
		}
		names[name] = struct{}{}
		return nil
	}

	for i, b := range s.Bodies {
		if b.Radius <= 0 && (b.Width <= 0 || b.Height <= 0) {
			return fmt.Errorf("body %d %q: %w", i, b.Name, ErrInvalidShape)
		}
		if err := claim("body", i, b.Name, b.Group); err != nil {
			return err
		}
	}
	for i, st := range s.Statics {
		if st.Radius <= 0 && (st.Width <= 0 || st.Height <= 0) {
			return fmt.Errorf("static %d %q: %w", i, st.Name, ErrInvalidShape)
		}
		if err := claim("static", i, st.Name, st.Group); err != nil {
			return err
		}
	}
	if s.Spawn.Group != "" {
		groups[s.Spawn.Group] = struct{}{}
	}

	known := func(ref string) bool {
		_, isName := names[ref]
		_, isGroup := groups[ref]
		return isName || isGroup
	}
	for i, c := range s.Colliders {
		for _, ref := range []string{c.A, c.B} {
			if !known(ref) {
				return fmt.Errorf("collider %d %q: %w %q", i, c.Name, ErrUnknownTarget, ref)
			}
		}
	}
	if s.Player != "" {
		if _, ok := names[s.Player]; !ok {
			return fmt.Errorf("player: %w %q", ErrUnknownTarget, s.Player)
		}
	}
	return nil
}

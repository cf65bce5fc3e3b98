package passive

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/stats"
)

//go:embed racial.yaml
var racialCatalog []byte

// Catalog is the YAML document describing passives declaratively.
type Catalog struct {
	Passives []Entry `yaml:"passives"`
}

// Entry is one passive in a catalog.
type Entry struct {
	Name      string          `yaml:"name"`
	Label     string          `yaml:"label"`
	Modifiers []ModifierEntry `yaml:"modifiers"`
}

// ModifierEntry turns a channel value v into v*scale + add. Scale defaults
// to 1.
type ModifierEntry struct {
	Channel string   `yaml:"channel"`
	Scale   *float64 `yaml:"scale"`
	Add     float64  `yaml:"add"`
}

func (m ModifierEntry) modifier() effect.Modifier {
	scale := 1.0
	if m.Scale != nil {
		scale = *m.Scale
	}
	add := m.Add
	if add == 0 {
		return func(_ effect.Subject, v float64) float64 { return v * scale }
	}
	return func(_ effect.Subject, v float64) float64 { return v*scale + add }
}

// Effect builds the effect an entry describes.
func (e Entry) Effect() (*effect.Effect, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("%w: passive without a name", stats.ErrInvalidArgument)
	}
	eff := effect.New(e.Name)
	if e.Label != "" {
		eff.SetLabel(e.Label)
	}
	for _, m := range e.Modifiers {
		ch, err := effect.ParseChannel(m.Channel)
		if err != nil {
			return nil, fmt.Errorf("passive %s: %w", e.Name, err)
		}
		if eff.Registered(ch) {
			return nil, fmt.Errorf("%w: passive %s modifies %s twice", stats.ErrInvalidArgument, e.Name, ch)
		}
		if err := eff.Mod(ch, m.modifier()); err != nil {
			return nil, err
		}
	}
	return eff, nil
}

// DecodeCatalog parses a catalog, rejecting unknown fields.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing passive catalog: %w", err)
	}
	return &c, nil
}

// Load registers every passive of c and returns how many were added.
func (r *Registry) Load(c *Catalog) (int, error) {
	effects := make([]*effect.Effect, 0, len(c.Passives))
	for _, e := range c.Passives {
		eff, err := e.Effect()
		if err != nil {
			return 0, err
		}
		effects = append(effects, eff)
	}
	n := 0
	for _, eff := range effects {
		if r.Add(eff) {
			n++
		}
	}
	return n, nil
}

// LoadFile registers the passives of the catalog at path.
func (r *Registry) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading passive catalog %s: %w", path, err)
	}
	defer f.Close()
	c, err := DecodeCatalog(f)
	if err != nil {
		return 0, err
	}
	return r.Load(c)
}

// LoadRacial registers the built-in racial passives.
func (r *Registry) LoadRacial() (int, error) {
	c, err := DecodeCatalog(bytes.NewReader(racialCatalog))
	if err != nil {
		return 0, err
	}
	return r.Load(c)
}

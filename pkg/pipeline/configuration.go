package pipeline

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// UnitEntry is an included unit in a built Configuration.
type UnitEntry struct {
	Name          string     `json:"name" yaml:"name"`
	Configuration Parameters `json:"configuration" yaml:"configuration"`
}

func (e UnitEntry) clone() UnitEntry {
	return UnitEntry{Name: e.Name, Configuration: e.Configuration.Clone()}
}

// Configuration is a built pipeline: for every stage, the included units in
// inclusion order. It is immutable; accessors return copies.
type Configuration struct {
	stages [numStages][]UnitEntry
}

// NewConfiguration builds a Configuration from per-stage entries.
func NewConfiguration(boots, sieves, steps, strides, wraps []UnitEntry) *Configuration {
	cfg := &Configuration{}
	for s, entries := range [numStages][]UnitEntry{boots, sieves, steps, strides, wraps} {
		cfg.stages[s] = cloneEntries(entries)
	}
	return cfg
}

// Units returns the entries of stage s.
func (c *Configuration) Units(s Stage) []UnitEntry {
	if !s.Valid() {
		return nil
	}
	return cloneEntries(c.stages[s])
}

func (c *Configuration) Boots() []UnitEntry   { return c.Units(StageBoot) }
func (c *Configuration) Sieves() []UnitEntry  { return c.Units(StageSieve) }
func (c *Configuration) Steps() []UnitEntry   { return c.Units(StageStep) }
func (c *Configuration) Strides() []UnitEntry { return c.Units(StageStride) }
func (c *Configuration) Wraps() []UnitEntry   { return c.Units(StageWrap) }

// Len returns the total number of units.
func (c *Configuration) Len() int {
	n := 0
	for _, entries := range c.stages {
		n += len(entries)
	}
	return n
}

// Names returns unit names in stage order, then inclusion order.
func (c *Configuration) Names() []string {
	names := make([]string, 0, c.Len())
	for _, entries := range c.stages {
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}
	return names
}

// ToMap returns the configuration as a mapping with exactly the keys boots,
// sieves, steps, strides and wraps, each holding a list of
// {"name": ..., "configuration": ...} mappings.
func (c *Configuration) ToMap() map[string]any {
	m := make(map[string]any, numStages)
	for _, s := range Stages {
		entries := make([]map[string]any, len(c.stages[s]))
		for i, e := range c.stages[s] {
			entries[i] = map[string]any{
				"name":          e.Name,
				"configuration": map[string]any(e.Configuration.Clone()),
			}
		}
		m[s.Key()] = entries
	}
	return m
}

type document struct {
	Boots   []UnitEntry `json:"boots" yaml:"boots"`
	Sieves  []UnitEntry `json:"sieves" yaml:"sieves"`
	Steps   []UnitEntry `json:"steps" yaml:"steps"`
	Strides []UnitEntry `json:"strides" yaml:"strides"`
	Wraps   []UnitEntry `json:"wraps" yaml:"wraps"`
}

func (c *Configuration) document() document {
	return document{
		Boots:   cloneEntries(c.stages[StageBoot]),
		Sieves:  cloneEntries(c.stages[StageSieve]),
		Steps:   cloneEntries(c.stages[StageStep]),
		Strides: cloneEntries(c.stages[StageStride]),
		Wraps:   cloneEntries(c.stages[StageWrap]),
	}
}

func (c *Configuration) setDocument(d document) {
	for s, entries := range [numStages][]UnitEntry{d.Boots, d.Sieves, d.Steps, d.Strides, d.Wraps} {
		c.stages[s] = cloneEntries(entries)
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.document())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	c.setDocument(d)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c *Configuration) MarshalYAML() (any, error) {
	return c.document(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	var d document
	if err := value.Decode(&d); err != nil {
		return err
	}
	c.setDocument(d)
	return nil
}

func cloneEntries(entries []UnitEntry) []UnitEntry {
	out := make([]UnitEntry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

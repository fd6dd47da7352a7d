// Package catalog holds the calibrator source list used to pick reference
// beams. It is advisory tooling around the observation core: the core never
// depends on it.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// EnvCalibFile overrides the calibrator catalog path when set.
const EnvCalibFile = "STATIONCTL_CALIB_FILE"

// Source is one calibrator. RA and Dec are degrees.
type Source struct {
	Name   string
	RADeg  float64
	DecDeg float64
	Epoch  string
}

// Catalog is an in-memory, thread-safe store of calibrator sources.
type Catalog struct {
	mu      sync.RWMutex
	sources map[string]*Source
	order   []string
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{sources: make(map[string]*Source)}
}

// Add adds a new source. It returns an error if the name already exists.
func (c *Catalog) Add(s *Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.sources[s.Name]; exists {
		return fmt.Errorf("calibrator with name %q already exists", s.Name)
	}
	c.sources[s.Name] = s
	c.order = append(c.order, s.Name)
	return nil
}

// Get returns the source with the given name, or nil if not found.
func (c *Catalog) Get(name string) *Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sources[name]
}

// List returns a snapshot slice of all sources in insertion order.
func (c *Catalog) List() []*Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Source, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.sources[name])
	}
	return out
}

// Len returns the number of sources.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// sourceJSON is the on-disk shape: a map from calibrator name to
// sexagesimal coordinates, e.g. {"3c48": {"ra": "01:37:41.3",
// "dec": "+33:09:35", "epoch": "J2000.0"}}.
type sourceJSON struct {
	RA    string `json:"ra"`
	Dec   string `json:"dec"`
	Epoch string `json:"epoch"`
}

// Load reads a calibrator catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	var payload map[string]sourceJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode failed: %w", err)
	}

	c := New()
	// JSON maps iterate in random order; insert sorted by name so List()
	// stays deterministic.
	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		js := payload[name]
		ra, err := ParseRA(js.RA)
		if err != nil {
			return nil, fmt.Errorf("catalog: source %q: %w", name, err)
		}
		dec, err := ParseDec(js.Dec)
		if err != nil {
			return nil, fmt.Errorf("catalog: source %q: %w", name, err)
		}
		if err := c.Add(&Source{Name: name, RADeg: ra, DecDeg: dec, Epoch: js.Epoch}); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile reads a calibrator catalog from disk. An empty path falls back
// to the STATIONCTL_CALIB_FILE environment variable.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		path = os.Getenv(EnvCalibFile)
	}
	if path == "" {
		return nil, fmt.Errorf("catalog: no path given and %s is unset", EnvCalibFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ParseRA converts a sexagesimal right ascension "HH:MM:SS.S" to degrees.
func ParseRA(s string) (float64, error) {
	hours, err := parseSexagesimal(s)
	if err != nil {
		return 0, fmt.Errorf("ra %q: %w", s, err)
	}
	return hours * 15, nil
}

// ParseDec converts a sexagesimal declination "+DD:MM:SS" to degrees.
func ParseDec(s string) (float64, error) {
	deg, err := parseSexagesimal(s)
	if err != nil {
		return 0, fmt.Errorf("dec %q: %w", s, err)
	}
	return deg, nil
}

func parseSexagesimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	sign := 1.0
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1.0
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("want three colon-separated fields, got %d", len(parts))
	}

	var value, scale float64 = 0, 1
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("bad field %q", part)
		}
		if v < 0 {
			return 0, fmt.Errorf("sign must lead the whole coordinate, got %q", part)
		}
		value += v / scale
		scale *= 60
	}
	return sign * value, nil
}

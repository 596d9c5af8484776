package plot

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// seriesFile is the on-disk shape of a data file: a top-level series list
// where each point is a [x, y] pair.
type seriesFile struct {
	Series []seriesSpec `yaml:"series"`
}

type seriesSpec struct {
	Name   string      `yaml:"name"`
	Color  string      `yaml:"color"`
	Points [][]float64 `yaml:"points"`
}

// LoadSeries reads a YAML data file and returns its series. Series without
// a color cycle through defaultPalette in file order.
func LoadSeries(path string) ([]Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	var file seriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	if len(file.Series) == 0 {
		return nil, fmt.Errorf("data file %s contains no series", path)
	}

	out := make([]Series, 0, len(file.Series))
	for i, spec := range file.Series {
		if spec.Name == "" {
			return nil, fmt.Errorf("data file %s: series %d has no name", path, i)
		}
		s := Series{Name: spec.Name, Color: spec.Color}
		if s.Color == "" {
			s.Color = defaultPalette[i%len(defaultPalette)]
		}
		for j, pt := range spec.Points {
			if len(pt) != 2 {
				return nil, fmt.Errorf("data file %s: series %q point %d is not an [x, y] pair", path, spec.Name, j)
			}
			s.Points = append(s.Points, Point{X: pt[0], Y: pt[1]})
		}
		out = append(out, s)
	}
	return out, nil
}

var defaultPalette = []string{"39", "213", "214", "84", "203", "147"}

// DemoSeries returns the built-in dataset shown when no data file is
// configured.
func DemoSeries() []Series {
	sine := Series{Name: "sine", Color: defaultPalette[0]}
	ramp := Series{Name: "ramp", Color: defaultPalette[1]}
	for i := 0; i <= 40; i++ {
		x := float64(i) * 0.25
		sine.Points = append(sine.Points, Point{X: x, Y: 5 + 4*math.Sin(x)})
		ramp.Points = append(ramp.Points, Point{X: x, Y: x * 0.6})
	}
	return []Series{sine, ramp}
}

package cli

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// TripFile is the YAML document accepted by `schengen trips import`:
//
//	trips:
//	  - name: Alps
//	    icon: "🏔"
//	    start: 2024-01-01
//	    end: 2024-01-10
type TripFile struct {
	Trips []TripEntry `yaml:"trips"`
}

// TripEntry is one trip in a TripFile. Line is the entry's position in the
// source, used in error messages.
type TripEntry struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Line  int    `yaml:"-"`
}

var tripEntryFields = map[string]bool{"name": true, "icon": true, "start": true, "end": true}

// UnmarshalYAML decodes the entry and records its line. Unknown keys are
// rejected here because node.Decode does not inherit KnownFields.
func (e *TripEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if k := node.Content[i]; !tripEntryFields[k.Value] {
				return fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
			}
		}
	}
	type plain TripEntry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = TripEntry(p)
	e.Line = node.Line
	return nil
}

// ParseTripFile reads a TripFile and converts its entries to trips in file
// order. Dates are required and must be YYYY-MM-DD; reversed ranges are left
// for the trip service to reject.
func ParseTripFile(r io.Reader) ([]domain.Trip, error) {
	var f TripFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Trip{}, nil
		}
		return nil, fmt.Errorf("cli.ParseTripFile: %w", err)
	}

	trips := make([]domain.Trip, 0, len(f.Trips))
	for _, e := range f.Trips {
		if e.Start == "" || e.End == "" {
			return nil, fmt.Errorf("cli.ParseTripFile: line %d: start and end are required", e.Line)
		}
		start, err := domain.ParseDate(e.Start)
		if err != nil {
			return nil, fmt.Errorf("cli.ParseTripFile: line %d: %w", e.Line, err)
		}
		end, err := domain.ParseDate(e.End)
		if err != nil {
			return nil, fmt.Errorf("cli.ParseTripFile: line %d: %w", e.Line, err)
		}
		trips = append(trips, domain.Trip{Name: e.Name, Icon: e.Icon, StartDate: start, EndDate: end})
	}
	return trips, nil
}

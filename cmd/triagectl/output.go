package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/triagem/triage-console/internal/format"
)

// render writes data as json or yaml, or calls table with the selected style.
func render(w io.Writer, output string, data any, table func(format.Style) string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		generic, err := toGeneric(data)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		style, err := format.ParseStyle(output)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, table(style))
		return err
	}
}

// toGeneric round-trips through JSON so yaml keys match the json tags.
func toGeneric(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

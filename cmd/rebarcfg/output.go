package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/deps"
	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// kvView is one ordered option or configuration pair in structured output.
type kvView struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// depView is the structured form of a dependency descriptor.
type depView struct {
	Name        string   `json:"name" yaml:"name"`
	Requirement string   `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Options     []kvView `json:"options,omitempty" yaml:"options,omitempty"`
}

func depViews(ds []*deps.Descriptor) []depView {
	views := make([]depView, len(ds))
	for i, d := range ds {
		v := depView{Name: d.Name}
		if d.Requirement != nil {
			v.Requirement = d.Requirement.Pattern
		}
		for _, opt := range d.Options {
			v.Options = append(v.Options, kvView{Key: opt.Key, Value: terms.Stringify(opt.Value)})
		}
		views[i] = v
	}
	return views
}

// renderDeps writes translated dependencies in the requested format.
func renderDeps(w io.Writer, format string, ds []*deps.Descriptor) error {
	switch format {
	case "", "text":
		for _, d := range ds {
			line := d.Name
			if d.Requirement != nil {
				line += " " + d.Requirement.Pattern
			}
			if len(d.Options) > 0 {
				var opts []string
				for _, opt := range d.Options {
					opts = append(opts, fmt.Sprintf("%s: %s", opt.Key, terms.Stringify(opt.Value)))
				}
				line += " (" + strings.Join(opts, ", ") + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(depViews(ds))
	case "yaml":
		return yaml.NewEncoder(w).Encode(depViews(ds))
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
	}
}

// renderConfig writes a configuration in the requested format. Text output
// is rebar.config source.
func renderConfig(w io.Writer, format string, cfg config.Raw) error {
	switch format {
	case "", "text":
		_, err := io.WriteString(w, cfg.Serialize())
		return err
	case "json", "yaml":
		views := make([]kvView, len(cfg))
		for i, p := range cfg {
			views[i] = kvView{Key: p.Key, Value: terms.Format(p.Value)}
		}
		if format == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		return yaml.NewEncoder(w).Encode(views)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
	}
}

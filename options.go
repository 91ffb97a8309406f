package avaserial

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PathList is a list of property paths. It decodes from YAML and JSON as
// either a single string or a sequence of strings, so configuration-driven
// callers can use whichever form is natural.
type PathList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*p = PathList{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = PathList(list)
		return nil
	default:
		return fmt.Errorf("path list must be a string or a sequence of strings, got %v", value.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PathList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("path list must be a string or a sequence of strings: %w", err)
	}
	*p = PathList(list)
	return nil
}

// Options configures a Serialize call. Only and Except hold property paths
// in dot notation. Meta carries arbitrary caller values through to the
// serializer verbatim; this package never reads it.
type Options struct {
	Only   PathList               `json:"only,omitempty" yaml:"only,omitempty"`
	Except PathList               `json:"except,omitempty" yaml:"except,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// criteria is the resolved per-call filter specification, merged from
// call-site options and request query parameters.
type criteria struct {
	only        []string
	onlyEnabled bool
	except      []string
}

// mergeCriteria resolves the effective filter criteria for one call.
//
// The except lists merge by union. The only lists merge asymmetrically:
// when both the options and the query supply paths the result is their
// intersection, and allow filtering stays enabled even if the intersection
// is empty; otherwise whichever side is non-empty wins.
func mergeCriteria(req *Request, opts *Options) criteria {
	var optOnly, optExcept []string
	if opts != nil {
		optOnly = compact(opts.Only)
		optExcept = compact(opts.Except)
	}
	qryOnly := compact(req.Query["only"])
	qryExcept := compact(req.Query["except"])

	c := criteria{except: union(optExcept, qryExcept)}

	switch {
	case len(optOnly) > 0 && len(qryOnly) > 0:
		c.only = intersect(optOnly, qryOnly)
		c.onlyEnabled = true
	case len(qryOnly) > 0:
		c.only = qryOnly
		c.onlyEnabled = true
	case len(optOnly) > 0:
		c.only = optOnly
		c.onlyEnabled = true
	}

	return c
}

// compact returns a copy of paths with empty entries dropped.
func compact(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path != "" {
			result = append(result, path)
		}
	}
	return result
}

// union merges two path lists preserving first-seen order and dropping
// duplicates.
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	result := make([]string, 0, len(a)+len(b))
	for _, path := range a {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}
	for _, path := range b {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}
	return result
}

// intersect returns the paths of a that also appear in b, preserving the
// order of a and dropping duplicates.
func intersect(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, path := range b {
		inB[path] = true
	}
	seen := make(map[string]bool, len(a))
	result := make([]string, 0, len(a))
	for _, path := range a {
		if inB[path] && !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}
	return result
}

package model

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultInstanceType is the sizing class given to newly created documents.
const DefaultInstanceType = "t4g.nano"

// Document is a pod spec document as stored in the repository: an ordered
// key/value tree. Only the fields the service owns are reachable through
// typed accessors; everything else is carried through merges untouched so
// that documents written by newer tooling survive a round-trip.
type Document struct {
	root *yaml.Node // mapping node at the document root
}

// ParseDocument parses raw document bytes. The returned error carries the
// parser's own diagnostic; callers classify it as a malformed-document
// failure, distinct from fetch failures.
func ParseDocument(data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root must be a mapping")
	}

	return &Document{root: root}, nil
}

// NewDocument constructs the minimal document for a brand-new pod.
// Field order is fixed so that repeated creations are byte-identical.
func NewDocument(req DeployRequest) *Document {
	type compute struct {
		InstanceName string `yaml:"instance_name"`
		InstanceType string `yaml:"instance_type"`
	}
	type waf struct {
		Enabled bool `yaml:"enabled"`
	}
	type security struct {
		WAF waf `yaml:"waf"`
	}
	type metadata struct {
		Customer    string `yaml:"customer"`
		Environment string `yaml:"environment"`
		Version     string `yaml:"version"`
	}
	type specFile struct {
		Metadata metadata `yaml:"metadata"`
		Spec     struct {
			Compute  compute  `yaml:"compute"`
			Security security `yaml:"security"`
		} `yaml:"spec"`
	}

	f := specFile{Metadata: metadata{
		Customer:    req.Customer,
		Environment: req.Environment,
		Version:     "1.0",
	}}
	f.Spec.Compute = compute{InstanceName: req.InstanceName, InstanceType: DefaultInstanceType}
	f.Spec.Security = security{WAF: waf{Enabled: req.WAFEnabled}}

	data, err := yaml.Marshal(f)
	if err != nil {
		// Marshalling a fixed struct cannot fail.
		panic(fmt.Sprintf("failed to build new document: %v", err))
	}

	doc, err := ParseDocument(data)
	if err != nil {
		panic(fmt.Sprintf("failed to reparse new document: %v", err))
	}

	return doc
}

// Merge applies the request's mutable fields onto the document. All other
// fields, known or unknown, keep their values and their positions.
func (d *Document) Merge(req DeployRequest) {
	setScalar(ensureMapping(d.root, "spec", "compute"), "instance_name", strScalar(req.InstanceName))
	setScalar(ensureMapping(d.root, "spec", "security", "waf"), "enabled", boolScalar(req.WAFEnabled))
}

// Encode serializes the document deterministically: stable node order,
// two-space indent, trailing newline.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	return buf.Bytes(), nil
}

// PodSpec extracts the typed view for the given identity.
func (d *Document) PodSpec(id PodIdentity) PodSpec {
	compute := lookupMapping(d.root, "spec", "compute")
	wafNode := lookupMapping(d.root, "spec", "security", "waf")

	return PodSpec{
		Customer:     id.Customer,
		Environment:  id.Environment,
		InstanceName: scalarString(lookup(compute, "instance_name")),
		InstanceType: scalarString(lookup(compute, "instance_type")),
		WAFEnabled:   scalarBool(lookup(wafNode, "enabled")),
	}
}

// Raw returns the document as a generic tree for JSON rendering.
func (d *Document) Raw() (map[string]any, error) {
	var out map[string]any
	if err := d.root.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return out, nil
}

// lookup returns the value node for key inside a mapping node, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

// lookupMapping walks nested mappings without creating anything.
func lookupMapping(m *yaml.Node, keys ...string) *yaml.Node {
	for _, key := range keys {
		m = lookup(m, key)
		if m == nil || m.Kind != yaml.MappingNode {
			return nil
		}
	}

	return m
}

// ensureMapping walks nested mappings, creating empty ones along the way.
func ensureMapping(m *yaml.Node, keys ...string) *yaml.Node {
	for _, key := range keys {
		next := lookup(m, key)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			m.Content = append(m.Content, strScalar(key), next)
		} else if next.Kind != yaml.MappingNode {
			// A scalar in the way is replaced; the service only ever does this
			// on paths it owns.
			*next = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		m = next
	}

	return m
}

// setScalar replaces the value for key in a mapping, appending the pair when absent.
func setScalar(m *yaml.Node, key string, value *yaml.Node) {
	if existing := lookup(m, key); existing != nil {
		*existing = *value
		return
	}
	m.Content = append(m.Content, strScalar(key), value)
}

func strScalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolScalar(v bool) *yaml.Node {
	value := "false"
	if v {
		value = "true"
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}
}

func scalarString(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}

	return n.Value
}

func scalarBool(n *yaml.Node) bool {
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}

	return n.Value == "true"
}

package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/rules"
)

// document is the on-disk schema. JSON documents are accepted since they parse as YAML.
type document struct {
	Enabled             *bool                  `yaml:"enabled"`
	FallbackTopic       string                 `yaml:"fallbackTopic"`
	SuppressOnViolation bool                   `yaml:"suppressOnViolation"`
	Profiles            map[string]profileSpec `yaml:"profiles"`
}

type profileSpec struct {
	RequiredFields  []string `yaml:"requiredFields"`
	ForbiddenFields []string `yaml:"forbiddenFields"`
	Rules           string   `yaml:"rules"`
}

// Load reads and parses the profile document at path.
func Load(ctx context.Context, path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Reason: "read", Err: err}
	}
	return Parse(ctx, path, data)
}

// Parse builds a Store from a YAML or JSON document. source names the document in errors.
// Unknown keys, duplicate topics, empty names, required/forbidden overlap and rules that fail
// to compile are all rejected with *ConfigError.
func Parse(ctx context.Context, source string, data []byte) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ConfigError{Source: source, Reason: "empty document"}
	}
	if err := checkDuplicateTopics(source, data); err != nil {
		return nil, err
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ConfigError{Source: source, Reason: "decode", Err: err}
	}

	s := &Store{
		profiles: make(map[string]*Profile, len(doc.Profiles)),
		globals: Globals{
			Enabled:             doc.Enabled == nil || *doc.Enabled,
			FallbackTopic:       doc.FallbackTopic,
			SuppressOnViolation: doc.SuppressOnViolation,
		},
	}
	topics := make([]string, 0, len(doc.Profiles))
	for topic := range doc.Profiles {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	for _, topic := range topics {
		p, err := buildProfile(ctx, source, topic, doc.Profiles[topic])
		if err != nil {
			return nil, err
		}
		s.profiles[topic] = p
	}
	return s, nil
}

func buildProfile(ctx context.Context, source, topic string, spec profileSpec) (*Profile, error) {
	if topic == "" {
		return nil, &ConfigError{Source: source, Reason: "topic", Err: ErrEmptyName}
	}
	if topic == domain.UnclassifiedTopic {
		return nil, &ConfigError{Source: source, Topic: topic, Err: ErrReservedTopic}
	}
	required, err := uniqueNames(spec.RequiredFields)
	if err != nil {
		return nil, &ConfigError{Source: source, Topic: topic, Reason: "requiredFields", Err: err}
	}
	forbidden, err := uniqueNames(spec.ForbiddenFields)
	if err != nil {
		return nil, &ConfigError{Source: source, Topic: topic, Reason: "forbiddenFields", Err: err}
	}
	p := &Profile{
		Topic:     topic,
		Required:  required,
		Forbidden: forbidden,
		forbidden: make(map[string]struct{}, len(forbidden)),
	}
	for _, f := range forbidden {
		p.forbidden[f] = struct{}{}
	}
	for _, r := range required {
		if p.IsForbidden(r) {
			return nil, &ConfigError{Source: source, Topic: topic, Reason: fmt.Sprintf("field %q", r), Err: ErrOverlap}
		}
	}
	if spec.Rules != "" {
		rule, err := rules.Compile(ctx, topic, spec.Rules)
		if err != nil {
			return nil, &ConfigError{Source: source, Topic: topic, Reason: "rules", Err: err}
		}
		p.Rule = rule
	}
	return p, nil
}

// uniqueNames drops repeated names keeping first declaration order; empty names are an error.
func uniqueNames(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, n := range in {
		if n == "" {
			return nil, ErrEmptyName
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// checkDuplicateTopics walks the raw node tree so a repeated topic key is reported as
// ErrDuplicateTopic rather than a generic decode error.
func checkDuplicateTopics(source string, data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return &ConfigError{Source: source, Reason: "parse", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return &ConfigError{Source: source, Reason: "parse", Err: errors.New("no document")}
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return &ConfigError{Source: source, Reason: "parse", Err: errors.New("document must be a mapping")}
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "profiles" {
			continue
		}
		profiles := top.Content[i+1]
		if profiles.Kind != yaml.MappingNode {
			return nil
		}
		seen := make(map[string]int, len(profiles.Content)/2)
		for j := 0; j+1 < len(profiles.Content); j += 2 {
			k := profiles.Content[j]
			if line, ok := seen[k.Value]; ok {
				return &ConfigError{
					Source: source,
					Topic:  k.Value,
					Reason: fmt.Sprintf("line %d, first declared at line %d", k.Line, line),
					Err:    ErrDuplicateTopic,
				}
			}
			seen[k.Value] = k.Line
		}
	}
	return nil
}

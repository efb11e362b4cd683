// Package template loads environment template documents, expanding the
// !include and !os_env directives at parse time.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openlab-cloud/labctl/pkg/errdefs"
)

const (
	IncludeTag = "!include"
	OSEnvTag   = "!os_env"
)

type loader struct {
	// chain holds the files on the active resolution path, for include
	// cycle detection.
	chain []string
}

// Load resolves the environment template at path into a document node tree.
// Included files are resolved relative to the directory of the including
// file, and mapping key order is preserved as declared in the source.
func Load(path string) (*yaml.Node, error) {
	return (&loader{}).load(path)
}

func (l *loader) load(path string) (*yaml.Node, error) {
	path = filepath.Clean(path)

	if slices.Contains(l.chain, path) {
		return nil, fmt.Errorf("%w: include cycle detected at %s (resolution chain: %s)",
			errdefs.ErrConfig, path, strings.Join(l.chain, " -> "))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot load environment template %s: file does not exist: %w",
				path, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read environment template %s: %w", path, err)
	}

	document := &yaml.Node{}
	if err := yaml.Unmarshal(content, document); err != nil {
		return nil, fmt.Errorf("failed to parse environment template %s: %w", path, err)
	}

	l.chain = append(l.chain, path)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	if err := l.resolve(document, path); err != nil {
		return nil, err
	}

	return document, nil
}

func (l *loader) resolve(node *yaml.Node, file string) error {
	switch node.Tag {
	case IncludeTag:
		return l.include(node, file)
	case OSEnvTag:
		return l.env(node, file)
	}

	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode, yaml.MappingNode:
		for _, child := range node.Content {
			if err := l.resolve(child, file); err != nil {
				return err
			}
		}
	}

	return nil
}

// include substitutes the node with the document loaded from the directive's
// path, resolved against the directory of the including file.
func (l *loader) include(node *yaml.Node, file string) error {
	target := filepath.Join(filepath.Dir(file), node.Value)

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cannot load environment template %s: include file %s does not exist: %w",
				file, target, errdefs.ErrNotFound)
		}
		return fmt.Errorf("failed to stat include file %s: %w", target, err)
	}

	included, err := l.load(target)
	if err != nil {
		return err
	}

	*node = *body(included)

	return nil
}

// env substitutes the node with the parsed value of an environment variable.
// The directive value is "NAME" or "NAME,default"; the looked-up string is
// parsed as a nested document fragment, so values can be structured.
func (l *loader) env(node *yaml.Node, file string) error {
	if strings.TrimSpace(node.Value) == "" {
		return fmt.Errorf("%w: environment variable name is required after %s in %s",
			errdefs.ErrConfig, OSEnvTag, file)
	}

	name, fallback, hasFallback := strings.Cut(node.Value, ",")
	name = strings.TrimSpace(name)

	value, ok := os.LookupEnv(name)
	if !ok {
		if !hasFallback {
			return fmt.Errorf("%w: environment variable %s is not set and no default is provided in %s",
				errdefs.ErrConfig, name, file)
		}
		value = strings.TrimSpace(fallback)
	}

	fragment := &yaml.Node{}
	if err := yaml.Unmarshal([]byte(value), fragment); err != nil {
		return fmt.Errorf("%w: failed to parse value of environment variable %s in %s: %v",
			errdefs.ErrConfig, name, file, err)
	}

	*node = *body(fragment)

	// the substituted fragment may itself carry directives
	return l.resolve(node, file)
}

func body(document *yaml.Node) *yaml.Node {
	if document.Kind == yaml.DocumentNode && len(document.Content) > 0 {
		return document.Content[0]
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// Package parser collects and loads environment documents from a directory
// of templates.
package parser

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/internal/template"
)

const (
	YAMLExtension      = ".yaml"
	MaxConcurrentLoads = 4
)

// Parse loads every template under path into an environment document,
// in directory-walk order.
func Parse(path string) ([]*models.Config, error) {
	paths := make([]string, 0)

	err := filepath.WalkDir(path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || filepath.Ext(path) != YAMLExtension {
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk through directory: %w", err)
	}

	environments := make([]*models.Config, len(paths))

	eg := errgroup.Group{}
	eg.SetLimit(MaxConcurrentLoads)

	for i, path := range paths {
		i, path := i, path

		eg.Go(func() error {
			environment, err := ParseFile(path)
			if err != nil {
				return err
			}

			environments[i] = environment

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return environments, nil
}

// ParseFile loads one template, resolving its directives, and decodes it
// into an environment document.
func ParseFile(path string) (*models.Config, error) {
	document, err := template.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	environment := new(models.Config)
	if err := document.Decode(environment); err != nil {
		return nil, fmt.Errorf("failed to decode environment %s: %w", path, err)
	}

	return environment, nil
}

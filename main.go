package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openlab-cloud/labctl/config"
	"github.com/openlab-cloud/labctl/internal/assembler"
	"github.com/openlab-cloud/labctl/internal/parser"
	"github.com/openlab-cloud/labctl/internal/template"
	"github.com/openlab-cloud/labctl/internal/validator"
)

var (
	path       string
	configFile string
)

var root = &cobra.Command{
	Use:   "labctl",
	Short: "Utility for synthesizing virtual lab environments",
}

var render = &cobra.Command{
	Use:   "render",
	Short: "Resolve a template's directives and print the document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		document, err := template.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load template: %w", err)
		}

		return printYAML(cmd, document)
	},
}

var create = &cobra.Command{
	Use:   "create",
	Short: "Synthesize an environment document from scalar parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		environment, err := assembler.Assemble(cfg.Params())
		if err != nil {
			return fmt.Errorf("failed to assemble environment: %w", err)
		}

		if err := validator.Validate(environment); err != nil {
			return fmt.Errorf("failed to validate environment: %w", err)
		}

		return printYAML(cmd, environment)
	},
}

var validate = &cobra.Command{
	Use:   "validate",
	Short: "Validate the environment templates from directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		environments, err := parser.Parse(path)
		if err != nil {
			return fmt.Errorf("failed to parse environments: %w", err)
		}

		for _, environment := range environments {
			if err := validator.Validate(environment); err != nil {
				return fmt.Errorf("failed to validate environments: %w", err)
			}
		}

		return nil
	},
}

func printYAML(cmd *cobra.Command, value any) error {
	document, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), string(document))

	return err
}

func init() {
	render.Flags().StringVar(&path, "path", "", "Path to an environment template")
	render.MarkFlagRequired("path")

	validate.Flags().StringVar(&path, "path", "", "Path to environments directory")
	validate.MarkFlagRequired("path")

	create.Flags().StringVar(&configFile, "config", "", "Path to a config file with parameter overrides")

	root.AddCommand(render, create, validate)
}

func main() {
	root.Execute()
}

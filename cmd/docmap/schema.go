package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docmap/docmap/docmap/mapping"
	"github.com/docmap/docmap/types"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the entity schema registry",
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := openRegistry(schemasPath)
		schemas, err := reg.load()
		if err != nil {
			return err
		}
		if len(schemas) == 0 {
			fmt.Println("No schemas registered.")
			return nil
		}
		for _, d := range schemas {
			collection := d.Collection
			if collection == "" {
				collection = d.Name
			}
			fmt.Printf("%s\tcollection=%s\tfields=%d\n", d.Name, collection, len(d.Fields))
		}
		return nil
	},
}

var schemaAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Add or replace a schema from a YAML descriptor file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read descriptor: %w", err)
		}
		var d types.Descriptor
		if err := yaml.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse descriptor: %w", err)
		}
		// building the entity validates the descriptor
		if _, err := mapping.FromDescriptor(d); err != nil {
			return err
		}

		reg := openRegistry(schemasPath)
		err = reg.update(func(schemas []types.Descriptor) ([]types.Descriptor, error) {
			for i, existing := range schemas {
				if existing.Name == d.Name {
					schemas[i] = d
					return schemas, nil
				}
			}
			return append(schemas, d), nil
		})
		if err != nil {
			return err
		}
		slog.Info("schema registered", "name", d.Name, "registry", schemasPath)
		fmt.Printf("Registered schema %s\n", d.Name)
		return nil
	},
}

var schemaRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a schema from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		reg := openRegistry(schemasPath)
		found := false
		err := reg.update(func(schemas []types.Descriptor) ([]types.Descriptor, error) {
			out := schemas[:0]
			for _, d := range schemas {
				if d.Name == name {
					found = true
					continue
				}
				out = append(out, d)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("schema %q not found in %s", name, schemasPath)
		}
		fmt.Printf("Removed schema %s\n", name)
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaAddCmd)
	schemaCmd.AddCommand(schemaRemoveCmd)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/docmap"
	"github.com/docmap/docmap/docmap/mapping"
)

var (
	entityName string
	typeKey    string
)

var mapCmd = &cobra.Command{
	Use:   "map KIND [DOCUMENT]",
	Short: "Map a document into its persisted form",
	Long: `Map a query, fields (projection), sort or update document into its
persisted MongoDB form. The document is given as extended JSON, either as
an argument or on stdin; the mapped document is printed as extended JSON.

Without --entity the document is mapped without metadata: no field
renaming, no identifier coercion, no association handling.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]

		input, err := readDocumentArg(args)
		if err != nil {
			return err
		}
		var source bson.D
		if err := bson.UnmarshalExtJSON(input, false, &source); err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}

		var entity *mapping.Entity
		if entityName != "" {
			d, err := openRegistry(schemasPath).find(entityName)
			if err != nil {
				return err
			}
			entity, err = mapping.FromDescriptor(d)
			if err != nil {
				return err
			}
		}

		mapper := docmap.New(docmap.WithTypeKey(typeKey))
		var mapped bson.D
		switch kind {
		case "query":
			mapped, err = mapper.MapQuery(source, entity)
		case "fields":
			mapped, err = mapper.MapFields(source, entity)
		case "sort":
			mapped, err = mapper.MapSort(source, entity)
		case "update":
			mapped, err = mapper.MapUpdate(source, entity)
		default:
			return fmt.Errorf("unknown kind %q: want query, fields, sort or update", kind)
		}
		if err != nil {
			return err
		}
		slog.Info("document mapped", "kind", kind, "entity", entityName)

		out, err := bson.MarshalExtJSONIndent(mapped, false, false, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mapped document: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

// readDocumentArg returns the document text from the second positional
// argument, or from stdin when omitted.
func readDocumentArg(args []string) ([]byte, error) {
	if len(args) > 1 {
		return []byte(args[1]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read document from stdin: %w", err)
	}
	return data, nil
}

func init() {
	mapCmd.Flags().StringVarP(&entityName, "entity", "e", "", "Schema name to map against")
	mapCmd.Flags().StringVar(&typeKey, "type-key", docmap.DefaultTypeKey, "Type discriminator field name")
}

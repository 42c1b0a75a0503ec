package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "docmap",
	Short: "docmap CLI - map queries and updates into MongoDB wire documents",
	Long: `docmap translates query, projection, sort and update documents written
against logical property names into their persisted MongoDB form, using
entity schemas to rewrite field names and literal values.

Schemas are YAML descriptors kept in a registry file. Input and output
documents use MongoDB extended JSON.

Examples:
  # Map a query against the Person schema
  docmap map query --entity Person '{"id": "5f1f1f1f1f1f1f1f1f1f1f1f"}'

  # Map a sort specification
  docmap map sort --entity Person '{"textScore": 1}'

  # Manage the schema registry
  docmap schema add person.yaml
  docmap schema list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyConfig()
		return initLogging(viper.GetString("log-level"), viper.GetBool("verbose"))
	},
}

var (
	schemasPath string
	logLevel    string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemasPath, "schemas", "s", defaultSchemasPath(), "Schema registry file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to stdout")

	_ = viper.BindPFlag("schemas", rootCmd.PersistentFlags().Lookup("schemas"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("DOCMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(schemaCmd)
}

// applyConfig folds viper's resolved settings back into the variables the
// commands read, so environment bindings take effect alongside flags.
func applyConfig() {
	schemasPath = viper.GetString("schemas")
}

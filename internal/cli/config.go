package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/parchlabs/wordfield/pkg/wordfield/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wordfield configuration",
	Long: `Manage wordfield configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (WORDFIELD_*)
3. Config file (~/.wordfield/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective settings and the default pipeline parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("Settings:")
		for _, key := range []string{"db", "output_dir", "params", "stoplist", "dict"} {
			value := viper.GetString(key)
			if value == "" {
				value = "(unset)"
			}
			fmt.Printf("  %-12s %s\n", key, value)
		}
		fmt.Println()

		fmt.Println("Default pipeline parameters:")
		yamlData, err := yaml.Marshal(config.DefaultParams())
		if err != nil {
			return fmt.Errorf("error marshaling params: %w", err)
		}
		fmt.Println(string(yamlData))

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a configuration file at ~/.wordfield/config.yaml with the available settings documented.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.wordfield"
		configPath := configDir + "/config.yaml"

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'wordfield config show' to view it, or delete it first to recreate", configPath)
		}

		// Create directory
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		// Create config file
		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# wordfield configuration file\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (WORDFIELD_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n\n")
		printf("# Default SQLite database for import, analyze --db and runs:\n")
		printf("# db: wordfield.db\n\n")
		printf("# Default directory for analyze report artifacts:\n")
		printf("# output_dir: wordfield-out\n\n")
		printf("# Default resource files:\n")
		printf("# params: params.yaml\n")
		printf("# stoplist: stoplist.yaml\n")
		printf("# dict: dictionary.yaml\n\n")
		printf("# Pipeline parameters live in a separate YAML file; generate\n")
		printf("# a template with:\n")
		printf("#   wordfield config params > params.yaml\n")

		if err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  wordfield config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

var configParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print a default pipeline parameters file",
	Long:  `Write the default pipeline parameters as YAML to stdout, ready to save and edit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlData, err := yaml.Marshal(config.DefaultParams())
		if err != nil {
			return fmt.Errorf("error marshaling params: %w", err)
		}
		fmt.Print(string(yamlData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configParamsCmd)
}

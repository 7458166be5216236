package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arcvault/arcvault/pkg/api/v1/client"
	"github.com/arcvault/arcvault/pkg/api/v1/routes"
)

// flag names
const (
	flagOrgID         = "org"
	flagServerAddress = "server-address"
)

// environment variable names
const (
	envServerAddress = "ARCVAULT_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
)

// initClient initializes the API client
func initClient() error {
	var err error
	// Use the serverAddress determined by PersistentPreRunE
	opts := client.DefaultOptions() // Start with defaults
	opts.BaseURL = serverAddress    // Override BaseURL

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	// Set a basic default for the flag. PersistentPreRunE will handle env var override.
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the Arcvault API server (env: ARCVAULT_SERVER_ADDRESS)")

	RootCmd.PersistentFlags().StringP(flagOrgID, "o", "", "Organization ID for resources")

	RootCmd.AddCommand(GetJobsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "arcvault",
	Short: "Arcvault CLI - A command line interface for the Arcvault API",
	Long: `Arcvault CLI is a command line tool for tracking storage replication jobs through the Arcvault API.
Complete documentation is available at https://github.com/arcvault/arcvault`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Check if the server address flag was explicitly set by the user.
		if !cmd.Flags().Changed(flagServerAddress) {
			// If not set via flag, fall back to the environment variable.
			envAddr := os.Getenv(envServerAddress)
			if envAddr != "" {
				serverAddress = envAddr // Override the default value with the env var
			}
		}

		// Now serverAddress has the correct precedence: Flag > Env Var > Default
		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		// Initialization happens here, using the resolved serverAddress
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// getOrgID retrieves the organization ID from the command's persistent flags.
func getOrgID(cmd *cobra.Command) (uuid.UUID, error) {
	// cmd.Flag() searches the current command and its parents.
	flag := cmd.Flag(flagOrgID)
	if flag == nil {
		// This means the flag wasn't defined anywhere in the command hierarchy.
		return uuid.Nil, fmt.Errorf("flag '%s' is not defined", flagOrgID)
	}

	orgID := flag.Value.String()
	if orgID == "" {
		// If the flag wasn't changed, the user didn't provide it at all.
		if !flag.Changed {
			return uuid.Nil, fmt.Errorf("required flag(s) \"%s\" not set", flagOrgID)
		}
		return uuid.Nil, fmt.Errorf("org cannot be empty")
	}

	parsed, err := uuid.Parse(orgID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid org format: %w", err)
	}

	return parsed, nil
}

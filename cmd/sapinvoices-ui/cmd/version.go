package cmd

import (
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show the CLI version and, when configured, the AWS environment health",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOptionalConfig: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		output.KeyValue("CLI version", *constants.GetVersion())

		if _, err := getConfigFromContext(cmd); err != nil {
			return
		}

		components, err := initializeComponents(cmd)
		if err != nil {
			output.Errorf("%s", err.Error())
			return
		}

		report := components.Health.Check(cmd.Context())
		output.KeyValue("Region", report.Region)
		if report.AccountID != "" {
			output.KeyValue("Account", report.AccountID)
		}
		output.KeyValue("Health", output.StatusBadge(report.Status))
		for _, check := range report.Checks {
			if !check.OK {
				output.Warningf("%s: %s", check.Name, check.Detail)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

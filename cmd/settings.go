package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/choirdex/model"
	"github.com/spf13/cobra"
)

func init() {
	addJSONFlag(settingsCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "parts [type...]",
	Short: "Shows or sets the parts you sing",
	Long: `Without arguments prints the part types you practice. With arguments
replaces them, e.g. "choirdex parts alto tenor".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			types := make([]model.PartType, 0, len(args))
			for _, a := range args {
				pt, err := model.ParsePartType(a)
				if err != nil {
					return err
				}
				types = append(types, pt)
			}
			settings.SetUserPartTypes(types)
			if err := settings.Flush(); err != nil {
				return err
			}
		}

		types := settings.UserPartTypes()
		if asJSON {
			return printJSON(cmd.OutOrStdout(), model.SettingsBody{UserPartTypes: types})
		}
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.DisplayName()
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, ", "))
		return nil
	},
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the loaded rule catalog",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tMAX LENGTH\tMANDATORY")
	for _, field := range catalog.Fields() {
		spec, _ := catalog.Lookup(field)
		maxLen := "-"
		if spec.MaxLength > 0 {
			maxLen = fmt.Sprintf("%d", spec.MaxLength)
		}
		mandatory := "no"
		if spec.Mandatory {
			mandatory = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", spec.Field, spec.Type, maxLen, mandatory)
	}
	return w.Flush()
}

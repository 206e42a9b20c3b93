package cmd

import (
	"fmt"

	"github.com/smazurov/colornode/internal/colors"
	"github.com/spf13/cobra"
)

// CreateDecodeCmd creates the decode command.
func CreateDecodeCmd() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "decode [color]",
		Short: "Decode a hex color into its channels",
		Long: `Decodes a six digit hex color the same way the form handler does and prints the ` +
			`red, green and blue channel values. With --lenient a leading '#' and surrounding ` +
			`whitespace are accepted, as the JSON API does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decode := colors.Decode
			if lenient {
				decode = colors.Parse
			}
			c, err := decode(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s r=%d g=%d b=%d\n", c, c.R, c.G, c.B)
			return err
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Accept '#' prefix and surrounding whitespace")

	return cmd
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"text/tabwriter"

	"github.com/mwuertinger/nest-events/pkg/event"
	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/mwuertinger/nest-events/pkg/structure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	jsonOutput    bool
	structureMode bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a notification or structure read from a file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if structureMode {
			return printStructure(cmd.OutOrStdout(), data)
		}
		return printMessage(cmd.OutOrStdout(), data, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the decoded notification as JSON")
	decodeCmd.Flags().BoolVar(&structureMode, "structure", false, "Input is a structure resource instead of a notification")
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(stdin)
	}
	return ioutil.ReadFile(path)
}

func printMessage(w io.Writer, data []byte, asJSON bool) error {
	msg, err := event.NewDecoder(nil).Decode(data)
	if err != nil {
		return err
	}
	summary, err := event.Summarize(msg)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "EVENT ID\t%s\n", summary.EventID)
	fmt.Fprintf(tw, "TIMESTAMP\t%s\n", summary.Timestamp.Format("2006-01-02 15:04:05 MST"))
	if summary.Device != "" {
		fmt.Fprintf(tw, "DEVICE\t%s\n", summary.Device)
	}
	for _, e := range summary.Events {
		fmt.Fprintf(tw, "EVENT\t%s\t%s\n", e.Type, e.ID)
	}
	for _, t := range summary.Traits {
		fmt.Fprintf(tw, "TRAIT\t%s\n", t)
	}
	if r := summary.Relation; r != nil {
		fmt.Fprintf(tw, "RELATION\t%s\t%s -> %s\n", r.Type, r.Object, r.Subject)
	}
	return tw.Flush()
}

type customNamer interface {
	CustomName() (string, error)
}

func printStructure(w io.Writer, data []byte) error {
	raw, err := payload.Decode(data)
	if err != nil {
		return err
	}
	s, err := structure.MakeStructure(raw)
	if err != nil {
		return err
	}
	name, err := s.Name()
	if err != nil {
		return errors.Wrap(err, "structure")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "STRUCTURE\t%s\n", name)

	traits := s.Traits()
	names := make([]string, 0, len(traits))
	for n := range traits {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		customName := ""
		if c, ok := traits[n].(customNamer); ok {
			customName, _ = c.CustomName()
		}
		fmt.Fprintf(tw, "TRAIT\t%s\t%s\n", n, customName)
	}
	return tw.Flush()
}

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"camctl/internal/dispatch"
	"camctl/internal/view"
	"camctl/pkg/models"
)

// printStatus renders the status surface on the terminal. Clears are silent:
// a terminal line can't be taken back.
func printStatus(msg view.Message, visible bool) {
	if !visible || jsonOutput {
		return
	}
	fmt.Printf("[%s] %s\n", msg.Severity, msg.Text)
}

// printPosition renders the info panel.
func printPosition(pos models.Position, visible bool) {
	if !visible || jsonOutput {
		return
	}
	writePosition(os.Stdout, pos)
}

// writePosition prints the coordinates in plain decimal, never exponent form.
func writePosition(out io.Writer, pos models.Position) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "X\tY\tZ")
	fmt.Fprintln(w, "-\t-\t-")
	fmt.Fprintf(w, "%s\t%s\t%s\n", formatCoord(pos.X), formatCoord(pos.Y), formatCoord(pos.Z))
	w.Flush()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// promptConfirm asks a yes/no question on out and reads the answer from in.
// Anything but y/yes declines.
func promptConfirm(in io.Reader, out io.Writer) dispatch.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

// errNeedsYes is returned when a confirmation cannot be asked.
var errNeedsYes = errors.New("confirmation required: stdin is not a terminal, re-run with --yes")

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmer returns the confirmation for a command. With --yes every
// prompt is accepted; otherwise the user is asked on the terminal.
func confirmer(cmd *cobra.Command, yes bool) (driving.ConfirmFunc, error) {
	if yes {
		return driving.AlwaysConfirm, nil
	}
	if !stdinIsTerminal() {
		return nil, errNeedsYes
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		cmd.Printf("%s [y/N]: ", prompt)
		answer := strings.ToLower(readLine(reader))
		return answer == "y" || answer == "yes"
	}, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

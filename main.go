package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/wasii25/askdb/cmd"
	"github.com/wasii25/askdb/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		// Session failures carry troubleshooting hints worth surfacing.
		var appErr *errors.Error
		if errors.IsType(err, errors.ErrTypeSession) && stderrors.As(err, &appErr) {
			for _, suggestion := range appErr.Suggestions {
				fmt.Fprintln(os.Stderr, "  -", suggestion)
			}
		}

		os.Exit(1)
	}
}

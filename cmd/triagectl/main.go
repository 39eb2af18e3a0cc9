// triagectl runs triage and dashboard queries against the analysis service
// from a terminal.
//
// Usage:
//
//	triagectl analyze --modulo FINANCEIRO "boleto gerado em duplicidade"
//	triagectl ticket 4521 [--feedback util --nota 9]
//	triagectl dashboard --dias 30 [-o markdown]
//	triagectl patterns | health | chamado <numero>
//	triagectl hash-password < senha.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the operator-facing message of classified errors.
func errorText(err error) string {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/format"
	"github.com/triagem/triage-console/internal/service"
)

const feedbackTimeout = 30 * time.Second

type feedbackFlags struct {
	vote       string
	nota       int
	comentario string
}

func (f *feedbackFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.vote, "feedback", "", "Vote on the result: util or inutil")
	fl.IntVar(&f.nota, "nota", 0, "Feedback rating from 1 to 10 (default 5)")
	fl.StringVar(&f.comentario, "comentario", "", "Feedback comment")
}

func (f *feedbackFlags) input() (*service.FeedbackInput, error) {
	var useful bool
	switch strings.ToLower(strings.TrimSpace(f.vote)) {
	case "":
		return nil, nil
	case "util", "útil", "sim":
		useful = true
	case "inutil", "inútil", "nao", "não":
		useful = false
	default:
		return nil, fmt.Errorf("--feedback must be util or inutil, got %q", f.vote)
	}
	in := &service.FeedbackInput{Useful: useful, Comment: f.comentario}
	if f.nota != 0 {
		nota := f.nota
		in.Rating = &nota
	}
	return in, nil
}

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	var (
		modulo string
		fb     feedbackFlags
	)
	cmd := &cobra.Command{
		Use:   "analyze [texto do chamado]",
		Short: "Triage a free-text chamado",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := modulo
			return runTriage(cmd, opts, service.SubmitInput{
				Mode:         domain.ModeText,
				ChamadoTexto: strings.Join(args, " "),
				Modulo:       &m,
			}, &fb)
		},
	}
	cmd.Flags().StringVarP(&modulo, "modulo", "m", "", "Module: "+moduloList())
	_ = cmd.MarkFlagRequired("modulo")
	fb.register(cmd)
	return cmd
}

func newTicketCmd(opts *cliOptions) *cobra.Command {
	var fb feedbackFlags
	cmd := &cobra.Command{
		Use:   "ticket <numero>",
		Short: "Triage a chamado held by the external ticketing system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriage(cmd, opts, service.SubmitInput{
				Mode:         domain.ModeTicket,
				TicketNumero: args[0],
			}, &fb)
		},
	}
	fb.register(cmd)
	return cmd
}

// runTriage drives a one-shot session so validation and error messages match
// the console.
func runTriage(cmd *cobra.Command, opts *cliOptions, in service.SubmitInput, fb *feedbackFlags) error {
	feedback, err := fb.input()
	if err != nil {
		return err
	}
	client := opts.client()
	logger := opts.logger()
	sender := service.NewFeedbackSender(client, nil, logger, feedbackTimeout)
	session := service.NewTriageSession("cli", service.SessionDependencies{
		Analyzer: client,
		Sender:   sender,
		Logger:   logger,
	})

	snap, err := session.Submit(cmd.Context(), in)
	if err != nil {
		return err
	}

	if feedback != nil {
		snap, err = session.SubmitFeedback(cmd.Context(), *feedback)
		if err != nil {
			return err
		}
		sender.Wait()
	}

	vm := snap.Result
	return render(cmd.OutOrStdout(), opts.output, vm, func(style format.Style) string {
		out := format.Result(*vm, style)
		if feedback != nil {
			out += "\nFeedback registrado.\n"
		}
		return out
	})
}

func moduloList() string {
	names := make([]string, 0, len(domain.Modulos))
	for _, m := range domain.Modulos {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

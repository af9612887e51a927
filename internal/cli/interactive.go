package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/dyike/CoinPulse/internal/coins"
)

const (
	optionOther = "Other..."
	optionExit  = "Exit"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Analyze coins from an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cmd.Context(), a, surveyPrompter{})
		},
	}
}

// prompter asks the user which coin to analyze next.
type prompter interface {
	SelectCoin(options []string) (string, error)
	InputCoin() (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) SelectCoin(options []string) (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: "Select a cryptocurrency to analyze:",
		Options: options,
		Help:    "Pick one of the examples, or choose 'Other...' to type any symbol or name.",
		Default: options[0],
	}
	err := survey.AskOne(prompt, &selected)
	return selected, err
}

func (surveyPrompter) InputCoin() (string, error) {
	var coin string
	prompt := &survey.Input{
		Message: "Enter crypto symbol (BTC, ETH) or name (Bitcoin, Ethereum):",
		Help:    "Type 'exit' to quit.",
	}
	err := survey.AskOne(prompt, &coin, survey.WithValidator(func(val interface{}) error {
		if str, _ := val.(string); strings.TrimSpace(str) == "" {
			return errors.New("please enter a cryptocurrency name or symbol")
		}
		return nil
	}))
	return strings.TrimSpace(coin), err
}

// runInteractiveMode loops until the user exits or interrupts.
func runInteractiveMode(ctx context.Context, a *app, p prompter) error {
	fmt.Fprintln(a.out, "🚀 Welcome to CoinPulse - Crypto News Sentiment Analyzer")
	fmt.Fprintln(a.out, strings.Repeat("=", 59))
	fmt.Fprintln(a.out)

	an, _, err := a.newAnalyzer(ctx, a.newSource())
	if err != nil {
		return err
	}

	options := append(coins.Examples(), optionOther, optionExit)
	for {
		coin, err := nextCoin(p, options)
		if errors.Is(err, terminal.InterruptErr) {
			break
		}
		if err != nil {
			return err
		}
		if coin == "" {
			break
		}

		fmt.Fprintf(a.out, "\n🔄 Analyzing %s...\n", coin)
		a.printer.Result(an.Analyze(ctx, coin))
		fmt.Fprintln(a.out, "\n"+strings.Repeat("-", 60))
	}

	fmt.Fprintln(a.out, "👋 Thank you for using CoinPulse!")
	return nil
}

// nextCoin returns "" when the user asks to leave.
func nextCoin(p prompter, options []string) (string, error) {
	choice, err := p.SelectCoin(options)
	if err != nil {
		return "", err
	}

	switch choice {
	case optionExit:
		return "", nil
	case optionOther:
		coin, err := p.InputCoin()
		if err != nil {
			return "", err
		}
		if strings.EqualFold(coin, "exit") || strings.EqualFold(coin, "quit") {
			return "", nil
		}
		return coin, nil
	default:
		return choice, nil
	}
}

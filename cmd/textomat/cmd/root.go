package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/internal/tui"
)

var (
	cfgFile        string
	command        string
	processAndExit bool
	horizontal     bool
	manual         bool
	focus          string
)

var rootCmd = &cobra.Command{
	Use:   "textomat [path]",
	Short: "textomat - interactive text transformation",
	Long: `textomat turns delimited text into structured output.

The INPUT is read from path, or from stdin when it is not a terminal.
A COMMAND of ";" separated expressions controls the transformation:

  h              first row is a header
  d:,            delimiter
  t:i,s          column types
  s:{a,b}        output structure
  i:jl  o:j      input and output converters
  r              raw mode

Examples:
  textomat data.csv -c 'h;s:{name,age};o:j'
  cat data.csv | textomat -p -c 'h;o:t'`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $TEXTOMAT_CONFIG, ./textomat.toml)")

	rootCmd.Flags().StringVarP(&command, "command", "c", "", "start with an initial COMMAND")
	rootCmd.Flags().BoolVarP(&processAndExit, "process-and-exit", "p", false, "process INPUT with COMMAND, print the OUTPUT and exit")
	rootCmd.Flags().BoolVarP(&horizontal, "horizontal", "H", false, "stack INPUT above OUTPUT")
	rootCmd.Flags().BoolVarP(&manual, "manual", "m", false, "update OUTPUT only on demand")
	rootCmd.Flags().StringVarP(&focus, "focus", "f", "", "focused pane: command, input or output (c, i, o)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if processAndExit && manual {
		return mdwerror.New("--manual with --process-and-exit makes no sense").
			WithCode(mdwerror.CodeInvalidConfig)
	}
	focused, err := tui.ParseFocus(focus)
	if err != nil {
		return err
	}

	app, err := setup(!processAndExit)
	if err != nil {
		return err
	}
	defer app.Close()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	stdinText := path == "" && !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
	text, err := readInput(path, stdinText)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("command") {
		command = app.config.Engine.InitialCommand
	}

	if processAndExit {
		res, err := app.engine.Process(app.engine.NewSession(), text, command, dsl.TriggerRun)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		return nil
	}

	var uiOutput io.Writer
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		uiOutput = os.Stderr
	}
	m, err := tui.Run(tui.Options{
		Engine:         app.engine,
		Text:           text,
		Command:        command,
		Path:           path,
		Focus:          focused,
		Vertical:       horizontal || app.config.UI.Vertical,
		Manual:         manual || app.config.UI.Manual,
		Debounce:       app.config.UI.Debounce.Duration,
		LexerThreshold: app.config.UI.LexerThreshold,
		InputTTY:       stdinText,
		Output:         uiOutput,
		Logger:         app.logger,
	})
	if err != nil {
		return err
	}
	if m.Printed() {
		fmt.Fprintln(cmd.OutOrStdout(), m.Output())
	}
	return nil
}

func readInput(path string, stdin bool) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case path != "":
		data, err = os.ReadFile(path)
	case stdin:
		data, err = io.ReadAll(os.Stdin)
	default:
		return "", nil
	}
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeIO).
			WithDetail("path", path)
	}
	return string(data), nil
}

func printError(err error) {
	msg := err.Error()
	if e, ok := mdwerror.As(err); ok {
		if hint, ok := e.Details()["suggestion"].(string); ok && hint != "" {
			msg += " (" + hint + ")"
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

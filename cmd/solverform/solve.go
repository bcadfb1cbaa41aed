package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/renderers/tui"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
)

var errSolveFailed = errors.New("solve failed")

var solveFlags struct {
	model       string
	data        string
	modelText   string
	dataText    string
	timeout     int
	lang        string
	image       string
	format      string
	interactive bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Submit a model from the terminal",
	Long: `Submit a MiniZinc model to the solver and print the result.

Files are sent with --model/--data; inline text with --model-text/--data-text.
With --interactive every field is prompted for.`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&solveFlags.model, "model", "", "MiniZinc model file (.mzn)")
	f.StringVar(&solveFlags.data, "data", "", "DataZinc data file (.dzn)")
	f.StringVar(&solveFlags.modelText, "model-text", "", "MiniZinc model text")
	f.StringVar(&solveFlags.dataText, "data-text", "", "DataZinc data text")
	f.IntVar(&solveFlags.timeout, "timeout", 0, "Solver timeout in seconds")
	f.StringVar(&solveFlags.lang, "lang", "", "Display language (it|en)")
	f.StringVar(&solveFlags.image, "image", "", "Write the Pareto front graph to this PNG file")
	f.StringVar(&solveFlags.format, "format", formatText, "Output format ("+formatText+"|"+formatHTML+")")
	f.BoolVarP(&solveFlags.interactive, "interactive", "i", false, "Prompt for every field")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := a.renderers.Lookup(solveFlags.format); err != nil {
		return err
	}
	sess := a.newSession(cfg, logger, "cli")

	if solveFlags.lang != "" {
		locale, err := i18n.ParseLocale(solveFlags.lang)
		if err != nil {
			return err
		}
		sess.SetLanguage(locale)
	}
	if err := applySolveFlags(sess); err != nil {
		return err
	}

	if solveFlags.interactive {
		prompter := tui.NewPrompter(tui.WithTranslator(a.translator))
		if err := prompter.Collect(ctx, sess, a.contract.Form); err != nil {
			return err
		}
	}

	result, err := sess.Submit(ctx, a.client)
	if err != nil {
		return err
	}

	imagePath := ""
	if solveFlags.image != "" && result.HasImage() {
		if data, ok := sess.ImagePNG(); ok {
			if err := os.WriteFile(solveFlags.image, data, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			imagePath = solveFlags.image
		}
	}

	out, err := a.renderers.Render(ctx, solveFlags.format, sess.Snapshot(), render.RenderOptions{
		Form:       a.contract.Form,
		Translator: a.translator,
		ImagePath:  imagePath,
	})
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out.Body); err != nil {
		return err
	}
	if result.Status == session.StatusError {
		return errSolveFailed
	}
	return nil
}

// applySolveFlags stores the flag values in sess. Text flags select text
// mode; otherwise file flags are read from disk.
func applySolveFlags(sess *session.Session) error {
	if solveFlags.timeout != 0 {
		sess.SetTimeout(strconv.Itoa(solveFlags.timeout))
	}

	if solveFlags.modelText != "" || solveFlags.dataText != "" {
		if err := sess.SetInputType(solver.InputText); err != nil {
			return err
		}
		sess.SetMinizincText(solveFlags.modelText)
		sess.SetDatazincText(solveFlags.dataText)
		return nil
	}

	if solveFlags.model == "" && solveFlags.data == "" {
		return nil
	}
	if err := sess.SetInputType(solver.InputFile); err != nil {
		return err
	}
	if solveFlags.model != "" {
		file, err := readModelFile(solveFlags.model)
		if err != nil {
			return err
		}
		sess.SetMinizincFile(file)
	}
	if solveFlags.data != "" {
		file, err := readModelFile(solveFlags.data)
		if err != nil {
			return err
		}
		sess.SetDatazincFile(file)
	}
	return nil
}

func readModelFile(path string) (*solver.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &solver.File{Name: filepath.Base(path), Data: data}, nil
}

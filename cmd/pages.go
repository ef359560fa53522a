package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engrbugs/ticktok/internal/pipeline"
	"github.com/engrbugs/ticktok/internal/session"
	"github.com/engrbugs/ticktok/internal/source"
)

const noCaptionsMessage = "no captions available"

var pagesCmd = &cobra.Command{
	Use:   "pages <media-or-captions>",
	Short: "Show the caption pages and timed chunks for a video",
	Long: `Load the caption JSON for a video (a local path or an http(s) URL; media
extensions are replaced with .json) and print every page with its chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runPages,
}

var (
	pagesFormat string
	pagesPolicy string
	pagesShape  string
)

func init() {
	pagesCmd.Flags().StringVarP(&pagesFormat, "format", "f", "auto", "output format: table, json or auto")
	addRuntimeFlags(pagesCmd, &pagesPolicy, &pagesShape)
	rootCmd.AddCommand(pagesCmd)
}

func addRuntimeFlags(cmd *cobra.Command, policy, shape *string) {
	cmd.Flags().StringVar(policy, "policy", "", "grouping policy for captions without tokens (default from config)")
	cmd.Flags().StringVar(shape, "shape", "", "caption shape: auto, prebaked or plain (default from config)")
}

// newSession builds a session for location from config and flag overrides.
func newSession(cmd *cobra.Command, location, policy, shape string) (*session.Session, error) {
	rt := cfg.Runtime
	if cmd.Flags().Changed("policy") {
		rt.Policy = policy
	}
	if cmd.Flags().Changed("shape") {
		rt.Shape = shape
	}

	grouper, err := pipeline.GrouperFor(rt.Policy)
	if err != nil {
		return nil, err
	}
	sh, err := source.ParseShape(rt.Shape)
	if err != nil {
		return nil, err
	}

	src := source.Open(location, source.Options{
		Shape:           sh,
		Timeout:         rt.FetchTimeout(),
		MaxBytes:        rt.MaxBytes,
		RateLimitPerMin: rt.RateLimitPerMin,
	})
	return session.New(src, grouper, slog.Default()), nil
}

func runPages(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	format, err := resolveFormat(pagesFormat, out)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, args[0], pagesPolicy, pagesShape)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Load(ctx); err != nil {
		return err
	}
	return printState(out, sess.Current(), format)
}

func printState(out io.Writer, st *session.State, format string) error {
	if format == "json" {
		pages := st.Pages
		if pages == nil {
			pages = []pipeline.Page{}
		}
		return writeJSON(out, struct {
			Available bool            `json:"available"`
			Shape     string          `json:"shape"`
			Pages     []pipeline.Page `json:"pages"`
		}{st.Available, st.Shape.String(), pages})
	}

	if !st.Available {
		_, err := fmt.Fprintln(out, noCaptionsMessage)
		return err
	}

	var rows [][]string
	for i, p := range st.Pages {
		if len(p.Tokens) == 0 {
			rows = append(rows, []string{strconv.Itoa(i + 1), pipeline.FormatTimestamp(p.StartMs), pipeline.FormatTimestamp(p.EndMs), ""})
			continue
		}
		for _, tok := range p.Tokens {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				pipeline.FormatTimestamp(tok.StartMs),
				pipeline.FormatTimestamp(tok.EndMs),
				tok.Text,
			})
		}
	}
	if _, err := fmt.Fprintln(out, renderTable(
		[]string{"Page", "Start", "End", "Chunk"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d pages (%s)\n", len(st.Pages), st.Shape)
	return err
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engrbugs/ticktok/internal/session"
	"github.com/engrbugs/ticktok/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch <media-or-captions>",
	Short: "Reload caption pages whenever the caption file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var (
	watchPolicy string
	watchShape  string
)

func init() {
	addRuntimeFlags(watchCmd, &watchPolicy, &watchShape)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := source.CaptionPathFor(args[0])
	if source.IsRemote(path) {
		return fmt.Errorf("watch needs a local caption file, got %s", path)
	}

	sess, err := newSession(cmd, path, watchPolicy, watchShape)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Load(ctx); err != nil {
		return err
	}
	report(cmd, sess.Current())

	return sess.Watch(ctx, path, func(st *session.State, err error) {
		if err != nil {
			slog.Error("reload failed", "err", err)
			return
		}
		report(cmd, st)
	})
}

func report(cmd *cobra.Command, st *session.State) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	if !st.Available {
		fmt.Fprintln(out, noCaptionsMessage)
		return
	}
	tokens := 0
	for _, p := range st.Pages {
		tokens += len(p.Tokens)
	}
	fmt.Fprintf(out, "%s: %d pages, %d chunks (%s)\n", st.LoadedAt.Format("15:04:05"), len(st.Pages), tokens, st.Shape)
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engrbugs/ticktok/internal/ffmpeg"
	"github.com/engrbugs/ticktok/internal/pipeline"
	"github.com/engrbugs/ticktok/internal/source"
	"github.com/engrbugs/ticktok/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <video>",
	Short: "Print which caption chunk is on screen for every frame of a video",
	Long: `Read a video's duration with ffprobe, load its caption JSON and print the frame
ranges during which each chunk is displayed. Use --at to query one instant.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

var (
	timelineFPS      float64
	timelineDuration float64
	timelineCaptions string
	timelineAt       float64
	timelineFormat   string
	timelinePolicy   string
	timelineShape    string
)

func init() {
	timelineCmd.Flags().Float64Var(&timelineFPS, "fps", 0, "composition frame rate (default from config)")
	timelineCmd.Flags().Float64Var(&timelineDuration, "duration", 0, "video duration in seconds (skips ffprobe)")
	timelineCmd.Flags().StringVar(&timelineCaptions, "captions", "", "caption JSON location (default derived from the video)")
	timelineCmd.Flags().Float64Var(&timelineAt, "at", -1, "print the chunk active at this time in milliseconds")
	timelineCmd.Flags().StringVarP(&timelineFormat, "format", "f", "auto", "output format: table, json or auto")
	addRuntimeFlags(timelineCmd, &timelinePolicy, &timelineShape)
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	video := args[0]
	if !source.IsRemote(video) && !ffmpeg.IsVideoExtension(filepath.Ext(video)) {
		return fmt.Errorf("not a video file: %s", video)
	}
	out := cmd.OutOrStdout()
	format, err := resolveFormat(timelineFormat, out)
	if err != nil {
		return err
	}

	fps := cfg.Runtime.FPS
	if cmd.Flags().Changed("fps") {
		fps = timelineFPS
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	location := video
	if timelineCaptions != "" {
		location = timelineCaptions
	}
	sess, err := newSession(cmd, location, timelinePolicy, timelineShape)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Load(ctx); err != nil {
		return err
	}
	st := sess.Current()
	if !st.Available {
		fmt.Fprintln(out, noCaptionsMessage)
		return nil
	}

	if timelineAt >= 0 {
		return printActive(cmd, st.Pages, timelineAt)
	}

	duration := timelineDuration
	if duration <= 0 {
		if source.IsRemote(video) {
			return fmt.Errorf("--duration is required for remote videos")
		}
		info := ffmpeg.LogVideoInfo(ctx, video)
		if info == nil {
			return fmt.Errorf("video info: could not read duration of %s (use --duration)", video)
		}
		duration = info.Duration
	}

	frames := ffmpeg.FrameCount(duration, fps)
	segments := timeline.Build(st.Pages, fps, frames)

	if format == "json" {
		if segments == nil {
			segments = []timeline.Segment{}
		}
		return writeJSON(out, struct {
			FPS      float64            `json:"fps"`
			Frames   int                `json:"durationInFrames"`
			Segments []timeline.Segment `json:"segments"`
		}{fps, frames, segments})
	}

	rows := make([][]string, 0, len(segments))
	for _, s := range segments {
		rows = append(rows, []string{
			strconv.Itoa(s.FirstFrame),
			strconv.Itoa(s.LastFrame),
			pipeline.FormatTimestamp(int64(s.StartMs)),
			s.Text,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"From frame", "To frame", "Time", "Chunk"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d frames at %.3f fps\n", frames, fps)
	return nil
}

func printActive(cmd *cobra.Command, pages []pipeline.Page, tMs float64) error {
	out := cmd.OutOrStdout()
	for _, p := range pipeline.ActivePages(pages, tMs) {
		if tok, ok := pipeline.ActiveToken(p, tMs); ok {
			_, err := fmt.Fprintln(out, tok.Text)
			return err
		}
	}
	return nil
}

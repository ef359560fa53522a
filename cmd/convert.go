package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engrbugs/ticktok/internal/worker"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input.srt ...]",
	Short: "Convert SRT files into caption JSON with pre-timed chunks",
	Long: `Convert SRT subtitle files into the caption JSON artifact consumed at render
time. Without arguments the configured input and output paths are used; each
argument otherwise writes a .json file next to the .srt.`,
	RunE: runConvert,
}

var (
	convertInput   string
	convertOutput  string
	convertPolicy  string
	convertNoAsync bool
	convertJobs    int
)

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input SRT path (default from config)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output JSON path (default from config)")
	convertCmd.Flags().StringVar(&convertPolicy, "policy", "", "grouping policy: pair or smart (default from config)")
	convertCmd.Flags().BoolVar(&convertNoAsync, "no-async", false, "convert files one at a time")
	convertCmd.Flags().IntVarP(&convertJobs, "max-concurrent", "j", 0, "max concurrent conversions (default from config)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := worker.Options{
		Policy:        cfg.Convert.Policy,
		NoAsync:       cfg.Worker.NoAsync,
		MaxConcurrent: cfg.Worker.MaxConcurrent,
	}
	if cmd.Flags().Changed("policy") {
		opts.Policy = convertPolicy
	}
	if cmd.Flags().Changed("no-async") {
		opts.NoAsync = convertNoAsync
	}
	if cmd.Flags().Changed("max-concurrent") {
		opts.MaxConcurrent = convertJobs
	}

	if len(args) == 0 {
		job := worker.Job{InputPath: cfg.Convert.InputPath, OutputPath: cfg.Convert.OutputPath}
		if convertInput != "" {
			job.InputPath = convertInput
		}
		if convertOutput != "" {
			job.OutputPath = convertOutput
		}
		opts.Jobs = []worker.Job{job}
	} else {
		if convertOutput != "" && len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input")
		}
		for _, arg := range args {
			job := worker.JobFor(arg)
			if convertOutput != "" {
				job.OutputPath = convertOutput
			}
			opts.Jobs = append(opts.Jobs, job)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := worker.Run(ctx, opts)
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	if len(results) == 1 {
		r := results[0]
		fmt.Fprintf(out, "Converted %s -> %s\n", r.InputPath, r.OutputPath)
		fmt.Fprintf(out, "  %d captions extracted", r.Captions)
		if r.Skipped > 0 {
			fmt.Fprintf(out, ", %d malformed cues skipped", r.Skipped)
		}
		fmt.Fprintln(out)
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.InputPath,
			r.OutputPath,
			strconv.Itoa(r.Captions),
			strconv.Itoa(r.Skipped),
			strconv.FormatBool(r.Unchanged),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Input", "Output", "Captions", "Skipped", "Unchanged"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

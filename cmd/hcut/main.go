// Command hcut partitions a graph into two balanced blocks with minimal
// cut, using the Fiduccia-Mattheyses heuristic.
//
// Typical use:
//
//	hcut --input graph.edges
//	hcut --input graph.json --export dot --out graph.dot
//	hcut --input graph.matrix --robot-result | jq .result.cutset
//	hcut --batch a.edges b.edges c.edges
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/hypercut/pkg/batch"
	"github.com/vanderheijden86/hypercut/pkg/config"
	"github.com/vanderheijden86/hypercut/pkg/debug"
	"github.com/vanderheijden86/hypercut/pkg/export"
	"github.com/vanderheijden86/hypercut/pkg/loader"
	"github.com/vanderheijden86/hypercut/pkg/matrix"
	"github.com/vanderheijden86/hypercut/pkg/partition"
	"github.com/vanderheijden86/hypercut/pkg/store"
	"github.com/vanderheijden86/hypercut/pkg/ui"
	"github.com/vanderheijden86/hypercut/pkg/version"
	"github.com/vanderheijden86/hypercut/pkg/watcher"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryCut   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	summaryDim   = lipgloss.NewStyle().Faint(true)
)

type options struct {
	input       string
	ratio       float64
	format      string
	out         string
	robotResult bool
	robotHelp   bool
	saveRun     bool
	history     int
	storePath   string
	watch       bool
	batchMode   bool
	tui         bool
	quiet       bool
	showVersion bool
	args        []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hcut", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.input, "input", "", "Input graph file (.edges, .json, or dense 0/1 matrix)")
	fs.Float64Var(&opts.ratio, "ratio", 0, "Balance ratio r in (0,1); default from config, else 0.5")
	fs.StringVar(&opts.format, "export", "", "Export format: json, dot, mermaid, markdown, svg, png")
	fs.StringVar(&opts.out, "out", "", "Output path for --export (default stdout; required for png)")
	fs.BoolVar(&opts.robotResult, "robot-result", false, "Output the partition result as JSON for AI agents")
	fs.BoolVar(&opts.robotHelp, "robot-help", false, "Show AI agent help")
	fs.BoolVar(&opts.saveRun, "store", false, "Record this run in the history database")
	fs.IntVar(&opts.history, "history", 0, "Show the last N stored runs and exit")
	fs.StringVar(&opts.storePath, "store-path", "", "Override the history database path")
	fs.BoolVar(&opts.watch, "watch", false, "Re-partition whenever the input file changes")
	fs.BoolVar(&opts.batchMode, "batch", false, "Partition every positional argument")
	fs.BoolVar(&opts.tui, "tui", false, "Show a live convergence view")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress per-pass progress output")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version")

	if err := fs.Parse(argv); err != nil {
		return 2
	}
	opts.args = fs.Args()

	if opts.showVersion {
		fmt.Fprintf(stdout, "hcut %s\n", version.Version)
		return 0
	}
	if opts.robotHelp {
		printRobotHelp(stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v (using defaults)\n", err)
	}
	if opts.ratio == 0 {
		opts.ratio = cfg.Ratio()
	}
	if opts.storePath == "" {
		opts.storePath = cfg.StorePath()
	}

	if opts.history > 0 {
		return showHistory(stdout, stderr, opts)
	}
	if opts.batchMode {
		return runBatch(stdout, stderr, opts)
	}

	input := opts.input
	if input == "" && len(opts.args) == 1 {
		input = opts.args[0]
	}
	if input == "" {
		fmt.Fprintln(stderr, "hcut: no input file (use --input or a positional path; --help for usage)")
		return 2
	}

	if opts.watch {
		return runWatch(stdout, stderr, input, opts)
	}
	return runOnce(stdout, stderr, input, opts)
}

// partitionFile loads one input and runs the engine over it.
func partitionFile(input string, ratio float64, onPass func(partition.PassStats)) (*partition.Result, export.Graph, error) {
	m, err := loader.Load(input)
	if err != nil {
		return nil, export.Graph{}, err
	}
	res, err := partition.Bipartition(m, &partition.Options{Ratio: ratio, OnPass: onPass})
	if err != nil {
		return nil, export.Graph{}, err
	}
	n, _ := m.Dims()
	return res, export.Graph{N: n, Edges: matrix.Edges(m)}, nil
}

func runOnce(stdout, stderr io.Writer, input string, opts options) int {
	var onPass func(partition.PassStats)
	if !opts.quiet && !opts.robotResult && !opts.tui && opts.format == "" {
		onPass = func(s partition.PassStats) {
			fmt.Fprintln(stdout, summaryDim.Render(
				fmt.Sprintf("pass %2d  cutset %4d  moves %4d", s.Pass, s.Cutset, s.Moves)))
		}
	}

	var res *partition.Result
	var g export.Graph
	var err error
	if opts.tui {
		res, err = ui.Run(input, func(onPass func(partition.PassStats)) (*partition.Result, error) {
			r, graph, err := partitionFile(input, opts.ratio, onPass)
			g = graph
			return r, err
		})
	} else {
		res, g, err = partitionFile(input, opts.ratio, onPass)
	}
	if err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}

	if opts.saveRun {
		if err := saveRun(stdout, opts.storePath, input, res); err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
	}

	return emit(stdout, stderr, res, g, opts)
}

func emit(stdout, stderr io.Writer, res *partition.Result, g export.Graph, opts options) int {
	switch {
	case opts.robotResult:
		data, err := export.JSON(res, &g)
		if err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	case opts.format != "":
		format := export.Format(strings.ToLower(opts.format))
		if format == export.FormatPNG && opts.out == "" {
			fmt.Fprintln(stderr, "hcut: --export png requires --out")
			return 2
		}
		data, err := export.Render(format, res, g)
		if err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
		if opts.out == "" {
			fmt.Fprint(stdout, string(data))
		} else if err := os.WriteFile(opts.out, data, 0o644); err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
	case !opts.tui:
		printSummary(stdout, res)
	}
	debug.Log("run complete: cutset=%d passes=%d", res.Cutset, res.Passes)
	return 0
}

func printSummary(w io.Writer, res *partition.Result) {
	fmt.Fprintln(w, summaryTitle.Render("partition"))
	fmt.Fprintln(w, summaryCut.Render(fmt.Sprintf("cutset %d", res.Cutset))+
		summaryDim.Render(fmt.Sprintf("  %d cells, %d nets, %d passes, r=%.2f",
			res.Cells, res.Nets, res.Passes, res.Ratio)))
	fmt.Fprintf(w, "A (%d): %s\n", len(res.A), joinIDs(res.A))
	fmt.Fprintf(w, "B (%d): %s\n", len(res.B), joinIDs(res.B))
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func saveRun(stdout io.Writer, path, input string, res *partition.Result) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := s.SaveRun(input, res)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, summaryDim.Render(fmt.Sprintf("stored as run %d in %s", id, path)))
	return nil
}

func showHistory(stdout, stderr io.Writer, opts options) int {
	s, err := store.Open(opts.storePath)
	if err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}
	defer s.Close()
	runs, err := s.ListRuns(opts.history)
	if err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}
	if opts.robotResult {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "%4d  %s  cutset %-4d  (%d cells, %d nets)  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Cutset, r.Cells, r.Nets, r.Input)
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no stored runs")
	}
	return 0
}

func runBatch(stdout, stderr io.Writer, opts options) int {
	if len(opts.args) == 0 {
		fmt.Fprintln(stderr, "hcut: --batch needs input paths")
		return 2
	}
	items, err := batch.Run(context.Background(), opts.args, batch.Options{Ratio: opts.ratio})
	if err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}
	if opts.robotResult {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "hcut: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		for _, item := range items {
			if item.Err != "" {
				fmt.Fprintf(stdout, "%-30s  error: %s\n", item.Path, item.Err)
				continue
			}
			fmt.Fprintf(stdout, "%-30s  cutset %-4d  (%d cells, %d nets)\n",
				item.Path, item.Result.Cutset, item.Result.Cells, item.Result.Nets)
		}
	}
	failed := 0
	for _, item := range items {
		if item.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "hcut: %d of %d inputs failed\n", failed, len(items))
		return 1
	}
	return 0
}

func runWatch(stdout, stderr io.Writer, input string, opts options) int {
	rerun := func() {
		if code := runOnce(stdout, stderr, input, opts); code != 0 {
			fmt.Fprintf(stderr, "hcut: watch run failed (exit %d)\n", code)
		}
	}
	rerun()

	w, err := watcher.New(input, watcher.WithOnChange(func() {
		fmt.Fprintln(stdout, summaryDim.Render("input changed, re-partitioning"))
		rerun()
	}))
	if err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(stderr, "hcut: %v\n", err)
		return 1
	}
	defer w.Stop()

	fmt.Fprintln(stdout, summaryDim.Render("watching "+w.Path()+" (ctrl-c to stop)"))
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return 0
}

func printRobotHelp(w io.Writer) {
	fmt.Fprintln(w, "hcut AI Agent Interface")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w, "Two-way balanced min-cut graph partitioner (Fiduccia-Mattheyses).")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  --input FILE --robot-result")
	fmt.Fprintln(w, "      Partition FILE and print JSON. Key fields:")
	fmt.Fprintln(w, "      - result.a / result.b: vertex id lists of the two blocks")
	fmt.Fprintln(w, "      - result.cutset: number of edges crossing the blocks")
	fmt.Fprintln(w, "      - result.passes: FM passes until convergence")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  --batch FILE... --robot-result")
	fmt.Fprintln(w, "      Partition every file; prints one JSON item per input with")
	fmt.Fprintln(w, "      per-item errors instead of aborting the batch.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  --history N --robot-result")
	fmt.Fprintln(w, "      Print the last N stored runs as JSON (see --store).")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Input formats:")
	fmt.Fprintln(w, "  .edges  : 'u v' per line, '#' comments, optional 'n COUNT' header")
	fmt.Fprintln(w, "  .json   : {\"n\": 6, \"edges\": [[0,1],[1,2]]}")
	fmt.Fprintln(w, "  .matrix : dense rows of 0/1 values (symmetric; upper triangle read)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "The balance ratio r (default 0.5) keeps |A| within r*W±1 of the")
	fmt.Fprintln(w, "target; pass --ratio to change it.")
}

// Command deckdiff compares two slide decks and writes a side-by-side visual diff.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/himanishpuri/DeckDiff/internal/config"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/fingerprint"
	"github.com/himanishpuri/DeckDiff/pkg/deckdiff/report"
	"github.com/himanishpuri/DeckDiff/pkg/logger"
	"github.com/himanishpuri/DeckDiff/pkg/utils"
)

const version = "0.2.0"

// errDifferent makes the process exit with status 1 under --exit-code.
var errDifferent = errors.New("decks differ")

// CLI defines the command-line interface for deckdiff.
type CLI struct {
	Debug bool `help:"Debug logging with per-stage timings"`

	Compare     CompareCmd     `cmd:"" help:"Render two decks and write their visual diff"`
	CompareDirs CompareDirsCmd `cmd:"" name:"compare-dirs" help:"Diff two directories of already rendered slides"`
	Render      RenderCmd      `cmd:"" help:"Render a deck to slide images and fingerprint sidecars"`
	Cache       CacheGroup     `cmd:"" help:"Render cache maintenance"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// app carries loaded settings into command Run methods.
type app struct {
	ctx      context.Context
	settings *config.Settings
	log      *logger.Logger
}

func (a *app) service(opts ...deckdiff.Option) (deckdiff.Service, error) {
	all := append(a.settings.Options(), deckdiff.WithLogger(a.log))
	return deckdiff.NewService(append(all, opts...)...)
}

// LayoutFlags are shared by the compare commands.
type LayoutFlags struct {
	Output            string `short:"o" help:"Output PDF (default: <source>_vs_<target>.pdf)" type:"path"`
	SuppressUnchanged bool   `default:"${suppress_unchanged}" negatable:"" help:"Omit unchanged, unmoved slides"`
	ShowMovedPages    bool   `default:"${show_moved_pages}" negatable:"" help:"Keep both decks in order and mark moved slides (otherwise group matched pairs)"`
	Summary           bool   `help:"Print the slide mapping"`
	SequenceDiff      bool   `name:"sequence-diff" help:"Print a unified diff of the fingerprint sequences"`
	ExitCode          bool   `name:"exit-code" help:"Exit with status 1 when the decks differ"`
}

func (f *LayoutFlags) options() []deckdiff.Option {
	return []deckdiff.Option{
		deckdiff.WithSuppressUnchanged(f.SuppressUnchanged),
		deckdiff.WithShowMovedPages(f.ShowMovedPages),
	}
}

func (f *LayoutFlags) outputFor(source, target string) string {
	if f.Output != "" {
		return f.Output
	}
	return fmt.Sprintf("%s_vs_%s.pdf", utils.FileStem(source), utils.FileStem(target))
}

// CompareCmd renders and compares two deck files.
type CompareCmd struct {
	Source string `arg:"" help:"Source deck (.pptx, .odp, .pdf, ...)" type:"existingfile"`
	Target string `arg:"" help:"Target deck" type:"existingfile"`

	LayoutFlags `embed:""`

	DPI       int    `name:"dpi" default:"${dpi}" help:"Rasterization resolution"`
	Algorithm string `default:"${algorithm}" enum:"sha256,blake3" help:"Slide fingerprint algorithm"`
	Cache     bool   `default:"${cache_enabled}" negatable:"" help:"Reuse renders of unchanged deck files"`
	KeepWork  bool   `name:"keep-work" default:"${keep_work}" help:"Keep rendered slides after the run"`
}

func (c *CompareCmd) Run(a *app) error {
	algo, err := fingerprint.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	opts := append(c.options(),
		deckdiff.WithDPI(c.DPI),
		deckdiff.WithAlgorithm(algo),
		deckdiff.WithCacheEnabled(c.Cache),
		deckdiff.WithKeepWork(c.KeepWork),
	)

	svc, err := a.service(opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	fmt.Println("🔍 Rendering and comparing decks...")
	rep, err := svc.Compare(a.ctx, c.Source, c.Target, c.outputFor(c.Source, c.Target))
	if err != nil {
		return err
	}
	return c.print(rep)
}

// CompareDirsCmd compares two directories written by the render command.
type CompareDirsCmd struct {
	SourceDir string `arg:"" help:"Rendered source slides" type:"existingdir"`
	TargetDir string `arg:"" help:"Rendered target slides" type:"existingdir"`

	LayoutFlags `embed:""`

	Algorithm string `default:"${algorithm}" enum:"sha256,blake3" help:"Fingerprint algorithm of the sidecars"`
}

func (c *CompareDirsCmd) Run(a *app) error {
	algo, err := fingerprint.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	svc, err := a.service(append(c.options(), deckdiff.WithAlgorithm(algo))...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	rep, err := svc.CompareIndexed(a.ctx, c.SourceDir, c.TargetDir, c.outputFor(c.SourceDir, c.TargetDir))
	if err != nil {
		return err
	}
	return c.print(rep)
}

func (f *LayoutFlags) print(rep *deckdiff.Report) error {
	counts := rep.Counts
	fmt.Printf("\n📊 %d matched, %d only in source, %d only in target\n", counts.Matched, counts.SourceOnly, counts.TargetOnly)
	if rep.Identical {
		fmt.Println("✅ Decks are identical")
	}
	if rep.Output != "" {
		fmt.Printf("📄 Diff written to %s (%d pages)\n", rep.Output, len(rep.Plans))
	}

	if f.Summary {
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		if err := report.Summary(os.Stdout, rep.Result); err != nil {
			return err
		}
		fmt.Println(strings.Repeat("=", 60))
	}
	if f.SequenceDiff {
		diff, err := report.SequenceDiff(rep.Source, rep.Target, 3)
		if err != nil {
			return fmt.Errorf("sequence diff: %w", err)
		}
		fmt.Println()
		fmt.Print(diff)
	}

	if f.ExitCode && !rep.Identical {
		return errDifferent
	}
	return nil
}

// RenderCmd renders one deck into a directory.
type RenderCmd struct {
	Deck      string `arg:"" help:"Deck to render" type:"existingfile"`
	OutDir    string `arg:"" help:"Directory for slide images and sidecars" type:"path"`
	DPI       int    `name:"dpi" default:"${dpi}" help:"Rasterization resolution"`
	Algorithm string `default:"${algorithm}" enum:"sha256,blake3" help:"Slide fingerprint algorithm"`
}

func (c *RenderCmd) Run(a *app) error {
	algo, err := fingerprint.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	svc, err := a.service(deckdiff.WithDPI(c.DPI), deckdiff.WithAlgorithm(algo), deckdiff.WithCacheEnabled(false))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	fmt.Printf("🎞  Rendering %s...\n", filepath.Base(c.Deck))
	deck, err := svc.Render(a.ctx, c.Deck, c.OutDir)
	if err != nil {
		return err
	}

	for _, p := range deck.Pages {
		fmt.Printf("   Slide %d -> %s\n", p.Position, p.ImagePath)
		fmt.Printf("            %s: %s\n", algo, p.Fingerprint)
	}
	fmt.Printf("✅ Rendered %d slides into %s\n", deck.Len(), deck.Dir)
	return nil
}

// CacheGroup contains render cache operations.
type CacheGroup struct {
	List  CacheListCmd  `cmd:"" help:"List cached renders"`
	Prune CachePruneCmd `cmd:"" help:"Remove stale and orphaned cached renders"`
	Clear CacheClearCmd `cmd:"" help:"Remove every cached render"`
}

type CacheListCmd struct{}

func (c *CacheListCmd) Run(a *app) error {
	svc, err := a.service(deckdiff.WithCacheEnabled(true))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	renders, err := svc.ListCache()
	if err != nil {
		return err
	}
	if len(renders) == 0 {
		fmt.Println("📭 Render cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDECK\tSLIDES\tALGO\tDPI\tCREATED")
	for _, r := range renders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			utils.ShortID(r.ID), r.SourceName, r.PageCount, r.Algorithm, r.DPI, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

type CachePruneCmd struct{}

func (c *CachePruneCmd) Run(a *app) error {
	svc, err := a.service(deckdiff.WithCacheEnabled(true))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	n, err := svc.PruneCache()
	if err != nil {
		return err
	}
	fmt.Printf("🧹 Pruned %d cache item(s)\n", n)
	return nil
}

type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(a *app) error {
	svc, err := a.service(deckdiff.WithCacheEnabled(true))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	n, err := svc.ClearCache()
	if err != nil {
		return err
	}
	fmt.Printf("🧹 Removed %d cached render(s)\n", n)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Printf("deckdiff %s\n", version)
	return nil
}

// vars exposes config values as kong flag defaults.
func vars(s *config.Settings) kong.Vars {
	algo, _ := fingerprint.ParseAlgorithm(s.Algorithm)
	return kong.Vars{
		"suppress_unchanged": strconv.FormatBool(s.SuppressUnchanged),
		"show_moved_pages":   strconv.FormatBool(s.ShowMovedPages),
		"dpi":                strconv.Itoa(s.DPI),
		"algorithm":          string(algo),
		"cache_enabled":      strconv.FormatBool(s.CacheEnabled),
		"keep_work":          strconv.FormatBool(s.KeepWork),
	}
}

// newParser builds the command-line parser with flag defaults taken from s.
func newParser(cli *CLI, s *config.Settings, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("deckdiff"),
		kong.Description("DeckDiff - visual slide deck comparison"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		vars(s),
	}
	return kong.New(cli, append(base, opts...)...)
}

// commandName drops argument placeholders, e.g. "compare <source> <target>" -> "compare".
func commandName(command string) string {
	var words []string
	for _, w := range strings.Fields(command) {
		if !strings.HasPrefix(w, "<") {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.Load(config.GetEnv("DECKDIFF_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	parser, err := newParser(&cli, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	log := logger.GetLogger()
	if lvl, ok := logger.ParseLevel(settings.LogLevel); ok {
		log.SetLevel(lvl)
	}
	if cli.Debug {
		log.SetLevel(logger.DEBUG)
	}
	log = log.With("cmd", commandName(ctx.Command()))
	if settings.File != "" {
		log.Debugf("Loaded config from %s", settings.File)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = ctx.Run(&app{ctx: runCtx, settings: settings, log: log})
	if errors.Is(err, errDifferent) {
		stop()
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}

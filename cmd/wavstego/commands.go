package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yyyoichi/wavstego"
	"github.com/yyyoichi/wavstego/internal/analysis"
	"github.com/yyyoichi/wavstego/internal/carrier"
	"github.com/yyyoichi/wavstego/internal/ledger"
	"github.com/yyyoichi/wavstego/internal/report"
)

func runEmbed(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("embed")
	in := fs.String("in", "", "input WAV file")
	out := fs.String("out", "", "output WAV file")
	seed := fs.Int64("seed", 0, "shared secret seed")
	msg := fs.String("msg", "", "message to hide")
	msgFile := fs.String("msg-file", "", "read the message from this file instead of -msg")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return errUsage
	}
	message := *msg
	if *msgFile != "" {
		b, err := os.ReadFile(*msgFile)
		if err != nil {
			return err
		}
		message = string(b)
	}

	l, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
	}

	if err := a.stego.EmbedFile(*in, *out, message, *seed); err != nil {
		return err
	}
	length := utf8.RuneCountInString(message)
	a.logger.Info("embedded message", "out", *out, "length", length, "algorithm", a.stego.Algorithm())
	if l == nil {
		return nil
	}

	// The carrier is already written; a ledger failure is reported, not returned.
	fp, err := ledger.Fingerprint(*out)
	if err == nil {
		err = l.Record(ctx, ledger.Entry{
			Fingerprint: fp,
			SourcePath:  *in,
			OutputPath:  *out,
			Seed:        *seed,
			Length:      length,
			Algorithm:   a.stego.Algorithm(),
		})
	}
	if err != nil {
		a.logger.Warn("embed not recorded in ledger; keep seed and length yourself", "out", *out, "err", err)
		return nil
	}
	a.logger.Debug("recorded embed", "fingerprint", fp)
	return nil
}

func runExtract(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("extract")
	in := fs.String("in", "", "input WAV file")
	seed := fs.Int64("seed", 0, "shared secret seed")
	length := fs.Int("len", 0, "message length in characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s := a.stego
	if !set["seed"] || !set["len"] {
		e, err := a.lookup(ctx, *in)
		if err != nil {
			return err
		}
		if !set["seed"] {
			*seed = e.Seed
		}
		if !set["len"] {
			*length = e.Length
		}
		if e.Algorithm != s.Algorithm() {
			if s, err = wavstego.New(wavstego.WithAlgorithm(e.Algorithm), wavstego.WithLogger(a.logger)); err != nil {
				return err
			}
		}
	}

	msg, err := s.ExtractFile(*in, *seed, *length)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

// lookup finds the ledger entry recorded for the carrier at path.
func (a *app) lookup(ctx context.Context, path string) (ledger.Entry, error) {
	l, err := a.openLedger(ctx)
	if err != nil {
		return ledger.Entry{}, err
	}
	if l == nil {
		return ledger.Entry{}, fmt.Errorf("-seed and -len are required without a ledger")
	}
	defer l.Close()
	fp, err := ledger.Fingerprint(path)
	if err != nil {
		return ledger.Entry{}, err
	}
	return l.Lookup(ctx, fp)
}

func runCapacity(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("capacity")
	in := fs.String("in", "", "input WAV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errUsage
	}
	n, err := wavstego.FileCapacity(*in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%d characters\n", n)
	return nil
}

type inspection struct {
	path   string
	format carrier.Format
	frames int
	stats  analysis.LSBStats
}

func runInspect(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "usage: wavstego inspect file.wav [file.wav ...]")
		return errUsage
	}

	results := make([]inspection, fs.NArg())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range fs.Args() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := carrier.Read(path)
			if err != nil {
				return err
			}
			results[i] = inspection{path: path, format: c.Format, frames: c.Frames(), stats: analysis.LSB(c.Samples)}
			a.logger.Debug("inspected carrier", "path", path, "bytes", len(c.Samples))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCHANNELS\tRATE\tBITS\tFRAMES\tCAPACITY\tONES\tCHI2\tP")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.4f\t%.2f\t%.4f\n",
			r.path, r.format.NumChannels, r.format.SampleRate, r.format.BitDepth, r.frames,
			r.stats.Bytes/8, r.stats.OnesRatio, r.stats.ChiSquare, r.stats.PValue)
	}
	return tw.Flush()
}

func runDiff(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("diff")
	pathA := fs.String("a", "", "original WAV file")
	pathB := fs.String("b", "", "modified WAV file")
	html := fs.String("html", "", "write an HTML chart of modified positions to this file")
	buckets := fs.Int("buckets", 50, "number of chart segments")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pathA == "" || *pathB == "" {
		fs.Usage()
		return errUsage
	}
	ca, err := carrier.Read(*pathA)
	if err != nil {
		return err
	}
	cb, err := carrier.Read(*pathB)
	if err != nil {
		return err
	}
	if ca.Format != cb.Format {
		a.logger.Warn("formats differ", "a", ca.Format, "b", cb.Format)
	}
	d, err := analysis.Compare(ca.Samples, cb.Samples)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%d of %d bytes changed, lsb only: %t\n", len(d.Changed), d.Length, d.LSBOnly)

	if *html == "" {
		return nil
	}
	f, err := os.Create(*html)
	if err != nil {
		return err
	}
	chart := report.DiffChart{
		Title:          fmt.Sprintf("%s vs %s", *pathA, *pathB),
		Buckets:        *buckets,
		BytesPerSecond: ca.Format.SampleRate * ca.Format.FrameSize(),
	}
	if err := chart.Render(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runLedger(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("ledger")
	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("no ledger_path configured")
	}
	defer l.Close()
	entries, err := l.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tOUTPUT\tSEED\tLEN\tALGORITHM\tFINGERPRINT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%.12s\n",
			e.CreatedAt.Format(time.RFC3339), e.OutputPath, e.Seed, e.Length, e.Algorithm, e.Fingerprint)
	}
	return tw.Flush()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"trendsview/internal/app"
	"trendsview/internal/config"
	"trendsview/internal/loader"
	"trendsview/internal/logging"
	"trendsview/internal/pipeline"
	"trendsview/internal/scraper"
	"trendsview/internal/web"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := app.NewViewer(cfg, loader.New(nil), logger.With("component", "viewer"))

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.ListenAddr, "listen address")
		_ = fs.Parse(os.Args[2:])
		srv := web.NewServer(viewer, cfg.DataDir, logger.With("component", "web"))
		must(srv.ListenAndServe(ctx, *addr))
	case "categories":
		state, err := viewer.Open(ctx, "")
		must(err)
		for _, c := range state.Categories {
			fmt.Println(c)
		}
	case "export:csv", "export:xlsx":
		ext := "." + strings.TrimPrefix(cmd, "export:")
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		category := fs.String("category", "", "category to export (default: configured or first)")
		search := fs.String("q", "", "free-text filter")
		out := fs.String("out", "", "output path (default: <export title>"+ext+")")
		_ = fs.Parse(os.Args[2:])

		state, err := viewer.Open(ctx, *category)
		must(err)
		if *category != "" {
			if _, ok := state.ActiveCategory(); !ok {
				must(fmt.Errorf("unknown category %q", *category))
			}
		}
		if strings.TrimSpace(*search) != "" {
			state.Table.Search(*search).Draw()
		}
		path := *out
		if strings.TrimSpace(path) == "" {
			path = state.ExportTitle + ext
		}
		headers, records := state.Table.ExportData()
		must(pipeline.ExportFile(path, headers, records))
		fmt.Printf("exported %d rows to %s\n", len(records), path)
	case "scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		outDir := fs.String("out-dir", cfg.DataDir, "directory for dataset files")
		perCategory := fs.Bool("per-category", cfg.Scraper.PerCategory, "write one file per category")
		maxPages := fs.Int("max-pages", cfg.Scraper.MaxPages, "page limit per category")
		_ = fs.Parse(os.Args[2:])

		scfg := cfg.Scraper
		scfg.PerCategory = *perCategory
		scfg.MaxPages = *maxPages
		must(cfg.Require("SCRAPER_BASE_URL", scfg.BaseURL))

		var pub scraper.Publisher
		s3pub, err := scraper.NewS3PublisherFromConfig(ctx, scfg)
		must(err)
		if s3pub != nil {
			pub = s3pub
		}

		svc := scraper.NewService(scfg, scraper.NewClient(scfg), logger.With("component", "scraper"))
		result, err := svc.Run(ctx, *outDir, pub)
		must(err)
		fmt.Printf("scrape done records=%d files=%d published=%d\n", result.Records, len(result.Files), len(result.Published))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: trendsview <command>")
	fmt.Println("commands:")
	fmt.Println("  serve [--addr=:8080]")
	fmt.Println("  categories")
	fmt.Println("  export:csv [--category=Sports] [--q=...] [--out=./out/trends.csv]")
	fmt.Println("  export:xlsx [--category=Sports] [--q=...] [--out=./out/trends.xlsx]")
	fmt.Println("  scrape [--out-dir=data] [--per-category] [--max-pages=11]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/decipher6/greenstoneResume-sub000/internal/atsclient"
	"github.com/decipher6/greenstoneResume-sub000/internal/config"
	"github.com/decipher6/greenstoneResume-sub000/internal/ingest"
	"github.com/decipher6/greenstoneResume-sub000/internal/journal"
)

// Version info (set during build)
var Version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "bulkingest.yaml", "path to YAML config (defaults are used if missing)")
		jobID       = flag.String("job", "", "job ID to ingest resumes for (required)")
		dir         = flag.String("dir", "", "directory to scan for resume files")
		noAnalyze   = flag.Bool("no-analyze", false, "skip the automatic post-upload analysis run")
		journalPath = flag.String("journal", "", "write a session journal to this path")
	)
	flag.Parse()

	// Token and server URL may come from a .env file.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *jobID == "" {
		fmt.Println("A job ID is required (-job)")
		flag.Usage()
		os.Exit(2)
	}

	paths := flag.Args()
	if *dir != "" {
		found, err := ingest.ListResumePaths(*dir)
		if err != nil {
			fmt.Printf("Failed to scan %s: %v\n", *dir, err)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		fmt.Println("No resume files given (pass paths as arguments or use -dir)")
		os.Exit(2)
	}

	files, err := ingest.LoadFiles(paths)
	if err != nil {
		fmt.Printf("Failed to read files: %v\n", err)
		os.Exit(1)
	}

	opts := cfg.SessionOptions()
	if *noAnalyze {
		opts.AutoAnalyze = false
	}
	if *journalPath == "" && cfg.Journal.Enabled {
		*journalPath = cfg.Journal.Path
	}
	if *journalPath != "" {
		j, err := journal.Open(*journalPath)
		if err != nil {
			fmt.Printf("Failed to open journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		opts.Recorder = j
	}

	client := atsclient.New(cfg.Server.URL, cfg.Server.APIToken, cfg.RequestTimeout())
	session := ingest.NewSession(client, *jobID, opts)
	added := session.Pending().Add(files...)
	if added < len(files) {
		fmt.Printf("Skipped %d duplicate filename(s)\n", len(files)-added)
	}

	fmt.Printf("bulkingest %s: %d files -> job %s at %s\n",
		Version, session.Pending().Len(), *jobID, cfg.Server.URL)

	// Ctrl-C cancels cooperatively at the next suspension point.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := session.Run(ctx)
	fmt.Println(report.Summary())
	if err != nil {
		fmt.Printf("Session ended with error: %v\n", err)
		os.Exit(1)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

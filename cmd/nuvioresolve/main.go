package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/johnneerdael/NuvioMobile/extractor"
	"github.com/johnneerdael/NuvioMobile/internal/fallback"
)

func main() {
	var (
		input      = flag.String("v", "", "Video ID or URL")
		multiTrack = flag.Bool("multitrack", false, "Player supports multi-track (DASH) playback")
		cacheDir   = flag.String("cachedir", os.TempDir(), "Manifest cache directory")
		fbBase     = flag.String("fallback", "", "Remote fallback resolver base URL")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if *input == "" {
		fmt.Println("Usage: nuvioresolve -v <video_id_or_url> [-multitrack] [-fallback <url>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ex := extractor.New(extractor.Config{
		CacheDir: *cacheDir,
		Logger:   &logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	hint := extractor.PlaybackHint{SupportsMultiTrack: *multiTrack}

	result, err := ex.Resolve(ctx, *input, hint)
	if err != nil && *fbBase != "" {
		svc := extractor.NewService(ex, fallback.New(*fbBase, nil, logger))
		url, fbErr := svc.BestURL(ctx, *input, hint, extractor.CatalogItem{})
		if fbErr != nil {
			log.Fatalf("Error resolving stream: %v", fbErr)
		}
		fmt.Printf("Best (via fallback): %s\n", url)
		return
	}
	if err != nil {
		log.Fatalf("Error resolving stream: %v", err)
	}

	fmt.Printf("Title: %s\n", result.Title)
	fmt.Printf("Resolved via profile: %s\n", result.Profile)
	fmt.Printf("Found %d muxed alternatives:\n", len(result.Alternatives))
	for _, f := range result.Alternatives {
		fmt.Printf("  [%d] %s (%dx%d) %d kbps - %s\n",
			f.Itag, f.QualityLabel, f.Width, f.Height, f.Bitrate/1000, f.MimeType)
	}
	kind := "direct"
	if result.Best.IsManifest {
		kind = "manifest"
	}
	fmt.Printf("Best (%s): itag=%d %s %d kbps\n", kind, result.Best.Itag, result.Best.QualityLabel, result.Best.Bitrate/1000)
	fmt.Println(result.Best.URL)
}

// Command sfx is the semantic file search CLI. It wires the adapters
// to the core services and hands control to the cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	configfile "github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/config/file"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/embedding/clip"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/embedding/ollama"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/notify"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/storage/memory"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/storage/sqlite"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driving/cli"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/services"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/extractor"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.Load("")
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	general := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:       cfg.Ollama.BaseURL,
		Model:         cfg.Ollama.Model,
		Dimensions:    cfg.Ollama.Dimensions,
		QueryPrefix:   cfg.Ollama.QueryPrefix,
		PassagePrefix: cfg.Ollama.PassagePrefix,
	})
	defer general.Close()

	amharic := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:       cfg.Ollama.BaseURL,
		Model:         cfg.Ollama.AmharicModel,
		Dimensions:    cfg.Ollama.Dimensions,
		QueryPrefix:   cfg.Ollama.QueryPrefix,
		PassagePrefix: cfg.Ollama.PassagePrefix,
	})
	defer amharic.Close()

	var images driven.ImageEmbeddingService
	if cfg.Clip.Enabled {
		clipSvc := clip.NewEmbeddingService(clip.Config{
			BaseURL:    cfg.Clip.BaseURL,
			Model:      cfg.Clip.Model,
			Dimensions: cfg.Clip.Dimensions,
		})
		defer clipSvc.Close()
		images = clipSvc
	}

	ex := extractor.New()
	ch := chunker.New()

	textPipe := services.NewTextPipeline(ex, ch, general, amharic, store)
	imagePipe := services.NewImagePipeline(ex, images, store)

	indexer := services.NewIndexer(textPipe, imagePipe, memory.NewRunStatsStore(),
		services.WithProgress(indexProgress()))

	fw, err := notify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	cli.SetServices(cli.Services{
		Search:      services.NewSearchService(general, amharic, images, store),
		Indexer:     indexer,
		Watch:       services.NewWatcher(fw, indexer, ex),
		Maintenance: services.NewMaintenance(store),
		WatchDirs:   cfg.WatchDirs(),

		SearchLimit:    cfg.Search.Limit,
		SearchMinScore: cfg.Search.MinScore,
	})

	return cli.Execute()
}

// indexProgress renders a terminal progress bar during indexing runs.
func indexProgress() services.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(done)
	}
}

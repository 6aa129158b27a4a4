package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farxc/painel-emendas/internal/dataset"
	"github.com/farxc/painel-emendas/internal/logger"
	"github.com/farxc/painel-emendas/internal/store"
)

const (
	zipsDir = "tmp/zips"
	dataDir = "tmp/data"
)

// fetchArchive returns the path of the dataset archive, downloading it when
// no local source is given.
func fetchArchive(ctx context.Context, source, downloadURL string, appLogger *logger.Logger) (string, error) {
	const component = "Downloader"

	if source != "" {
		if _, err := os.Stat(source); err != nil {
			return "", fmt.Errorf("source %s: %w", source, err)
		}
		appLogger.Info(component, "Using local source: path=%s", source)
		return source, nil
	}

	outputPath := filepath.Join(zipsDir, "emendas_parlamentares.zip")
	size, err := dataset.Download(ctx, downloadURL, outputPath, appLogger)
	if err != nil {
		return "", err
	}
	appLogger.Info(component, "Download finished: path=%s sizeMB=%.2f", outputPath, float64(size)/1024/1024)
	return outputPath, nil
}

// extractFiles resolves the CSV files of an archive. A CSV source is used
// as the amendments file directly.
func extractFiles(archive string, appLogger *logger.Logger) (dataset.Files, error) {
	if strings.EqualFold(filepath.Ext(archive), ".csv") {
		return dataset.Files{Amendments: archive}, nil
	}

	paths, err := dataset.Unzip(archive, dataDir, appLogger)
	if err != nil {
		return dataset.Files{}, err
	}
	return dataset.Classify(paths)
}

/*
LoadDataset replaces the stored dataset with the content of files and
records the run in the ingestion history. The history row is created as
in progress before decoding starts and is always closed with the outcome.
*/
func LoadDataset(ctx context.Context, files dataset.Files, sourceFile, trigger string, storage *store.Storage, appLogger *logger.Logger) error {
	const component = "Loader"

	history := &store.IngestionHistory{
		SourceFile:  sourceFile,
		TriggerType: trigger,
		Status:      store.StatusInProgress,
	}
	if err := storage.IngestionHistory.InsertIngestionHistory(ctx, history); err != nil {
		return fmt.Errorf("failed to open ingestion history: %w", err)
	}

	err := func() error {
		ds, err := dataset.Load(files, appLogger)
		if err != nil {
			return err
		}
		appLogger.Info(component, "Replacing dataset: records=%d documents=%d", len(ds.Records), len(ds.Documents))
		if err := storage.Dataset.Replace(ctx, ds.Records, ds.Documents); err != nil {
			return err
		}
		history.RecordsLoaded = len(ds.Records)
		history.DocumentsLoaded = len(ds.Documents)
		return nil
	}()

	history.Status = store.StatusSuccess
	if err != nil {
		history.Status = store.StatusFailure
		history.ErrorMessage = err.Error()
	}
	// The row is closed even when ctx was canceled by a signal.
	if uerr := storage.IngestionHistory.UpdateIngestionStatus(context.WithoutCancel(ctx), history); uerr != nil {
		appLogger.Error(component, "Failed to close ingestion history: id=%d error=%v", history.ID, uerr)
	}
	if err != nil {
		return err
	}

	appLogger.Info(component, "Dataset loaded: historyID=%d records=%d documents=%d", history.ID, history.RecordsLoaded, history.DocumentsLoaded)
	return nil
}

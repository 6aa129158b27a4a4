package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/farxc/painel-emendas/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
)

const documentsSuffix = "_Documentos.csv"

// Files are the CSV files of one dataset extraction. Documents may be empty.
type Files struct {
	Amendments string
	Documents  string
}

func extractOne(f *zip.File, filePath string) error {
	dest, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dest.Close()

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(dest, src)
	return err
}

// Unzip extracts the CSV files of zipPath into destDir.
func Unzip(zipPath, destDir string, appLogger *logger.Logger) ([]string, error) {
	const component = "Unzipper"

	appLogger.Debug(component, "Starting extraction: zipPath=%s destDir=%s", zipPath, destDir)

	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip file %s: %w", zipPath, err)
	}
	defer r.Close()

	var extracted []string
	skipped := 0
	for _, f := range r.File {
		filePath := filepath.Join(destDir, f.Name)

		if !strings.HasPrefix(filePath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return nil, fmt.Errorf("invalid file path in archive (possible zip slip): %s", f.Name)
		}

		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			skipped++
			appLogger.Debug(component, "Skipping entry: file=%s", f.Name)
			continue
		}

		if err := extractOne(f, filePath); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		extracted = append(extracted, filePath)
	}

	appLogger.Info(component, "Extraction completed: destDir=%s extractedFiles=%d skippedFiles=%d", destDir, len(extracted), skipped)
	return extracted, nil
}

// Classify picks the amendments and documents files among extracted CSVs.
func Classify(paths []string) (Files, error) {
	var files Files
	for _, p := range paths {
		name := filepath.Base(p)
		switch {
		case strings.HasSuffix(name, documentsSuffix):
			files.Documents = p
		case strings.HasPrefix(name, "EmendasParlamentares") && !strings.Contains(name, "_"):
			files.Amendments = p
		}
	}
	if files.Amendments == "" {
		return Files{}, fmt.Errorf("no amendments file among %d extracted files", len(paths))
	}
	return files, nil
}

// OpenFileAndDecode reads a Portal CSV: Windows-1252, ';' separated, every
// column kept as text.
func OpenFileAndDecode(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	decoded := charmap.Windows1252.NewDecoder().Reader(file)
	df := dataframe.ReadCSV(decoded,
		dataframe.WithDelimiter(';'),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataframe is empty: %s", path)
	}
	return df, nil
}

package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/farxc/painel-emendas/internal/logger"
)

// PortalDownloadURL serves the full amendments dataset as a single zip.
var PortalDownloadURL = "https://portaldatransparencia.gov.br/download-de-dados/emendas-parlamentares/UNICO"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Download fetches downloadURL into outputPath and returns the number of
// bytes written.
func Download(ctx context.Context, downloadURL, outputPath string, appLogger *logger.Logger) (int64, error) {
	const component = "Downloader"

	appLogger.Debug(component, "Starting download: url=%s path=%s", downloadURL, outputPath)

	client := &http.Client{}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		req.Header.Set("User-Agent", userAgent)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		appLogger.Warn(component, "Non-OK HTTP response: status=%s statusCode=%d", resp.Status, resp.StatusCode)
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return 0, fmt.Errorf("failed to create download dir: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return written, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	appLogger.Info(component, "Download completed: path=%s size=%d bytes", outputPath, written)
	return written, nil
}

package dataset

import (
	"fmt"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/logger"
)

// Dataset is a fully decoded extraction.
type Dataset struct {
	Records   []emenda.Record
	Documents []emenda.Document
}

// Load decodes the files of an extraction.
func Load(files Files, appLogger *logger.Logger) (Dataset, error) {
	const component = "FileDecoder"

	df, err := OpenFileAndDecode(files.Amendments)
	if err != nil {
		return Dataset{}, err
	}
	ds := Dataset{Records: Records(df)}
	appLogger.Info(component, "Amendments decoded: path=%s rows=%d", files.Amendments, len(ds.Records))

	if files.Documents == "" {
		appLogger.Warn(component, "No linked documents file, loading amendments only")
		return ds, nil
	}

	df, err = OpenFileAndDecode(files.Documents)
	if err != nil {
		return Dataset{}, fmt.Errorf("linked documents: %w", err)
	}
	ds.Documents = Documents(df)
	appLogger.Info(component, "Linked documents decoded: path=%s rows=%d", files.Documents, len(ds.Documents))
	return ds, nil
}

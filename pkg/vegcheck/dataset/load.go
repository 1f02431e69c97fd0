package dataset

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/internalerr"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// File names expected inside a dataset directory.
const (
	CodesFile       = "ecodes.yaml"
	IngredientsFile = "ingredients.yaml"
	BlacklistFile   = "blacklist.yaml"
	WhitelistFile   = "whitelist.yaml"
)

type codesDoc struct {
	Codes []CodeRecord `yaml:"codes"`
}

type recordsDoc struct {
	Items []Record `yaml:"items"`
}

// Load reads the four reference tables from a directory of YAML files.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	codes, err := loadCodes(func() ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, CodesFile))
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", CodesFile, err)
	}
	ds.Codes = codes

	for _, tbl := range []struct {
		file string
		dst  *[]Record
	}{
		{IngredientsFile, &ds.Ingredients},
		{BlacklistFile, &ds.Blacklist},
		{WhitelistFile, &ds.Whitelist},
	} {
		items, err := loadRecords(func() ([]byte, error) {
			return os.ReadFile(filepath.Join(dir, tbl.file))
		})
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", tbl.file, err)
		}
		*tbl.dst = items
	}

	return ds, nil
}

var (
	defaultOnce sync.Once
	defaultDS   *Dataset
)

// Default returns the built-in reference tables, parsed once from the
// embedded YAML. The embedded data is a build artifact; a parse failure is
// a programming error and panics.
func Default() *Dataset {
	defaultOnce.Do(func() {
		ds, err := loadEmbedded()
		if err != nil {
			panic(fmt.Sprintf("dataset: embedded defaults: %v", err))
		}
		defaultDS = ds
	})
	return defaultDS
}

func loadEmbedded() (*Dataset, error) {
	ds := &Dataset{}

	codes, err := loadCodes(func() ([]byte, error) {
		return defaultsFS.ReadFile("defaults/" + CodesFile)
	})
	if err != nil {
		return nil, err
	}
	ds.Codes = codes

	for _, tbl := range []struct {
		file string
		dst  *[]Record
	}{
		{IngredientsFile, &ds.Ingredients},
		{BlacklistFile, &ds.Blacklist},
		{WhitelistFile, &ds.Whitelist},
	} {
		items, err := loadRecords(func() ([]byte, error) {
			return defaultsFS.ReadFile("defaults/" + tbl.file)
		})
		if err != nil {
			return nil, err
		}
		*tbl.dst = items
	}

	return ds, nil
}

func loadCodes(read func() ([]byte, error)) ([]CodeRecord, error) {
	data, err := read()
	if err != nil {
		return nil, err
	}
	var doc codesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	for i, c := range doc.Codes {
		if c.Code == "" {
			return nil, fmt.Errorf("%w: code entry %d missing code", internalerr.ErrInvalidRecord, i)
		}
	}
	return doc.Codes, nil
}

func loadRecords(read func() ([]byte, error)) ([]Record, error) {
	data, err := read()
	if err != nil {
		return nil, err
	}
	var doc recordsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	for i, r := range doc.Items {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: entry %d missing name", internalerr.ErrInvalidRecord, i)
		}
	}
	return doc.Items, nil
}

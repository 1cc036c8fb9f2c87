package safebrowsing

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sb-verify/feature/safebrowsing/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// File extensions of the paired per-list files in a new-format profile.
const (
	StoreExt     = ".sbstore"
	PrefixSetExt = ".pset"
)

// decodeConcurrency bounds how many list pairs decode at once; inputs are
// small local files, so a handful is plenty.
const decodeConcurrency = 4

// DecodeListPair decodes one store/prefix-set pair and assembles it into a
// complete ListRecordSet. The two files form a unit: a failure in either,
// or an inconsistency between them, fails the whole list.
func DecodeListPair(store, prefixSet io.Reader, name string, opts DecodeOptions) (*models.ListRecordSet, *StoreMetadata, error) {
	set, meta, err := DecodeStore(store, name, opts)
	if err != nil {
		return nil, meta, fmt.Errorf("store: %w", err)
	}

	prefixes, _, err := DecodePrefixSet(prefixSet)
	if err != nil {
		return nil, meta, fmt.Errorf("prefix set: %w", err)
	}

	if err := Assemble(set, prefixes); err != nil {
		return nil, meta, err
	}
	return set, meta, nil
}

// LoadProfileDir scans a new-format profile directory for
// <name>.sbstore/<name>.pset pairs and decodes each pair. Pairs are
// independent, so they decode in parallel; each pair is still decoded and
// assembled atomically as a unit. Per-list failures land in the returned
// error map instead of aborting the remaining lists.
func LoadProfileDir(dir string, opts DecodeOptions, log *zap.Logger) (map[string]*models.ListRecordSet, map[string]error, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), StoreExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), StoreExt))
	}

	var (
		mu       sync.Mutex
		lists    = make(map[string]*models.ListRecordSet, len(names))
		failures = make(map[string]error)
	)

	g := new(errgroup.Group)
	g.SetLimit(decodeConcurrency)

	for _, name := range names {
		g.Go(func() error {
			log.Info("Reading list", zap.String("list", name))

			set, err := decodeListPairFiles(
				filepath.Join(dir, name+StoreExt),
				filepath.Join(dir, name+PrefixSetExt),
				name, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("Failed to decode list", zap.String("list", name), zap.Error(err))
				failures[name] = err
				return nil
			}
			lists[name] = set
			return nil
		})
	}
	_ = g.Wait() // workers report through the failure map

	return lists, failures, nil
}

func decodeListPairFiles(storePath, psetPath, name string, opts DecodeOptions) (*models.ListRecordSet, error) {
	storeFile, err := os.Open(storePath)
	if err != nil {
		return nil, err
	}
	defer storeFile.Close()

	psetFile, err := os.Open(psetPath)
	if err != nil {
		return nil, err
	}
	defer psetFile.Close()

	set, _, err := DecodeListPair(storeFile, psetFile, name, opts)
	return set, err
}

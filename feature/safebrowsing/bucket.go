package safebrowsing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sb-verify/core/storage"
	"sb-verify/feature/safebrowsing/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadProfileBucket decodes a new-format profile that was archived to an
// object storage bucket. It lists <prefix> for .sbstore objects, fetches
// each one together with its paired .pset object and decodes the pair
// exactly like the local directory loader. Per-list failures land in the
// returned error map.
func LoadProfileBucket(ctx context.Context, client storage.Client, bucket, prefix string, opts DecodeOptions, log *zap.Logger) (map[string]*models.ListRecordSet, map[string]error, error) {
	var storeKeys []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, StoreExt) {
			storeKeys = append(storeKeys, obj.Key)
		}
	}

	var (
		mu       sync.Mutex
		lists    = make(map[string]*models.ListRecordSet, len(storeKeys))
		failures = make(map[string]error)
	)

	g := new(errgroup.Group)
	g.SetLimit(decodeConcurrency)

	for _, storeKey := range storeKeys {
		g.Go(func() error {
			name := listNameFromKey(storeKey)
			log.Info("Reading archived list", zap.String("list", name), zap.String("object", storeKey))

			set, err := decodeListPairObjects(ctx, client, bucket, storeKey, name, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("Failed to decode archived list", zap.String("list", name), zap.Error(err))
				failures[name] = err
				return nil
			}
			lists[name] = set
			return nil
		})
	}
	_ = g.Wait()

	return lists, failures, nil
}

// listNameFromKey strips the path and store extension from an object key.
func listNameFromKey(storeKey string) string {
	name := storeKey
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, StoreExt)
}

func decodeListPairObjects(ctx context.Context, client storage.Client, bucket, storeKey, name string, opts DecodeOptions) (*models.ListRecordSet, error) {
	storeObj, err := client.GetObject(ctx, bucket, storeKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get store object: %w", err)
	}
	defer storeObj.Close()

	psetKey := strings.TrimSuffix(storeKey, StoreExt) + PrefixSetExt
	psetObj, err := client.GetObject(ctx, bucket, psetKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get prefix set object: %w", err)
	}
	defer psetObj.Close()

	set, _, err := DecodeListPair(storeObj, psetObj, name, opts)
	return set, err
}

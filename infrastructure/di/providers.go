package di

import (
	"context"
	"fmt"
	"path/filepath"

	"tangle-backend/application/ports"
	"tangle-backend/application/store"
	"tangle-backend/domain/graph"
	"tangle-backend/infrastructure/config"
	"tangle-backend/infrastructure/gateway"
	"tangle-backend/infrastructure/nlp"
	blobdynamo "tangle-backend/infrastructure/persistence/dynamodb"
	"tangle-backend/infrastructure/persistence/encrypted"
	"tangle-backend/infrastructure/persistence/filesystem"
	"tangle-backend/infrastructure/persistence/memory"
	"tangle-backend/infrastructure/search"
	"tangle-backend/pkg/observability"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Watcher  *config.Watcher
	Registry *store.Registry
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	return observability.NewCollector("tangle")
}

// ProvideWatcher creates the dynamic config watcher, or nil when no
// dynamic config file is configured
func ProvideWatcher(cfg *config.Config, logger *zap.Logger) (*config.Watcher, error) {
	if cfg.DynamicConfigPath == "" {
		return nil, nil
	}
	watcher, err := config.NewWatcher(cfg.DynamicConfigPath, logger)
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	watcher.Start()
	return watcher, nil
}

// ProvideMatcher creates the fuzzy matcher, re-tuned on config reloads
func ProvideMatcher(watcher *config.Watcher) *search.FuzzyMatcher {
	dyn := config.DefaultDynamic()
	if watcher != nil {
		dyn = watcher.Current()
	}
	matcher := search.NewFuzzyMatcher(matcherOptions(dyn))
	if watcher != nil {
		watcher.OnChange(func(d *config.Dynamic) {
			matcher.SetOptions(matcherOptions(d))
		})
	}
	return matcher
}

func matcherOptions(dyn *config.Dynamic) search.Options {
	return search.Options{
		Threshold:  dyn.Search.Threshold,
		MaxResults: dyn.Search.MaxResults,
	}
}

// ProvideTopicExtractor creates the NLP topic extractor
func ProvideTopicExtractor(logger *zap.Logger) graph.TopicExtractor {
	return nlp.NewProseExtractor(logger)
}

// ProvideBuilder creates the graph builder
func ProvideBuilder(topics graph.TopicExtractor) *graph.Builder {
	return graph.NewBuilder(topics)
}

// ProvideFriendFetcher creates the friend-capture gateway: the stub
// fetcher behind a circuit breaker
func ProvideFriendFetcher(logger *zap.Logger) ports.FriendFetcher {
	return gateway.NewBreakerFriendFetcher(gateway.NewStubFriendFetcher(logger), logger)
}

// ProvideStoreRegistry creates the per-user store registry over the
// configured blob storage driver
func ProvideStoreRegistry(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
	matcher *search.FuzzyMatcher,
	builder *graph.Builder,
	fetcher ports.FriendFetcher,
) (*store.Registry, error) {
	blobsFor, err := blobFactory(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var codec *encrypted.Codec
	if cfg.EncryptAtRest {
		codec, err = encrypted.NewCodec(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
	}

	return store.NewRegistry(func(userID string) *store.Store {
		blobs := blobsFor(userID)
		if codec != nil {
			blobs = codec.Wrap(blobs)
		}
		return store.NewStore(store.Dependencies{
			Blobs:         blobs,
			Friends:       fetcher,
			Matcher:       matcher,
			Builder:       builder,
			Logger:        logger.With(zap.String("userID", userID)),
			Metrics:       metrics,
			EncryptAtRest: cfg.EncryptAtRest,
		})
	}), nil
}

// blobFactory returns a per-user blob store constructor for the
// configured driver
func blobFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (func(userID string) ports.BlobStore, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return func(userID string) ports.BlobStore {
			return memory.NewBlobStore()
		}, nil

	case config.DriverFilesystem:
		return func(userID string) ports.BlobStore {
			return filesystem.NewBlobStore(filepath.Join(cfg.DataDir, userID), logger)
		}, nil

	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		return func(userID string) ports.BlobStore {
			return blobdynamo.NewBlobStore(client, cfg.DynamoDBTable, userID, logger)
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

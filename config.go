package lessons

import "github.com/goliatone/go-lessons/internal/runtimeconfig"

var (
	ErrDocsRootRequired        = runtimeconfig.ErrDocsRootRequired
	ErrLanguagesRequired       = runtimeconfig.ErrLanguagesRequired
	ErrDefaultLanguageRequired = runtimeconfig.ErrDefaultLanguageRequired
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrStoragePathRequired     = runtimeconfig.ErrStoragePathRequired
	ErrPreviewLinesInvalid     = runtimeconfig.ErrPreviewLinesInvalid
	ErrEvaluatorTimeoutInvalid = runtimeconfig.ErrEvaluatorTimeoutInvalid
	ErrWatchRequiresCache      = runtimeconfig.ErrWatchRequiresCache
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ServerConfig    = runtimeconfig.ServerConfig
	EvaluatorConfig = runtimeconfig.EvaluatorConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	RenderConfig    = runtimeconfig.RenderConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

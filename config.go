package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired           = runtimeconfig.ErrContentDirRequired
	ErrNoSourceEnabled              = runtimeconfig.ErrNoSourceEnabled
	ErrStorageFeatureRequired       = runtimeconfig.ErrStorageFeatureRequired
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrRemoteBaseURLRequired        = runtimeconfig.ErrRemoteBaseURLRequired
	ErrRenderCacheProviderUnknown   = runtimeconfig.ErrRenderCacheProviderUnknown
	ErrRenderCacheRedisAddrRequired = runtimeconfig.ErrRenderCacheRedisAddrRequired
	ErrListingPageSizeInvalid       = runtimeconfig.ErrListingPageSizeInvalid
	ErrListingRelatedLimitInvalid   = runtimeconfig.ErrListingRelatedLimitInvalid
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	ContentConfig     = runtimeconfig.ContentConfig
	AuthorsConfig     = runtimeconfig.AuthorsConfig
	StorageConfig     = runtimeconfig.StorageConfig
	RemoteConfig      = runtimeconfig.RemoteConfig
	CacheConfig       = runtimeconfig.CacheConfig
	MarkdownConfig    = runtimeconfig.MarkdownConfig
	RenderCacheConfig = runtimeconfig.RenderCacheConfig
	ListingConfig     = runtimeconfig.ListingConfig
	HTTPConfig        = runtimeconfig.HTTPConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

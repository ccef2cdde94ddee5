package config

import "os"

// StorageConfig describes the external object store used for image uploads.
// The store is a hosted bucket service reachable over HTTP: objects are
// written with an authorized PUT and resolved publicly under PublicBaseURL.
type StorageConfig struct {
	Endpoint      string // base URL for authorized object writes
	Bucket        string // bucket holding all portal images
	APIKey        string // bearer token for write access
	PublicBaseURL string // base URL under which objects resolve publicly
}

// LoadStorageConfig reads the object store settings. Uploads are disabled
// (handlers return an upstream failure) when the endpoint is not configured.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
		Bucket:        getenv("STORAGE_BUCKET", "portal-images"),
		APIKey:        os.Getenv("STORAGE_API_KEY"),
		PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
	}
}

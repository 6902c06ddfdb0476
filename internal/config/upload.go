package config

import "sync"

type UploadConfig struct {
	MaxUploadBytes int64
}

var (
	uploadConfig *UploadConfig
	uploadOnce   sync.Once
)

func LoadUploadConfig() *UploadConfig {
	uploadOnce.Do(func() {
		uploadConfig = &UploadConfig{
			MaxUploadBytes: int64(envInt("MAX_UPLOAD_MB", 5)) * 1024 * 1024,
		}
	})
	return uploadConfig
}

package s3_test

import (
	"testing"

	"resort/config"
	"resort/infras/otel/mocks"
	"resort/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestStorage_ObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.resort.test/"
	cfg.External.S3.APIEndpoint = "https://s3.resort.test"
	cfg.External.S3.BucketName = "catalog"
	cfg.External.S3.Region = "auto"

	storage := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.resort.test/resources/a.png", want: "resources/a.png"},
		{name: "api endpoint with bucket", url: "https://s3.resort.test/catalog/staff/b.jpg", want: "staff/b.jpg"},
		{name: "foreign url", url: "https://elsewhere.test/resources/a.png", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.ObjectKeyFromURL(tt.url))
		})
	}
}

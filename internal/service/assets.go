package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/buzlove/love-tree-backend/internal/logger"
	"github.com/buzlove/love-tree-backend/internal/storage"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Asset describes where a generated image ended up. Width, Height, and
// Format are filled when the bytes could be sniffed, regardless of whether
// re-hosting succeeded.
type Asset struct {
	URL    string
	Width  int
	Height int
	Format string
}

// AssetService re-hosts vendor-hosted (expiring) image URLs on the durable
// object store. Its Persist contract is that it never fails the pipeline:
// the signature has no error result and every failure path degrades to the
// input URL.
type AssetService struct {
	client *resty.Client
	store  storage.ObjectStorage
}

// NewAssetService creates a new asset persister.
// Parameters:
//   - store: durable object store; nil means re-hosting is soft-disabled
//     and vendor URLs pass through unchanged.
// Returns:
//   - *AssetService: initialized persister.
func NewAssetService(store storage.ObjectStorage) *AssetService {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &AssetService{
		client: client,
		store:  store,
	}
}

// Persist downloads the image behind a temporary URL and uploads it to the
// durable store, returning the stable URL. Degradation ladder: empty input
// is a no-op; unconfigured store returns the input unchanged; download or
// upload failure is logged and returns the input unchanged. The caller
// always gets some URL back, never an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageURL: vendor-hosted image URL, possibly "".
// Returns:
//   - Asset: final URL plus sniffed image metadata when available.
func (s *AssetService) Persist(ctx context.Context, imageURL string) Asset {
	if imageURL == "" {
		return Asset{}
	}
	if s.store == nil {
		return Asset{URL: imageURL}
	}

	asset := Asset{URL: imageURL}

	resp, err := s.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		logger.FromContext(ctx).WithError(err).
			Warn("Asset download failed, keeping vendor URL")
		return asset
	}
	if resp.IsError() {
		logger.CtxWarn(ctx, "Asset download returned status %d, keeping vendor URL", resp.StatusCode())
		return asset
	}
	data := resp.Body()

	format, width, height := sniffImage(data)
	asset.Format = format
	asset.Width = width
	asset.Height = height

	key := fmt.Sprintf("mascots/%s.%s", uuid.New().String(), extensionFor(format))
	err = s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentTypeFor(format))
	if err != nil {
		logger.FromContext(ctx).WithError(err).
			Warn("Asset upload failed, keeping vendor URL")
		return asset
	}

	asset.URL = s.store.GetURL(key)
	logger.With(logger.Fields{logger.FieldSize: len(data)}).
		Debug(ctx, "Asset re-hosted at %s", asset.URL)
	return asset
}

// sniffImage decodes just the image header. Unknown formats are passed
// through unsniffed; the upload still happens with a generic content type.
func sniffImage(data []byte) (format string, width, height int) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0
	}
	return format, cfg.Width, cfg.Height
}

func extensionFor(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "png", "gif", "webp":
		return format
	default:
		return "img"
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

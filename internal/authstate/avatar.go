// ABOUTME: Fetches and decodes the connected account's profile picture
// ABOUTME: Supports PNG, JPEG, GIF and WebP; failures only leave the avatar empty

package authstate

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	_ "golang.org/x/image/webp"

	"github.com/mauromedda/agentdesk/internal/httputil"
)

const maxAvatarBytes = 2 << 20

// AvatarFetcher downloads and decodes an image.
type AvatarFetcher func(ctx context.Context, url string) (image.Image, error)

// FetchAvatar downloads the image at url.
func FetchAvatar(ctx context.Context, url string) (image.Image, error) {
	c := httputil.NewClient(url, map[string]string{"Accept": "image/*"})
	resp, err := c.Do(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar: unexpected status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("avatar: decoding: %w", err)
	}
	return img, nil
}

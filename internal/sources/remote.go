package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultRemoteTimeout bounds a remote fetch when the caller supplies no
// client.
const DefaultRemoteTimeout = 10 * time.Second

// RemotePayload is the body served by GET /api/blog.
type RemotePayload struct {
	Posts      []interfaces.Post `json:"posts"`
	Categories []string          `json:"categories"`
	Success    bool              `json:"success"`
}

// remoteEnvelope is the decode side of RemotePayload. Published stays a
// pointer so an omitted field keeps its published-by-default meaning.
type remoteEnvelope struct {
	Posts   []remotePost `json:"posts"`
	Success bool         `json:"success"`
}

type remotePost struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Author        string   `json:"author"`
	Date          string   `json:"date"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	ReadTime      string   `json:"readTime"`
	Published     *bool    `json:"published"`
	FeaturedImage string   `json:"featuredImage"`
}

// RemoteConfig configures RemoteSource.
type RemoteConfig struct {
	// BaseURL is the site root; the source requests BaseURL + "/api/blog".
	BaseURL string
	// Client defaults to an http.Client with DefaultRemoteTimeout.
	Client *http.Client
}

// RemoteSource loads posts from another instance's listing endpoint.
type RemoteSource struct {
	endpoint string
	client   *http.Client
	options  options
}

var _ interfaces.PostSource = (*RemoteSource)(nil)

// NewRemoteSource builds a source fetching from cfg.BaseURL.
func NewRemoteSource(cfg RemoteConfig, opts ...Option) *RemoteSource {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultRemoteTimeout}
	}
	return &RemoteSource{
		endpoint: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/api/blog",
		client:   client,
		options:  resolve(opts),
	}
}

func (s *RemoteSource) Name() string {
	return "remote"
}

// Load fetches and normalizes the remote listing. Any transport failure,
// non-2xx status, undecodable body or success=false is ErrSourceUnavailable.
func (s *RemoteSource) Load(ctx context.Context) ([]interfaces.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, unavailable(s.Name(), err, "build remote request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, unavailable(s.Name(), err, "fetch remote posts")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, unavailable(s.Name(), fmt.Errorf("status %d", resp.StatusCode), "fetch remote posts")
	}

	var payload remoteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, unavailable(s.Name(), err, "decode remote posts")
	}
	if !payload.Success {
		return nil, unavailable(s.Name(), errors.New("success=false"), "remote reported failure")
	}

	loaded := make([]interfaces.Post, 0, len(payload.Posts))
	for _, item := range payload.Posts {
		post, err := posts.Normalize(posts.RawPost{
			ID:            item.ID,
			Slug:          item.Slug,
			Title:         item.Title,
			Excerpt:       item.Excerpt,
			Content:       item.Content,
			Author:        item.Author,
			Date:          item.Date,
			Category:      item.Category,
			Tags:          item.Tags,
			ReadTime:      item.ReadTime,
			Published:     item.Published,
			FeaturedImage: item.FeaturedImage,
		}, s.options.normalize)
		if err != nil {
			s.options.logger.Warn("sources.record_skipped", "source", s.Name(), "slug", item.Slug, "error", err)
			continue
		}
		loaded = append(loaded, post)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSourceEmpty, s.Name())
	}
	return loaded, nil
}

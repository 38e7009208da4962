package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/posts"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("preview: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("preview", flag.ContinueOnError)
	var (
		contentDir = flags.String("content-dir", "", "Directory of Markdown posts (defaults to the embedded dataset)")
		slug       = flags.String("slug", "", "Render a single post by slug")
		search     = flags.String("search", "", "Search term for the listing")
		category   = flags.String("category", "", "Category filter for the listing")
		tag        = flags.String("tag", "", "Tag filter for the listing")
		pages      = flags.Int("pages", 1, "Number of listing pages to show")
		asJSON     = flags.Bool("json", false, "Emit JSON instead of text")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := bootstrap.DefaultPreviewConfig()
	module, err := moduleBuilder(cfg, bootstrap.Options{ContentDir: *contentDir})
	if err != nil {
		return err
	}
	defer module.Module.Close()

	if strings.TrimSpace(*slug) != "" {
		return renderPost(ctx, module, *slug, *asJSON, out)
	}

	values := url.Values{}
	for key, value := range map[string]string{"search": *search, "category": *category, "tag": *tag} {
		if value != "" {
			values.Set(key, value)
		}
	}
	controller := module.Module.Controller(ctx)
	controller.Restore(values)
	controller.ShowPages(*pages)

	if *asJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"posts":   controller.VisiblePosts(),
			"total":   controller.TotalFilteredCount(),
			"hasMore": controller.HasMore(),
			"state":   controller.State(),
		})
	}

	if controller.Empty() {
		fmt.Fprintln(out, "No articles found.")
		return nil
	}
	for _, post := range controller.VisiblePosts() {
		fmt.Fprintf(out, "%s  %-40s  %s [%s]\n", post.Date, post.Slug, post.Title, post.Category)
	}
	fmt.Fprintf(out, "\nShowing %d of %d", len(controller.VisiblePosts()), controller.TotalFilteredCount())
	if shared := controller.Shareable().Encode(); shared != "" {
		fmt.Fprintf(out, " (?%s)", shared)
	}
	fmt.Fprintln(out)
	return nil
}

func renderPost(ctx context.Context, module *bootstrap.Module, slug string, asJSON bool, out io.Writer) error {
	post, err := module.Module.Post(ctx, slug)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			return fmt.Errorf("post %q not found", slug)
		}
		return err
	}
	html, err := module.Module.Render(ctx, post.Content)
	if err != nil {
		return err
	}
	related := module.Module.Posts(ctx).Related(post, module.Module.Container().Config.Listing.RelatedLimit)

	if asJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"post":    post,
			"html":    html,
			"related": related,
		})
	}

	fmt.Fprintf(out, "Title: %s\nAuthor: %s\nDate: %s\nCategory: %s\nTags: %s\n\n%s\n",
		post.Title, post.Author, post.Date, post.Category, strings.Join(post.Tags, ", "), html)
	if len(related) > 0 {
		fmt.Fprintln(out, "Related:")
		for _, item := range related {
			fmt.Fprintf(out, "  - %s (%s)\n", item.Title, item.Slug)
		}
	}
	return nil
}

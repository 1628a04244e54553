package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/cabinet/pkg/config"
	"github.com/shishobooks/cabinet/pkg/database"
	"github.com/shishobooks/cabinet/pkg/folders"
	"github.com/shishobooks/cabinet/pkg/highlight"
	"github.com/shishobooks/cabinet/pkg/search"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		UserID    int      `short:"u" long:"user-id" description:"Owner whose files are searched" required:"true"`
		Query     string   `short:"q" long:"query" description:"Free-text query"`
		Type      string   `short:"t" long:"type" description:"image, video, or document"`
		FolderID  string   `short:"f" long:"folder-id" description:"Restrict to a folder"`
		Tags      []string `long:"tag" description:"Tag id the file must carry (repeatable)"`
		MinSize   string   `long:"min-size" description:"Minimum size in bytes"`
		MaxSize   string   `long:"max-size" description:"Maximum size in bytes"`
		StartDate string   `long:"start-date" description:"Earliest creation date (YYYY-MM-DD or RFC 3339)"`
		EndDate   string   `long:"end-date" description:"Latest creation date (YYYY-MM-DD or RFC 3339)"`
		SortBy    string   `long:"sort-by" description:"relevance, name, createdAt, or size"`
		SortOrder string   `long:"sort-order" description:"asc or desc"`
		Page      string   `short:"p" long:"page" description:"Page number"`
		Limit     string   `short:"l" long:"limit" description:"Page size"`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	folderService := folders.NewService(db, folders.Options{
		CacheSize: cfg.FolderCacheSize,
		CacheTTL:  cfg.FolderCacheTTL,
		MaxDepth:  cfg.MaxFolderDepth,
	})
	pipeline := search.NewPipeline(cfg.RankingWeights(), highlight.New(cfg.HighlightOpen, cfg.HighlightClose))
	searchService, err := search.NewService(db, folderService, pipeline, 1)
	if err != nil {
		log.Err(err).Fatal("search service error")
	}
	defer searchService.Close()

	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("q", opts.Query)
	set("type", opts.Type)
	set("folderId", opts.FolderID)
	set("minSize", opts.MinSize)
	set("maxSize", opts.MaxSize)
	set("startDate", opts.StartDate)
	set("endDate", opts.EndDate)
	set("sortBy", opts.SortBy)
	set("sortOrder", opts.SortOrder)
	set("page", opts.Page)
	set("limit", opts.Limit)
	for _, tag := range opts.Tags {
		params.Add("tags", tag)
	}

	resp, err := searchService.Search(ctx, opts.UserID, params)
	if err != nil {
		log.Err(err).Fatal("search error")
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Err(err).Fatal("marshal error")
	}
	fmt.Println(string(out))
}

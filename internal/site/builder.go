// Package site builds the static blog: one HTML page per post under posts/
// and the index page at the site root.
package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/venlacy0/venblog/internal/config"
	"github.com/venlacy0/venblog/internal/eventstore"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/logfields"
	"github.com/venlacy0/venblog/internal/markdown"
	"github.com/venlacy0/venblog/internal/metrics"
	"github.com/venlacy0/venblog/internal/templates"
)

// Stage is a step of a build.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageScanning  Stage = "scanning"
	StageRendering Stage = "rendering_posts"
	StageIndex     Stage = "rendering_index"
	StageDone      Stage = "done"
	StageFailed    Stage = "failed"
)

// IndexFile is the index page written at the site root.
const IndexFile = "index.html"

const filePerm = 0o644

// Builder runs builds for one site root. The zero values of Renderer,
// Recorder and Logger select the default Markdown renderer, no metrics and
// slog.Default. When History is set every finished build is appended to it.
//
// Config must be loaded by the caller before Build so that a malformed
// config file aborts before anything under Root is written.
type Builder struct {
	Root     string
	Config   config.SiteConfig
	Renderer markdown.Renderer
	Recorder metrics.Recorder
	Logger   *slog.Logger
	History  eventstore.Store
}

// run holds per-build state.
type run struct {
	b        *Builder
	id       string
	logger   *slog.Logger
	renderer markdown.Renderer
	recorder metrics.Recorder
	stage    Stage
	entered  time.Time
}

func (r *run) enter(ctx context.Context, next Stage) {
	now := time.Now()
	if r.stage != StageIdle {
		r.recorder.ObserveStageDuration(string(r.stage), now.Sub(r.entered))
		if next != StageFailed {
			r.recorder.IncStageResult(string(r.stage), metrics.ResultSuccess)
		} else {
			r.recorder.IncStageResult(string(r.stage), metrics.ResultFatal)
		}
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "Build stage", logfields.Stage(string(next)))
	r.stage = next
	r.entered = now
}

// Build renders every post and the index page. Any per-post failure aborts
// the build; pages written earlier in the same build are left in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	r := &run{
		b:        b,
		id:       uuid.NewString(),
		renderer: b.Renderer,
		recorder: b.Recorder,
		stage:    StageIdle,
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r.logger = logger.With(logfields.BuildID(r.id))
	if r.renderer == nil {
		r.renderer = markdown.NewRenderer(markdown.DefaultOptions())
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}

	posts, err := r.execute(ctx)
	duration := time.Since(start)
	r.recorder.ObserveBuildDuration(duration)
	if err != nil {
		failedAt := r.stage
		r.enter(ctx, StageFailed)
		r.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		r.record(ctx, eventstore.BuildRecord{
			BuildID:   r.id,
			StartedAt: start,
			Duration:  duration,
			Outcome:   eventstore.OutcomeFailed,
			Stage:     string(failedAt),
			Error:     err.Error(),
		})
		return nil, err
	}
	r.enter(ctx, StageDone)
	r.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	r.recorder.SetPostsRendered(len(posts))
	r.record(ctx, eventstore.BuildRecord{
		BuildID:   r.id,
		StartedAt: start,
		Duration:  duration,
		Posts:     len(posts),
		Outcome:   eventstore.OutcomeSuccess,
	})

	return &Result{BuildID: r.id, Posts: posts, Duration: duration}, nil
}

// record appends to the build history. History is best effort: a failing
// store never fails the build.
func (r *run) record(ctx context.Context, rec eventstore.BuildRecord) {
	if r.b.History == nil {
		return
	}
	if err := r.b.History.Append(ctx, rec); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to record build history", logfields.Error(err))
	}
}

func (r *run) execute(ctx context.Context) ([]Post, error) {
	postsDir := filepath.Join(r.b.Root, PostsDir)

	r.enter(ctx, StageScanning)
	names, exists, err := scanSources(postsDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "Posts directory not found; nothing to build", logfields.Path(postsDir))
		return []Post{}, nil
	}
	if len(names) == 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "No posts found", logfields.Path(postsDir))
	}

	r.enter(ctx, StageRendering)
	posts := make([]Post, 0, len(names))
	for _, name := range names {
		post, err := r.renderPost(ctx, postsDir, name)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	r.enter(ctx, StageIndex)
	SortPosts(posts)
	if err := r.renderIndex(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *run) renderPost(ctx context.Context, postsDir, name string) (Post, error) {
	src := filepath.Join(postsDir, name)
	raw, err := os.ReadFile(src)
	if err != nil {
		return Post{}, errors.PostRenderError("cannot read post").
			WithCause(err).
			WithContext("path", src).
			Build()
	}

	post, _, cleaned := parseSource(name, string(raw))
	body, err := r.renderer.Render(cleaned)
	if err != nil {
		return Post{}, errors.PostRenderError("markdown conversion failed").
			WithCause(err).
			WithContext("slug", post.Slug).
			Build()
	}

	page, err := templates.RenderPost(templates.PostPage{
		Slug:        post.Slug,
		Title:       post.Title,
		Date:        post.Date,
		Tags:        post.Tags,
		ReadingTime: post.ReadingTime,
		BodyHTML:    body,
	}, r.b.Config)
	if err != nil {
		return Post{}, errors.PostRenderError("post page template failed").
			WithCause(err).
			WithContext("slug", post.Slug).
			Build()
	}

	out := filepath.Join(postsDir, post.Slug+".html")
	if err := os.WriteFile(out, []byte(page), filePerm); err != nil {
		return Post{}, errors.WriteError("cannot write post page").
			WithCause(err).
			WithContext("path", out).
			Build()
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "Rendered post",
		logfields.Slug(post.Slug),
		logfields.Path(filepath.ToSlash(filepath.Join(PostsDir, post.Slug+".html"))))
	return post, nil
}

func (r *run) renderIndex(ctx context.Context, posts []Post) error {
	entries := make([]templates.IndexPost, len(posts))
	for i, p := range posts {
		entries[i] = templates.IndexPost{
			Slug:        p.Slug,
			Title:       p.Title,
			Date:        p.Date,
			Tags:        p.Tags,
			ReadingTime: p.ReadingTime,
		}
	}

	page, err := templates.RenderIndex(entries, r.b.Config)
	if err != nil {
		return errors.PostRenderError("index page template failed").WithCause(err).Build()
	}
	out := filepath.Join(r.b.Root, IndexFile)
	if err := os.WriteFile(out, []byte(page), filePerm); err != nil {
		return errors.WriteError("cannot write index page").
			WithCause(err).
			WithContext("path", out).
			Build()
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "Generated index", logfields.Posts(len(posts)))
	return nil
}

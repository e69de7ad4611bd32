// Package scaffold creates new sites and new posts.
package scaffold

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/venlacy0/venblog/internal/config"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/frontmatter"
	"github.com/venlacy0/venblog/internal/site"
)

//go:embed assets/*
var assetsFS embed.FS

// SamplePost is the file name of the post written by Init.
const SamplePost = "你好世界.md"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// siteAssets are copied verbatim to the site root.
var siteAssets = []string{"styles.css", "main.js", "post.js", "theme.js", "i18n.js", "math.js"}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type scaffoldFile struct {
	rel  string
	data []byte
}

// InitResult lists the site-root relative files Init wrote or left alone.
type InitResult struct {
	Root    string
	Created []string
	Skipped []string
}

// Init scaffolds a site at root: posts directory, sample post, .gitignore,
// default config and the default assets. Existing files are kept. A root
// that already holds a config file is refused.
func Init(root string, now time.Time) (*InitResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.FileSystemError("cannot resolve target directory").WithCause(err).Build()
	}
	if p, ok := config.Find(abs); ok {
		return nil, errors.ValidationError("directory is already a venblog site").
			WithContext("config", p).
			Build()
	}
	if err := os.MkdirAll(filepath.Join(abs, site.PostsDir), dirPerm); err != nil {
		return nil, errors.FileSystemError("cannot create posts directory").
			WithCause(err).
			WithContext("path", abs).
			Build()
	}

	cfg, err := json.MarshalIndent(config.Defaults(), "", "  ")
	if err != nil {
		return nil, errors.InternalError("cannot encode default config").WithCause(err).Build()
	}
	sample, err := assetsFS.ReadFile("assets/sample.md")
	if err != nil {
		return nil, errors.InternalError("missing embedded sample post").WithCause(err).Build()
	}
	gitignore, err := assetsFS.ReadFile("assets/gitignore")
	if err != nil {
		return nil, errors.InternalError("missing embedded .gitignore").WithCause(err).Build()
	}

	files := []scaffoldFile{
		{filepath.ToSlash(filepath.Join(site.PostsDir, SamplePost)), []byte(strings.ReplaceAll(string(sample), "{date}", now.Format(time.DateOnly)))},
		{".gitignore", gitignore},
		{config.DefaultFileName, append(cfg, '\n')},
	}
	for _, name := range siteAssets {
		data, err := fs.ReadFile(assetsFS, "assets/"+name)
		if err != nil {
			return nil, errors.InternalError("missing embedded asset").WithCause(err).WithContext("asset", name).Build()
		}
		files = append(files, scaffoldFile{name, data})
	}

	res := &InitResult{Root: abs}
	for _, f := range files {
		created, err := writeIfMissing(filepath.Join(abs, filepath.FromSlash(f.rel)), f.data)
		if err != nil {
			return nil, err
		}
		if created {
			res.Created = append(res.Created, f.rel)
		} else {
			res.Skipped = append(res.Skipped, f.rel)
		}
	}
	return res, nil
}

func writeIfMissing(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) // #nosec G304 -- path is under the target root
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, errors.WriteError("cannot create file").WithCause(err).WithContext("path", path).Build()
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return false, errors.WriteError("cannot write file").WithCause(err).WithContext("path", path).Build()
	}
	if err := f.Close(); err != nil {
		return false, errors.WriteError("cannot write file").WithCause(err).WithContext("path", path).Build()
	}
	return true, nil
}

// NewPostOptions configures NewPost. An empty Date means today.
type NewPostOptions struct {
	Tags []string
	Date string
	Now  time.Time
}

// SplitTags splits a comma separated tag list, dropping blanks.
func SplitTags(s string) []string {
	var tags []string
	for t := range strings.SplitSeq(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NewPost writes posts/<title>.md under root with a header and a level-one
// heading, returning its path. It never overwrites an existing file.
func NewPost(root, title string, opts NewPostOptions) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.ValidationError("post title is required").Build()
	}
	if strings.ContainsAny(title, `/\`) || title == "." || title == ".." || strings.HasPrefix(title, ".") {
		return "", errors.ValidationError("post title cannot be used as a file name").
			WithContext("title", title).
			Build()
	}

	date := opts.Date
	if date == "" {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		date = now.Format(time.DateOnly)
	}
	if !datePattern.MatchString(date) {
		return "", errors.ValidationError("date must be YYYY-MM-DD").WithContext("date", date).Build()
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", errors.ValidationError("date is not a calendar date").WithCause(err).WithContext("date", date).Build()
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	header := frontmatter.Format(frontmatter.FrontMatter{
		Fields:  map[string]string{"title": title, "date": date},
		Tags:    tags,
		HasTags: true,
	})
	content := fmt.Sprintf("%s\n# %s\n\n", header, title)

	postsDir := filepath.Join(root, site.PostsDir)
	if err := os.MkdirAll(postsDir, dirPerm); err != nil {
		return "", errors.FileSystemError("cannot create posts directory").WithCause(err).WithContext("path", postsDir).Build()
	}
	path := filepath.Join(postsDir, title+".md")
	created, err := writeIfMissing(path, []byte(content))
	if err != nil {
		return "", err
	}
	if !created {
		return "", errors.ValidationError("post already exists").WithContext("path", path).Build()
	}
	return path, nil
}

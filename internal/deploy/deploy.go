// Package deploy publishes a built site by committing it to the site's git
// repository and pushing to a remote.
package deploy

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/logfields"
)

const (
	DefaultRemote = "origin"
	// TokenEnv names the environment variable holding an HTTPS push token.
	TokenEnv = "VENBLOG_GIT_TOKEN"

	fallbackName  = "venblog"
	fallbackEmail = "venblog@localhost"
)

// Options configures Run. Build is called after the repository checks and
// before anything is staged.
type Options struct {
	Root    string
	Remote  string
	Message string
	Token   string
	Build   func(ctx context.Context) error
	Logger  *slog.Logger
	Now     func() time.Time
}

// Result reports what Run did.
type Result struct {
	// Commit is empty when there was nothing to deploy.
	Commit  string
	Message string
	Clean   bool
}

// DefaultMessage is the commit message used when none is given.
func DefaultMessage(now time.Time) string {
	return "deploy: " + now.Format(time.DateOnly)
}

// Run builds the site, then stages every change, commits and pushes. When
// the build leaves the worktree clean nothing is committed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Remote == "" {
		opts.Remote = DefaultRemote
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	repo, err := git.PlainOpenWithOptions(opts.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.GitError("site root is not a git repository").
				WithContext("path", opts.Root).
				WithContext("hint", "git init && git remote add origin <url>").
				Build()
		}
		return nil, errors.GitError("cannot open git repository").WithCause(err).WithContext("path", opts.Root).Build()
	}
	remote, err := repo.Remote(opts.Remote)
	if err != nil {
		return nil, errors.GitError("git remote is not configured").
			WithCause(err).
			WithContext("remote", opts.Remote).
			Build()
	}
	auth, err := authFor(remote.Config(), opts.Token)
	if err != nil {
		return nil, err
	}

	if opts.Build != nil {
		opts.Logger.Info("Building site before deploy")
		if err := opts.Build(ctx); err != nil {
			return nil, err
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.GitError("repository has no worktree").WithCause(err).Build()
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.GitError("git status failed").WithCause(err).Build()
	}
	message := opts.Message
	if message == "" {
		message = DefaultMessage(opts.Now())
	}
	if status.IsClean() {
		opts.Logger.Info("Nothing to deploy")
		return &Result{Message: message, Clean: true}, nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, errors.GitError("git add failed").WithCause(err).Build()
	}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: signature(repo, opts.Now())})
	if err != nil {
		return nil, errors.GitError("git commit failed").WithCause(err).Build()
	}
	opts.Logger.Info("Committed site", "commit", hash.String()[:7], "message", message)

	opts.Logger.Info("Pushing to remote", "remote", opts.Remote)
	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: opts.Remote, Auth: auth})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, errors.GitError("git push failed").
			WithCause(err).
			WithContext("remote", opts.Remote).
			Build()
	}
	opts.Logger.Info("Deploy complete", logfields.Reason(message))
	return &Result{Commit: hash.String(), Message: message}, nil
}

// authFor returns token auth for HTTP(S) remotes. Other transports use their
// own credentials.
func authFor(rc *gitconfig.RemoteConfig, token string) (transport.AuthMethod, error) {
	if token == "" || len(rc.URLs) == 0 {
		return nil, nil
	}
	ep, err := transport.NewEndpoint(rc.URLs[0])
	if err != nil {
		return nil, errors.GitError("invalid remote URL").WithCause(err).WithContext("remote", rc.Name).Build()
	}
	if ep.Protocol != "http" && ep.Protocol != "https" {
		return nil, nil
	}
	// Most Git hosting services use "token" as the username for token auth.
	return &http.BasicAuth{Username: "token", Password: token}, nil
}

func signature(repo *git.Repository, when time.Time) *object.Signature {
	sig := &object.Signature{Name: fallbackName, Email: fallbackEmail, When: when}
	cfg, err := repo.ConfigScoped(gitconfig.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

package enrich

import (
	"context"
	"errors"

	githubapi "github.com/devsidequests/participants/internal/github_api"
)

var errBoom = errors.New("boom")

// fakeGitHub serves canned responses and counts calls per method.
type fakeGitHub struct {
	users    map[string]*githubapi.UserResponse
	repos    map[string][]githubapi.RepoResponse
	searches map[string][]githubapi.RepoResponse

	failUser   map[string]bool
	failRepos  map[string]bool
	failSearch map[string]bool

	calls map[string]int
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		users:      make(map[string]*githubapi.UserResponse),
		repos:      make(map[string][]githubapi.RepoResponse),
		searches:   make(map[string][]githubapi.RepoResponse),
		failUser:   make(map[string]bool),
		failRepos:  make(map[string]bool),
		failSearch: make(map[string]bool),
		calls:      make(map[string]int),
	}
}

func (f *fakeGitHub) GetUser(_ context.Context, login string) (*githubapi.UserResponse, error) {
	f.calls["GetUser"]++
	if f.failUser[login] {
		return nil, errBoom
	}
	if u, ok := f.users[login]; ok {
		return u, nil
	}
	return nil, githubapi.ErrNotFound
}

func (f *fakeGitHub) ListUserRepos(_ context.Context, login string) ([]githubapi.RepoResponse, error) {
	f.calls["ListUserRepos"]++
	if f.failRepos[login] {
		return nil, errBoom
	}
	return f.repos[login], nil
}

func (f *fakeGitHub) SearchRepos(_ context.Context, q string) ([]githubapi.RepoResponse, error) {
	f.calls["SearchRepos"]++
	if f.failSearch[q] {
		return nil, errBoom
	}
	return f.searches[q], nil
}

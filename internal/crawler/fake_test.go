package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	githubapi "github.com/devsidequests/participants/internal/github_api"
)

var errBoom = errors.New("boom")

type fakeGitHub struct {
	forks    []githubapi.RepoResponse
	users    map[string]*githubapi.UserResponse
	repos    map[string][]githubapi.RepoResponse
	searches map[string][]githubapi.RepoResponse
	created  map[string]time.Time
	quests   []githubapi.ContentResponse

	failForks bool
	failUser  map[string]bool
	failDir   bool

	calls map[string]int
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		users:    make(map[string]*githubapi.UserResponse),
		repos:    make(map[string][]githubapi.RepoResponse),
		searches: make(map[string][]githubapi.RepoResponse),
		created:  make(map[string]time.Time),
		failUser: make(map[string]bool),
		calls:    make(map[string]int),
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
	return f.repos[login], nil
}

func (f *fakeGitHub) SearchRepos(_ context.Context, q string) ([]githubapi.RepoResponse, error) {
	f.calls["SearchRepos"]++
	return f.searches[q], nil
}

func (f *fakeGitHub) GetRepo(_ context.Context, owner, repo string) (*githubapi.RepoResponse, error) {
	f.calls["GetRepo"]++
	created, ok := f.created[owner+"/"+repo]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", owner, repo, githubapi.ErrNotFound)
	}
	return &githubapi.RepoResponse{Name: repo, FullName: owner + "/" + repo, CreatedAt: created}, nil
}

func (f *fakeGitHub) ListForks(_ context.Context, _, _ string) ([]githubapi.RepoResponse, error) {
	f.calls["ListForks"]++
	if f.failForks {
		return nil, errBoom
	}
	return f.forks, nil
}

func (f *fakeGitHub) ListDirectory(_ context.Context, _, _, _ string) ([]githubapi.ContentResponse, error) {
	f.calls["ListDirectory"]++
	if f.failDir {
		return nil, errBoom
	}
	return f.quests, nil
}

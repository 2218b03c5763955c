// DTOs for the parts of the GitHub REST responses we read.

package githubapi

import "time"

type Owner struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type UserResponse struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type RepoResponse struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Owner     Owner     `json:"owner"`
	HTMLURL   string    `json:"html_url"`
	Fork      bool      `json:"fork"`
	Language  string    `json:"language"`
	Topics    []string  `json:"topics"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SearchResponse struct {
	TotalCount        int            `json:"total_count"`
	IncompleteResults bool           `json:"incomplete_results"`
	Items             []RepoResponse `json:"items"`
}

type ContentResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

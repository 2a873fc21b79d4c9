package synology

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// SearchModuleEnabled searches every enabled module.
const SearchModuleEnabled = "enabled"

// SearchModules lists the BT search engine plugins.
func (s *Session) SearchModules(ctx context.Context) ([]SearchModule, error) {
	var data struct {
		Modules []SearchModule `json:"modules"`
	}
	if err := s.call(ctx, APIBTSearch, 1, "getModule", nil, &data); err != nil {
		return nil, err
	}
	return data.Modules, nil
}

// SearchCategories lists the BT search categories.
func (s *Session) SearchCategories(ctx context.Context) ([]SearchCategory, error) {
	var data struct {
		Categories []SearchCategory `json:"categories"`
	}
	if err := s.call(ctx, APIBTSearch, 1, "getCategory", nil, &data); err != nil {
		return nil, err
	}
	return data.Categories, nil
}

// StartSearch starts an asynchronous search and returns its task id.
// An empty module searches every enabled module.
func (s *Session) StartSearch(ctx context.Context, keyword, module string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", errors.New("search keyword is required")
	}
	if module == "" {
		module = SearchModuleEnabled
	}

	var data struct {
		TaskID ID `json:"taskid"`
	}
	params := url.Values{
		"keyword": {keyword},
		"module":  {module},
	}
	if err := s.call(ctx, APIBTSearch, 1, "start", params, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", errors.New("search started without a task id")
	}

	s.client.logger.Debug().Str("keyword", keyword).Str("task_id", string(data.TaskID)).Msg("Started BT search")
	return string(data.TaskID), nil
}

// SearchListOptions configures Session.SearchResults.
type SearchListOptions struct {
	Offset         int
	Limit          int
	SortBy         string
	SortDirection  string
	FilterCategory string
}

// SearchResults returns the results collected so far for a search task.
func (s *Session) SearchResults(ctx context.Context, taskID string, opts SearchListOptions) (*SearchResults, error) {
	params := url.Values{
		"taskid": {taskID},
		"offset": {strconv.Itoa(opts.Offset)},
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if opts.SortDirection != "" {
		params.Set("sort_direction", strings.ToUpper(opts.SortDirection))
	}
	if opts.FilterCategory != "" {
		params.Set("filter_category", opts.FilterCategory)
	}

	var results SearchResults
	if err := s.call(ctx, APIBTSearch, 1, "list", params, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// CleanSearch deletes a search task and its results on the server.
func (s *Session) CleanSearch(ctx context.Context, taskID string) error {
	return s.call(ctx, APIBTSearch, 1, "clean", url.Values{"taskid": {taskID}}, nil)
}

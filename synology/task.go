package synology

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TaskListOptions configures Session.ListTasks. Zero Offset and Limit leave
// paging to the server, which returns every task.
type TaskListOptions struct {
	Offset     int
	Limit      int
	Additional []string
}

// ListTasks lists download tasks.
func (s *Session) ListTasks(ctx context.Context, opts TaskListOptions) (*TaskList, error) {
	params := url.Values{}
	if opts.Offset > 0 || opts.Limit > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if len(opts.Additional) > 0 {
		params.Set("additional", strings.Join(opts.Additional, ","))
	}

	var list TaskList
	if err := s.call(ctx, APITask, 1, "list", params, &list); err != nil {
		return nil, err
	}

	s.client.logger.Debug().Int("total", list.Total).Int("returned", len(list.Tasks)).Msg("Retrieved download tasks")
	return &list, nil
}

// TaskInfo returns the named tasks with the requested additional blocks.
func (s *Session) TaskInfo(ctx context.Context, ids []string, additional ...string) ([]Task, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one task id is required")
	}

	params := url.Values{"id": {strings.Join(ids, ",")}}
	if len(additional) > 0 {
		params.Set("additional", strings.Join(additional, ","))
	}

	var data struct {
		Tasks []Task `json:"tasks"`
	}
	if err := s.call(ctx, APITask, 1, "getinfo", params, &data); err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// CreateTaskOptions configures Session.CreateTask.
type CreateTaskOptions struct {
	// URI is an HTTP, FTP, magnet or ed2k link.
	URI string
	// Destination is a shared-folder path; empty uses the user's default.
	Destination string
}

// CreateTask queues a new download.
func (s *Session) CreateTask(ctx context.Context, opts CreateTaskOptions) error {
	uri := strings.TrimSpace(opts.URI)
	if uri == "" {
		return errors.New("task uri is required")
	}

	params := url.Values{"uri": {uri}}
	if opts.Destination != "" {
		params.Set("destination", opts.Destination)
	}

	if err := s.call(ctx, APITask, 1, "create", params, nil); err != nil {
		return err
	}

	s.client.logger.Info().Str("uri", uri).Msg("Created download task")
	return nil
}

// Info returns the Download Station version and manager flag.
func (s *Session) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := s.call(ctx, APIDSInfo, 1, "getinfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Statistic returns the current transfer speeds. The Statistic API is
// resolved on first use when it was not part of the initial discovery.
func (s *Session) Statistic(ctx context.Context) (*Statistic, error) {
	if !s.client.HasAPI(APIStatistic) {
		if _, err := s.client.QueryAPIInfo(ctx, APIStatistic); err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", APIStatistic, err)
		}
	}

	var stat Statistic
	if err := s.call(ctx, APIStatistic, 1, "getinfo", nil, &stat); err != nil {
		return nil, err
	}
	return &stat, nil
}

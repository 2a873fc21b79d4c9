package synology

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStation is a minimal Download Station web API.
type fakeStation struct {
	t    *testing.T
	apis map[string]APIInfo

	mu       sync.Mutex
	requests []url.Values
	// replies by "api/method"; a missing entry answers {"success":true}
	replies map[string]any
	status  int
}

func newFakeStation(t *testing.T) *fakeStation {
	return &fakeStation{
		t: t,
		apis: map[string]APIInfo{
			APIInfoName:  {Path: "query.cgi", MinVersion: 1, MaxVersion: 1},
			APIAuth:      {Path: "auth.cgi", MinVersion: 1, MaxVersion: 3},
			APITask:      {Path: "DownloadStation/task.cgi", MinVersion: 1, MaxVersion: 3},
			APIDSInfo:    {Path: "DownloadStation/info.cgi", MinVersion: 1, MaxVersion: 2},
			APIStatistic: {Path: "DownloadStation/statistic.cgi", MinVersion: 1, MaxVersion: 1},
			APIBTSearch:  {Path: "DownloadStation/btsearch.cgi", MinVersion: 1, MaxVersion: 1},
		},
		replies: map[string]any{},
	}
}

func (f *fakeStation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f.mu.Lock()
	f.requests = append(f.requests, q)
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	api := q.Get("api")
	info, ok := f.apis[api]
	if !ok || r.URL.Path != "/webapi/"+info.Path {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": map[string]any{"code": 102}})
		return
	}

	if api == APIInfoName {
		found := map[string]APIInfo{}
		for _, name := range strings.Split(q.Get("query"), ",") {
			if entry, ok := f.apis[name]; ok {
				found[name] = entry
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": found})
		return
	}

	reply, ok := f.replies[api+"/"+q.Get("method")]
	if !ok {
		reply = map[string]any{"success": true}
	}
	if raw, ok := reply.(string); ok {
		_, _ = w.Write([]byte(raw))
		return
	}
	_ = json.NewEncoder(w).Encode(reply)
}

func (f *fakeStation) reply(api, method string, body any) {
	f.replies[api+"/"+method] = body
}

func (f *fakeStation) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeStation) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, station *fakeStation) *Client {
	t.Helper()
	server := httptest.NewServer(station)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, zerolog.Nop(), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return client
}

func loggedIn(t *testing.T, station *fakeStation, apis ...string) *Session {
	t.Helper()
	station.reply(APIAuth, "login", map[string]any{"success": true, "data": map[string]any{"sid": "sid-123"}})

	client := newTestClient(t, station)
	ctx := context.Background()
	_, err := client.QueryAPIInfo(ctx, append([]string{APIAuth}, apis...)...)
	require.NoError(t, err)

	session, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	return session
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "missing URL", baseURL: "", wantErr: true},
		{name: "no scheme", baseURL: "nas.local:5000", want: "http://nas.local:5000/webapi"},
		{name: "trailing slash", baseURL: "https://nas.local:5001/", want: "https://nas.local:5001/webapi"},
		{name: "already webapi", baseURL: "http://nas.local:5000/webapi/", want: "http://nas.local:5000/webapi"},
		{name: "drops query", baseURL: "http://nas.local:5000/?x=1#frag", want: "http://nas.local:5000/webapi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("nas:5000", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("nas:5000", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with insecure skip verify", func(t *testing.T) {
		client, err := NewClient("https://nas:5001", logger, WithInsecureSkipVerify(true))
		require.NoError(t, err)
		transport, ok := client.httpClient.Transport.(*http.Transport)
		require.True(t, ok)
		require.NotNil(t, transport.TLSClientConfig)
		assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	})

	t.Run("with user agent", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.UserAgent()
			_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger, WithUserAgent("dsctl/1.2.3"))
		require.NoError(t, err)
		_, err = client.QueryAPIInfo(context.Background(), APIAuth)
		require.NoError(t, err)
		assert.Equal(t, "dsctl/1.2.3", got)
	})

	t.Run("empty user agent keeps default", func(t *testing.T) {
		client, err := NewClient("nas:5000", logger, WithUserAgent(""))
		require.NoError(t, err)
		assert.Equal(t, defaultUserAgent, client.userAgent)
	})

	t.Run("with session name", func(t *testing.T) {
		client, err := NewClient("nas:5000", logger, WithSessionName("FileStation"))
		require.NoError(t, err)
		assert.Equal(t, "FileStation", client.sessionName)
	})
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://nas:5000/webapi", BaseURL("nas", 5000, false))
	assert.Equal(t, "https://nas:5001/webapi", BaseURL("nas", 5001, true))
}

func TestRequestQuery(t *testing.T) {
	params := url.Values{"uri": {"magnet:?xt=urn:btih:abc"}}
	r := request{api: APITask, version: 1, method: "create", params: params, sid: "sid-1"}

	q := r.query()
	assert.Equal(t, APITask, q.Get("api"))
	assert.Equal(t, "1", q.Get("version"))
	assert.Equal(t, "create", q.Get("method"))
	assert.Equal(t, "sid-1", q.Get("_sid"))
	assert.Equal(t, "magnet:?xt=urn:btih:abc", q.Get("uri"))
	assert.Len(t, params, 1, "operation params must not be mutated")

	r.sid = ""
	assert.False(t, r.query().Has("_sid"))
}

func TestQueryAPIInfo(t *testing.T) {
	station := newFakeStation(t)
	client := newTestClient(t, station)

	found, err := client.QueryAPIInfo(context.Background(), APIAuth, APITask, "SYNO.Missing")
	require.NoError(t, err)

	q := station.last()
	assert.Equal(t, APIInfoName, q.Get("api"))
	assert.Equal(t, "query", q.Get("method"))
	assert.Equal(t, "1", q.Get("version"))
	assert.Equal(t, "SYNO.API.Auth,SYNO.DownloadStation.Task,SYNO.Missing", q.Get("query"))

	assert.Len(t, found, 2)
	assert.Equal(t, "auth.cgi", found[APIAuth].Path)
	assert.True(t, client.HasAPI(APITask))
	assert.False(t, client.HasAPI(APIBTSearch))
	assert.Equal(t, []string{APIAuth, APITask}, client.APINames())
}

func TestCallWithoutDiscovery(t *testing.T) {
	station := newFakeStation(t)
	client := newTestClient(t, station)

	_, err := client.Login(context.Background(), "admin", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPINotAvailable)
	assert.Zero(t, station.count(), "no request may be sent for an undiscovered API")
}

func TestLoginAndLogout(t *testing.T) {
	station := newFakeStation(t)
	session := loggedIn(t, station)
	ctx := context.Background()

	assert.Equal(t, "sid-123", session.SID())
	assert.Equal(t, "admin", session.Account())

	station.mu.Lock()
	login := station.requests[len(station.requests)-1]
	station.mu.Unlock()
	assert.Equal(t, "login", login.Get("method"))
	assert.Equal(t, "3", login.Get("version"))
	assert.Equal(t, "admin", login.Get("account"))
	assert.Equal(t, "secret", login.Get("passwd"))
	assert.Equal(t, DefaultSessionName, login.Get("session"))
	assert.Equal(t, "sid", login.Get("format"))
	assert.False(t, login.Has("_sid"))

	require.NoError(t, session.Logout(ctx))
	logout := station.last()
	assert.Equal(t, "logout", logout.Get("method"))
	assert.Equal(t, "1", logout.Get("version"))
	assert.Equal(t, DefaultSessionName, logout.Get("session"))
	assert.Equal(t, "sid-123", logout.Get("_sid"))
	assert.Empty(t, session.SID())

	assert.ErrorIs(t, session.Logout(ctx), ErrNoSession)
	_, err := session.ListTasks(ctx, TaskListOptions{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginVersionClampedToDiscoveredRange(t *testing.T) {
	station := newFakeStation(t)
	station.apis[APIAuth] = APIInfo{Path: "auth.cgi", MinVersion: 1, MaxVersion: 2}

	loggedIn(t, station)
	assert.Equal(t, "2", station.last().Get("version"))
}

func TestLoginWithVersion(t *testing.T) {
	tests := []struct {
		name    string
		version int
		want    string
	}{
		{name: "in range", version: 2, want: "2"},
		{name: "above range", version: 6, want: "3"},
		{name: "below range", version: 0, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := newFakeStation(t)
			station.reply(APIAuth, "login", `{"success":true,"data":{"sid":"abc"}}`)
			client := newTestClient(t, station)
			ctx := context.Background()

			_, err := client.QueryAPIInfo(ctx, APIAuth)
			require.NoError(t, err)

			session, err := client.LoginWithVersion(ctx, tt.version, "admin", "secret")
			require.NoError(t, err)
			assert.Equal(t, "abc", session.SID())
			assert.Equal(t, "login", station.last().Get("method"))
			assert.Equal(t, tt.want, station.last().Get("version"))
		})
	}
}

func TestLoginFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "bare code", body: `{"success":false,"error":400}`, message: "No such account or incorrect password"},
		{name: "object code", body: `{"success":false,"error":{"code":403}}`, message: "2-step verification code required"},
		{name: "common code", body: `{"success":false,"error":{"code":105}}`, message: "The logged in session does not have permission"},
		{name: "no error field", body: `{"success":false}`, message: "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := newFakeStation(t)
			station.reply(APIAuth, "login", tt.body)
			client := newTestClient(t, station)
			ctx := context.Background()

			_, err := client.QueryAPIInfo(ctx, APIAuth)
			require.NoError(t, err)

			_, err = client.Login(ctx, "admin", "wrong")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.message, apiErr.Message())
			assert.Equal(t, "login", apiErr.Method)
		})
	}
}

func TestLoginWithoutSID(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APIAuth, "login", `{"success":true,"data":{}}`)
	client := newTestClient(t, station)
	ctx := context.Background()

	_, err := client.QueryAPIInfo(ctx, APIAuth)
	require.NoError(t, err)

	_, err = client.Login(ctx, "admin", "secret")
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestListTasks(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APITask, "list", `{"success":true,"data":{"total":2,"offset":0,"tasks":[
		{"id":"dbid_1","type":"bt","username":"admin","title":"ubuntu.iso","size":"2147483648","status":"downloading",
		 "additional":{"transfer":{"size_downloaded":1073741824,"size_uploaded":"0","speed_download":2097152,"speed_upload":0},
		               "detail":{"destination":"downloads","uri":"magnet:?xt=1","create_time":1700000000}}},
		{"id":"dbid_2","type":"http","username":"admin","title":"dummy.pdf","size":13264,"status":"finished"}
	]}}`)
	session := loggedIn(t, station, APITask)

	list, err := session.ListTasks(context.Background(), TaskListOptions{
		Limit:      5,
		Additional: []string{AdditionalDetail, AdditionalTransfer},
	})
	require.NoError(t, err)

	q := station.last()
	assert.Equal(t, APITask, q.Get("api"))
	assert.Equal(t, "list", q.Get("method"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "detail,transfer", q.Get("additional"))
	assert.Equal(t, "sid-123", q.Get("_sid"))

	require.Len(t, list.Tasks, 2)
	assert.Equal(t, 2, list.Total)

	first := list.Tasks[0]
	assert.Equal(t, Bytes(2147483648), first.Size)
	assert.Equal(t, TaskStatusDownloading, first.Status)
	require.NotNil(t, first.Additional)
	require.NotNil(t, first.Additional.Transfer)
	assert.Equal(t, Bytes(2097152), first.Additional.Transfer.SpeedDownload)
	assert.Equal(t, "downloads", first.Additional.Detail.Destination)
	assert.Equal(t, int64(1700000000), first.Additional.Detail.CreateTime.Time().Unix())
	assert.InDelta(t, 0.5, first.Progress(), 0.0001)

	assert.Nil(t, list.Tasks[1].Additional)
	assert.Zero(t, list.Tasks[1].Progress())
}

func TestListTasksWithoutPaging(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APITask, "list", `{"success":true,"data":{"total":0,"offset":0,"tasks":[]}}`)
	session := loggedIn(t, station, APITask)

	list, err := session.ListTasks(context.Background(), TaskListOptions{Additional: []string{AdditionalTransfer}})
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)

	q := station.last()
	assert.False(t, q.Has("offset"))
	assert.False(t, q.Has("limit"))
}

func TestTaskInfo(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APITask, "getinfo", `{"success":true,"data":{"tasks":[{"id":"dbid_1","title":"a","size":10,"status":"paused",
		"additional":{"file":[{"filename":"a.bin","size":10,"size_downloaded":5,"priority":"normal"}],
		"tracker":[{"url":"udp://t","status":"Success","update_timer":30,"seeds":3,"peers":4}],
		"peer":[{"address":"1.2.3.4","agent":"qB","progress":0.5,"speed_download":10,"speed_upload":2}]}}]}}`)
	session := loggedIn(t, station, APITask)

	tasks, err := session.TaskInfo(context.Background(), []string{"dbid_1", "dbid_2"}, AdditionalFile, AdditionalTracker, AdditionalPeer)
	require.NoError(t, err)

	q := station.last()
	assert.Equal(t, "getinfo", q.Get("method"))
	assert.Equal(t, "dbid_1,dbid_2", q.Get("id"))
	assert.Equal(t, "file,tracker,peer", q.Get("additional"))

	require.Len(t, tasks, 1)
	add := tasks[0].Additional
	require.NotNil(t, add)
	assert.Equal(t, "a.bin", add.Files[0].Filename)
	assert.Equal(t, 3, add.Trackers[0].Seeds)
	assert.Equal(t, "1.2.3.4", add.Peers[0].Address)

	_, err = session.TaskInfo(context.Background(), nil)
	assert.Error(t, err)
}

func TestCreateTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		station := newFakeStation(t)
		session := loggedIn(t, station, APITask)

		err := session.CreateTask(context.Background(), CreateTaskOptions{URI: " https://example.com/a.pdf ", Destination: "home/dl"})
		require.NoError(t, err)

		q := station.last()
		assert.Equal(t, "create", q.Get("method"))
		assert.Equal(t, "https://example.com/a.pdf", q.Get("uri"))
		assert.Equal(t, "home/dl", q.Get("destination"))
	})

	t.Run("empty uri", func(t *testing.T) {
		station := newFakeStation(t)
		session := loggedIn(t, station, APITask)
		before := station.count()

		require.Error(t, session.CreateTask(context.Background(), CreateTaskOptions{}))
		assert.Equal(t, before, station.count())
	})

	failures := []struct {
		name    string
		body    string
		message string
	}{
		{name: "object code", body: `{"success":false,"error":{"code":406}}`, message: "No default destination"},
		{name: "bare code", body: `{"success":false,"error":401}`, message: "Max number of tasks reached"},
		{name: "unknown object", body: `{"success":false,"error":{"code":999}}`, message: `Error: {"code":999}`},
		{name: "unknown bare", body: `{"success":false,"error":999}`, message: "Unknown error: 999"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			station := newFakeStation(t)
			station.reply(APITask, "create", tt.body)
			session := loggedIn(t, station, APITask)

			err := session.CreateTask(context.Background(), CreateTaskOptions{URI: "https://example.com/a.pdf"})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.message, apiErr.Message())
			assert.Equal(t, APITask, apiErr.API)
		})
	}
}

func TestInfoAndStatistic(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APIDSInfo, "getinfo", `{"success":true,"data":{"version":4000,"version_string":"3.9.1-4000","is_manager":true}}`)
	station.reply(APIStatistic, "getinfo", `{"success":true,"data":{"speed_download":2048,"speed_upload":1024,"emule_speed_download":0,"emule_speed_upload":0}}`)
	session := loggedIn(t, station, APIDSInfo)
	ctx := context.Background()

	info, err := session.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.9.1-4000", info.VersionString)
	assert.Equal(t, 4000, info.Version)
	assert.True(t, info.IsManager)

	require.False(t, session.Client().HasAPI(APIStatistic))
	stat, err := session.Statistic(ctx)
	require.NoError(t, err)
	assert.Equal(t, Bytes(2048), stat.SpeedDownload)
	assert.True(t, session.Client().HasAPI(APIStatistic), "statistic API is resolved on first use")
}

func TestStatisticUnavailable(t *testing.T) {
	station := newFakeStation(t)
	delete(station.apis, APIStatistic)
	session := loggedIn(t, station)

	_, err := session.Statistic(context.Background())
	assert.ErrorIs(t, err, ErrAPINotAvailable)
}

func TestBTSearch(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APIBTSearch, "getModule", `{"success":true,"data":{"modules":[{"id":"mod1","title":"One","enabled":true},{"id":"mod2","title":"Two","enabled":false}]}}`)
	station.reply(APIBTSearch, "getCategory", `{"success":true,"data":{"categories":[{"id":"_allcat_","title":"All"},{"id":5,"title":"Movies"}]}}`)
	station.reply(APIBTSearch, "start", `{"success":true,"data":{"taskid":"task-42"}}`)
	station.reply(APIBTSearch, "list", `{"success":true,"data":{"finished":true,"offset":0,"total":1,"items":[
		{"id":"1","title":"Vera S01","size":"1610612736","seeds":120,"leechs":7,"peers":0,"date":"2024-01-01 10:00:00",
		 "download_uri":"magnet:?xt=urn:btih:abc","module_id":"mod1","module_title":"One"}]}}`)
	session := loggedIn(t, station, APIBTSearch)
	ctx := context.Background()

	modules, err := session.SearchModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.True(t, modules[0].Enabled)
	assert.Equal(t, "getModule", station.last().Get("method"))

	categories, err := session.SearchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, ID("5"), categories[1].ID)

	taskID, err := session.StartSearch(ctx, "Vera", "")
	require.NoError(t, err)
	assert.Equal(t, "task-42", taskID)
	q := station.last()
	assert.Equal(t, "start", q.Get("method"))
	assert.Equal(t, "Vera", q.Get("keyword"))
	assert.Equal(t, SearchModuleEnabled, q.Get("module"))

	results, err := session.SearchResults(ctx, taskID, SearchListOptions{Limit: 20, SortBy: "seeds", SortDirection: "desc"})
	require.NoError(t, err)
	q = station.last()
	assert.Equal(t, "list", q.Get("method"))
	assert.Equal(t, "task-42", q.Get("taskid"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "seeds", q.Get("sort_by"))
	assert.Equal(t, "DESC", q.Get("sort_direction"))
	assert.False(t, q.Has("filter_category"))

	assert.True(t, results.Finished)
	require.Len(t, results.Items, 1)
	item := results.Items[0]
	assert.Equal(t, Bytes(1610612736), item.Size)
	assert.Equal(t, 7, item.Leechs)
	assert.True(t, item.IsMagnet())

	require.NoError(t, session.CleanSearch(ctx, taskID))
	q = station.last()
	assert.Equal(t, "clean", q.Get("method"))
	assert.Equal(t, "task-42", q.Get("taskid"))

	_, err = session.StartSearch(ctx, "  ", "")
	assert.Error(t, err)
}

func TestBTSearchErrorTable(t *testing.T) {
	station := newFakeStation(t)
	station.reply(APIBTSearch, "list", `{"success":false,"error":{"code":404}}`)
	session := loggedIn(t, station, APIBTSearch)

	_, err := session.SearchResults(context.Background(), "task-1", SearchListOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Get the search result from DB failed", apiErr.Message())
}

func TestTransportFailures(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		station := newFakeStation(t)
		station.status = http.StatusInternalServerError
		client := newTestClient(t, station)

		_, err := client.QueryAPIInfo(context.Background(), APIAuth)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("malformed json", func(t *testing.T) {
		station := newFakeStation(t)
		station.reply(APITask, "list", `<html>not json</html>`)
		session := loggedIn(t, station, APITask)

		_, err := session.ListTasks(context.Background(), TaskListOptions{})
		assert.ErrorIs(t, err, ErrUnexpectedResponse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		station := newFakeStation(t)
		client := newTestClient(t, station)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.QueryAPIInfo(ctx, APIAuth)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRedactURL(t *testing.T) {
	u, err := url.Parse("http://nas:5000/webapi/auth.cgi")
	require.NoError(t, err)

	q := url.Values{"account": {"admin"}, "passwd": {"hunter2"}, "_sid": {"abc"}}
	got := redactURL(u, q)

	assert.NotContains(t, got, "hunter2")
	assert.NotContains(t, got, "_sid=abc")
	assert.Contains(t, got, "account=admin")
	assert.Equal(t, "hunter2", q.Get("passwd"), "input values must not be modified")
}

package synology

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// API names used by this package.
const (
	APIInfoName  = "SYNO.API.Info"
	APIAuth      = "SYNO.API.Auth"
	APITask      = "SYNO.DownloadStation.Task"
	APIDSInfo    = "SYNO.DownloadStation.Info"
	APIStatistic = "SYNO.DownloadStation.Statistic"
	APIBTSearch  = "SYNO.DownloadStation.BTSearch"
)

// APIInfo is one entry of the SYNO.API.Info query result.
type APIInfo struct {
	Path          string `json:"path"`
	MinVersion    int    `json:"minVersion"`
	MaxVersion    int    `json:"maxVersion"`
	RequestFormat string `json:"requestFormat,omitempty"`
}

// Bytes is a byte count or byte rate. DSM encodes these as numbers on some
// endpoints and as numeric strings on others.
type Bytes int64

// UnmarshalJSON accepts 123, "123" and null.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*b = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid byte count %q", s)
		}
		n = int64(f)
	}
	*b = Bytes(n)
	return nil
}

// UnixTime is a unix timestamp in seconds, encoded as a number or a string.
type UnixTime int64

// UnmarshalJSON accepts 1700000000, "1700000000" and null.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	var b Bytes
	if err := b.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	*t = UnixTime(b)
	return nil
}

// Time converts the timestamp; zero stays zero.
func (t UnixTime) Time() time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(t), 0)
}

// ID is an identifier that DSM sends either as a string or as a number.
type ID string

// UnmarshalJSON accepts "abc", 123 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	*id = ID(data)
	return nil
}

// TaskStatus is the status string reported for a download task.
type TaskStatus string

const (
	TaskStatusWaiting            TaskStatus = "waiting"
	TaskStatusDownloading        TaskStatus = "downloading"
	TaskStatusPaused             TaskStatus = "paused"
	TaskStatusFinishing          TaskStatus = "finishing"
	TaskStatusFinished           TaskStatus = "finished"
	TaskStatusHashChecking       TaskStatus = "hash_checking"
	TaskStatusSeeding            TaskStatus = "seeding"
	TaskStatusFilehostingWaiting TaskStatus = "filehosting_waiting"
	TaskStatusExtracting         TaskStatus = "extracting"
	TaskStatusError              TaskStatus = "error"
)

// IsActive reports whether the task is moving data.
func (s TaskStatus) IsActive() bool {
	switch s {
	case TaskStatusDownloading, TaskStatusSeeding, TaskStatusFinishing, TaskStatusHashChecking, TaskStatusExtracting:
		return true
	}
	return false
}

// Additional task fields that can be requested with list and getinfo.
const (
	AdditionalDetail   = "detail"
	AdditionalTransfer = "transfer"
	AdditionalFile     = "file"
	AdditionalTracker  = "tracker"
	AdditionalPeer     = "peer"
)

// Task is a Download Station download job.
type Task struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Username    string          `json:"username"`
	Title       string          `json:"title"`
	Size        Bytes           `json:"size"`
	Status      TaskStatus      `json:"status"`
	StatusExtra map[string]any  `json:"status_extra,omitempty"`
	Additional  *TaskAdditional `json:"additional,omitempty"`
}

// Progress returns the downloaded fraction in [0,1], or 0 without transfer data.
func (t *Task) Progress() float64 {
	if t.Size <= 0 || t.Additional == nil || t.Additional.Transfer == nil {
		return 0
	}
	p := float64(t.Additional.Transfer.SizeDownloaded) / float64(t.Size)
	if p > 1 {
		return 1
	}
	return p
}

// TaskAdditional holds the optional blocks selected by the additional parameter.
type TaskAdditional struct {
	Detail   *TaskDetail   `json:"detail,omitempty"`
	Transfer *TaskTransfer `json:"transfer,omitempty"`
	Files    []TaskFile    `json:"file,omitempty"`
	Trackers []TaskTracker `json:"tracker,omitempty"`
	Peers    []TaskPeer    `json:"peer,omitempty"`
}

// TaskDetail is the "detail" additional block.
type TaskDetail struct {
	Destination       string   `json:"destination"`
	URI               string   `json:"uri"`
	CreateTime        UnixTime `json:"create_time"`
	Priority          string   `json:"priority"`
	TotalPeers        int      `json:"total_peers"`
	ConnectedSeeders  int      `json:"connected_seeders"`
	ConnectedLeechers int      `json:"connected_leechers"`
}

// TaskTransfer is the "transfer" additional block.
type TaskTransfer struct {
	SizeDownloaded Bytes `json:"size_downloaded"`
	SizeUploaded   Bytes `json:"size_uploaded"`
	SpeedDownload  Bytes `json:"speed_download"`
	SpeedUpload    Bytes `json:"speed_upload"`
}

// TaskFile is one entry of the "file" additional block.
type TaskFile struct {
	Filename       string `json:"filename"`
	Size           Bytes  `json:"size"`
	SizeDownloaded Bytes  `json:"size_downloaded"`
	Priority       string `json:"priority"`
}

// TaskTracker is one entry of the "tracker" additional block.
type TaskTracker struct {
	URL         string `json:"url"`
	Status      string `json:"status"`
	UpdateTimer int    `json:"update_timer"`
	Seeds       int    `json:"seeds"`
	Peers       int    `json:"peers"`
}

// TaskPeer is one entry of the "peer" additional block.
type TaskPeer struct {
	Address       string  `json:"address"`
	Agent         string  `json:"agent"`
	Progress      float64 `json:"progress"`
	SpeedDownload Bytes   `json:"speed_download"`
	SpeedUpload   Bytes   `json:"speed_upload"`
}

// TaskList is the data of a Task list call.
type TaskList struct {
	Total  int    `json:"total"`
	Offset int    `json:"offset"`
	Tasks  []Task `json:"tasks"`
}

// Info is the data of SYNO.DownloadStation.Info getinfo.
type Info struct {
	Version       int    `json:"version"`
	VersionString string `json:"version_string"`
	IsManager     bool   `json:"is_manager"`
}

// Statistic is the data of SYNO.DownloadStation.Statistic getinfo. Speeds are bytes/s.
type Statistic struct {
	SpeedDownload      Bytes `json:"speed_download"`
	SpeedUpload        Bytes `json:"speed_upload"`
	EmuleSpeedDownload Bytes `json:"emule_speed_download"`
	EmuleSpeedUpload   Bytes `json:"emule_speed_upload"`
}

// SearchModule is a BT search engine plugin.
type SearchModule struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// SearchCategory is a BT search category.
type SearchCategory struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// SearchItem is one BT search result.
type SearchItem struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	Size         Bytes  `json:"size"`
	Seeds        int    `json:"seeds"`
	Leechs       int    `json:"leechs"`
	Peers        int    `json:"peers"`
	Date         string `json:"date"`
	DownloadURI  string `json:"download_uri"`
	ExternalLink string `json:"external_link"`
	ModuleID     ID     `json:"module_id"`
	ModuleTitle  string `json:"module_title"`
	Category     string `json:"category"`
}

// IsMagnet reports whether the result can be queued directly from its download URI.
func (s *SearchItem) IsMagnet() bool {
	return strings.HasPrefix(s.DownloadURI, "magnet:")
}

// SearchResults is the data of a BTSearch list call.
type SearchResults struct {
	Finished bool         `json:"finished"`
	Offset   int          `json:"offset"`
	Total    int          `json:"total"`
	Items    []SearchItem `json:"items"`
}

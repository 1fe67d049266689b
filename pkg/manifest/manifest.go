// Package manifest describes a set of frames extracted from an animation as
// an XML document.
package manifest

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const OutputVersion = "1.0"

type Header struct {
	XMLName xml.Name `xml:"header"`
	ID      string   `xml:"id"` // Unique identifier of this extraction run.
	Creator Creator  `xml:"creator"`
	Source  Source   `xml:"source"`
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source describes the decoded animation.
type Source struct {
	Filename string `xml:"filename"`
	FileSize int64  `xml:"filesize"`
	Format   string `xml:"format"` // GIF87a or GIF89a
	Width    int    `xml:"width"`
	Height   int    `xml:"height"`
	Frames   int    `xml:"frames"`
	Duration int64  `xml:"duration_ms"`
	Partial  bool   `xml:"partial,omitempty"` // Set when the stream was damaged past the first frame.
}

type FrameObject struct {
	XMLName  xml.Name `xml:"frame"`
	Index    int      `xml:"index,attr"`
	Filename string   `xml:"filename"`
	FileSize uint64   `xml:"filesize"`
	Delay    int64    `xml:"delay_ms"`
}

// NewHeader returns a header for src with a fresh run id and the current
// execution environment.
func NewHeader(pkg, version string, src Source) Header {
	return Header{
		ID: uuid.NewString(),
		Creator: Creator{
			Package:              pkg,
			Version:              version,
			ExecutionEnvironment: GetExecEnv(),
		},
		Source: src,
	}
}

func GetExecEnv() ExecEnv {
	release, version := osRelease()

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if u, err := user.Current(); err == nil {
		if n, err := strconv.Atoi(u.Uid); err == nil {
			uid = n
		}
	}

	return ExecEnv{
		OS:      runtime.GOOS,
		Release: release,
		Version: version,
		Host:    host,
		Arch:    runtime.GOARCH,
		UID:     uid,
		Start:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

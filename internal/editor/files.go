package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// DefaultMaxAttachmentBytes is the read limit when none is configured
const DefaultMaxAttachmentBytes = 10 << 20

var (
	ErrUnsupportedKind = errors.New("only image and video files can be attached")
	ErrTooLarge        = errors.New("file exceeds the attachment size limit")
	ErrStaleRead       = errors.New("selection changed before the file was read")
)

// DataFile is a local file embedded as a data URL
type DataFile struct {
	Name string
	Kind model.AttachmentKind
	MIME string
	URL  string
	Size int
}

// ReadFile reads a local image or video into a data URL. The media type is
// sniffed from the content and falls back to the file extension.
func ReadFile(ctx context.Context, path string, maxBytes int64) (DataFile, error) {
	if err := ctx.Err(); err != nil {
		return DataFile{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return DataFile{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataFile{}, fmt.Errorf("%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return DataFile{}, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DataFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return DataFile{}, err
	}

	mediaType, kind := detectKind(data, filepath.Ext(path))
	if kind == "" {
		return DataFile{}, fmt.Errorf("%s (%s): %w", filepath.Base(path), mediaType, ErrUnsupportedKind)
	}
	return DataFile{
		Name: filepath.Base(path),
		Kind: kind,
		MIME: mediaType,
		URL:  "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Size: len(data),
	}, nil
}

func detectKind(data []byte, ext string) (string, model.AttachmentKind) {
	mediaType, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if kind := kindOf(mediaType); kind != "" {
		return mediaType, kind
	}
	if byExt, _, _ := strings.Cut(mime.TypeByExtension(strings.ToLower(ext)), ";"); byExt != "" {
		if kind := kindOf(byExt); kind != "" {
			return byExt, kind
		}
	}
	return mediaType, ""
}

func kindOf(mediaType string) model.AttachmentKind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return model.AttachmentImage
	case strings.HasPrefix(mediaType, "video/"):
		return model.AttachmentVideo
	}
	return ""
}

// ReadPurpose says where a completed read goes
type ReadPurpose int

const (
	ReadAttachment ReadPurpose = iota
	ReadImage
)

// PendingRead is a file read started for a specific node
type PendingRead struct {
	NodeID  string
	Path    string
	Purpose ReadPurpose
}

// BeginRead records the node a read is meant for
func (b *Bridge) BeginRead(path string, purpose ReadPurpose) *PendingRead {
	return &PendingRead{NodeID: b.buf.NodeID, Path: path, Purpose: purpose}
}

// Complete applies a finished read. The result is discarded with
// ErrStaleRead unless its node is still bound, selected and alive.
func (b *Bridge) Complete(pr *PendingRead, f DataFile, readErr error) error {
	if readErr != nil {
		return readErr
	}
	if pr == nil || pr.NodeID == "" || pr.NodeID != b.buf.NodeID || b.live() == nil {
		return ErrStaleRead
	}
	switch pr.Purpose {
	case ReadImage:
		if f.Kind != model.AttachmentImage {
			return fmt.Errorf("%s: %w", f.Name, ErrUnsupportedKind)
		}
		b.UpdateImage(f.URL)
	default:
		b.AddAttachment(f)
	}
	return nil
}

// RunRead reads path in the background. The completion, including done,
// runs through deliver so it executes on the caller's event loop.
func (b *Bridge) RunRead(ctx context.Context, path string, purpose ReadPurpose, deliver func(func()), done func(error)) *PendingRead {
	pr := b.BeginRead(path, purpose)
	maxBytes := b.maxBytes
	go func() {
		f, err := ReadFile(ctx, path, maxBytes)
		deliver(func() {
			applyErr := b.Complete(pr, f, err)
			if done != nil {
				done(applyErr)
			}
		})
	}()
	return pr
}

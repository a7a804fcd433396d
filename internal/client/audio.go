// ABOUTME: Audio file endpoints: multipart upload, server-side edits, download
// ABOUTME: Edits are applied by the backend; the client only sends parameters

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// AudioService handles /audio/
type AudioService service

// Edit types the backend can apply
const (
	EditTrim   = "trim"
	EditSpeed  = "speed"
	EditReverb = "reverb"
	EditVolume = "volume"
)

// AudioFile is an uploaded track
type AudioFile struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	File         string          `json:"file"`
	FileType     string          `json:"file_type"`
	Duration     *float64        `json:"duration"`
	WaveformData json.RawMessage `json:"waveform_data,omitempty"`
	Username     string          `json:"username,omitempty"`
	UserID       int             `json:"user_id,omitempty"`
	Edits        []AudioEdit     `json:"edits,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AudioEdit is one applied edit in a file's history
type AudioEdit struct {
	ID          int            `json:"id"`
	AudioFileID int            `json:"audio_file_id"`
	EditType    string         `json:"edit_type"`
	Parameters  map[string]any `json:"parameters"`
	CreatedAt   time.Time      `json:"created_at"`
}

// List calls GET /audio/
func (s *AudioService) List(ctx context.Context) ([]AudioFile, error) {
	return getList[AudioFile](ctx, s.c, "/audio/", nil)
}

// Get calls GET /audio/{id}/
func (s *AudioService) Get(ctx context.Context, id int) (*AudioFile, error) {
	var f AudioFile
	if err := s.c.get(ctx, idPath("/audio/%d/", id), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Upload streams r as a multipart POST /audio/ with fields "file" and "title".
func (s *AudioService) Upload(ctx context.Context, title, filename string, r io.Reader) (*AudioFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if err := mw.WriteField("title", title); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, r); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.url("/audio/", nil), pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	s.c.authorize(req)

	var f AudioFile
	if err := s.c.do(req, &f); err != nil {
		pr.Close()
		return nil, err
	}
	return &f, nil
}

// ApplyEdit calls POST /audio/{id}/edit/
func (s *AudioService) ApplyEdit(ctx context.Context, id int, editType string, params map[string]any) (*AudioEdit, error) {
	body := map[string]any{"edit_type": editType, "parameters": params}
	var e AudioEdit
	if err := s.c.post(ctx, idPath("/audio/%d/edit/", id), body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Edits calls GET /audio/{id}/edits/
func (s *AudioService) Edits(ctx context.Context, id int) ([]AudioEdit, error) {
	return getList[AudioEdit](ctx, s.c, idPath("/audio/%d/edits/", id), nil)
}

// Delete calls DELETE /audio/{id}/
func (s *AudioService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/audio/%d/", id))
}

// Download copies the processed file from GET /audio/{id}/download/ into w and
// returns the number of bytes written.
func (s *AudioService) Download(ctx context.Context, id int, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.c.url(idPath("/audio/%d/download/", id), nil), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	s.c.authorize(req)

	resp, err := s.c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download interrupted after %d bytes: %w", n, err)
	}
	return n, nil
}

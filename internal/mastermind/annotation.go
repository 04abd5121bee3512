// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mastermind

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Annotation job states as reported by the service.
const (
	JobCreated   = "created"
	JobStarted   = "started"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// AnnotationJob is the state record of a file-annotation job.
type AnnotationJob struct {
	JobID         string `json:"job_id"`
	State         string `json:"state"`
	Assembly      string `json:"assembly"`
	UploadURL     string `json:"upload_url"`
	DownloadURL   string `json:"download_url"`
	InputFilename string `json:"input_filename"`
	CreatedAt     string `json:"created_at"`
	JobURL        string `json:"job_url"`

	// Populated on succeeded jobs.
	Records   int `json:"records"`
	Annotated int `json:"annotated"`
}

// Terminal reports whether the job will make no further progress.
func (j *AnnotationJob) Terminal() bool {
	return j.State == JobSucceeded || j.State == JobFailed
}

// CreateAnnotationJob registers a new file-annotation job and returns its
// record, including the signed upload URL.
func (c *Client) CreateAnnotationJob(ctx context.Context, assembly, filename string) (*AnnotationJob, error) {
	params := url.Values{"assembly": {assembly}, "filename": {filename}}
	var job AnnotationJob
	if err := c.post(ctx, "file_annotations/counts", params, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// AnnotationJobStatus fetches the current state of an existing job.
func (c *Client) AnnotationJobStatus(ctx context.Context, jobID string) (*AnnotationJob, error) {
	var job AnnotationJob
	if err := c.get(ctx, "file_annotations/counts/"+jobID, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UploadAnnotationInput streams the compressed VCF to the job's signed
// upload URL. The URL is pre-authenticated, so no API token is sent.
func (c *Client) UploadAnnotationInput(ctx context.Context, uploadURL string, r io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, r)
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("uploading annotation input: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// DownloadAnnotatedFile streams the annotated, gzip-compressed result of a
// succeeded job into w.
func (c *Client) DownloadAnnotatedFile(ctx context.Context, jobID string, w io.Writer) error {
	values := url.Values{"api_token": {c.Token}}
	reqURL := joinURL(c.BaseURL, "file_annotations/counts/"+jobID+"/download") + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("downloading annotated file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServiceError{
			Endpoint: "file_annotations/counts/" + jobID + "/download",
			Params:   url.Values{},
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing annotated file: %w", err)
	}
	return nil
}

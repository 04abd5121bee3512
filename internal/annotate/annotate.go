// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate drives the file-annotation job workflow: create or
// resume a job, upload the compressed VCF, poll until it settles, and
// download the annotated result.
// Implements: prd004-annotation (J1-J4).
package annotate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

const defaultPollInterval = 5 * time.Second

// Service is the slice of the evidence client the workflow needs.
type Service interface {
	CreateAnnotationJob(ctx context.Context, assembly, filename string) (*mastermind.AnnotationJob, error)
	AnnotationJobStatus(ctx context.Context, jobID string) (*mastermind.AnnotationJob, error)
	UploadAnnotationInput(ctx context.Context, uploadURL string, r io.Reader) error
	DownloadAnnotatedFile(ctx context.Context, jobID string, w io.Writer) error
}

// Runner executes annotation jobs against a service.
type Runner struct {
	svc Service
	cfg types.AnnotateConfig
	w   io.Writer
}

// NewRunner builds a runner. Status output goes to w.
func NewRunner(svc Service, cfg types.AnnotateConfig, w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Runner{svc: svc, cfg: cfg, w: w}
}

var vcfSuffix = regexp.MustCompile(`\.vcf(\.gz)?$`)

// OutputPath derives the download destination from the input path: the
// .vcf/.vcf.gz suffix is replaced with .annotated-<jobID>.vcf.gz, so the
// result lands alongside its input.
func OutputPath(inputPath, jobID string) string {
	suffix := ".annotated-" + jobID + ".vcf.gz"
	if vcfSuffix.MatchString(inputPath) {
		return vcfSuffix.ReplaceAllString(inputPath, suffix)
	}
	return inputPath + suffix
}

// Annotate runs one job to completion and returns the path of the
// downloaded result. A non-empty jobID resumes an existing job instead
// of creating one; it must be a well-formed job identifier.
func (r *Runner) Annotate(ctx context.Context, inputPath, jobID string) (string, error) {
	var job *mastermind.AnnotationJob
	var err error

	if jobID != "" {
		if _, err := uuid.Parse(jobID); err != nil {
			return "", fmt.Errorf("malformed job ID %q: %w", jobID, err)
		}
		job, err = r.svc.AnnotationJobStatus(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("resuming job %s: %w", jobID, err)
		}
	} else {
		job, err = r.svc.CreateAnnotationJob(ctx, r.cfg.Assembly, filepath.Base(inputPath))
		if err != nil {
			return "", fmt.Errorf("creating annotation job: %w", err)
		}
	}
	fmt.Fprintf(r.w, "job %s: %s\n", job.JobID, job.State)

	if job.State == mastermind.JobCreated {
		if err := r.upload(ctx, job, inputPath); err != nil {
			return "", err
		}
	}

	job, err = r.wait(ctx, job)
	if err != nil {
		return "", err
	}
	if job.State != mastermind.JobSucceeded {
		return "", fmt.Errorf("job %s ended in state %s", job.JobID, job.State)
	}
	fmt.Fprintf(r.w, "annotated %d of %d records\n", job.Annotated, job.Records)

	outputPath := OutputPath(inputPath, job.JobID)
	if err := r.download(ctx, job.JobID, outputPath); err != nil {
		return "", err
	}
	fmt.Fprintf(r.w, "downloaded annotated file to %s\n", outputPath)
	return outputPath, nil
}

func (r *Runner) upload(ctx context.Context, job *mastermind.AnnotationJob, inputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(r.w, "uploading %s\n", inputPath)
	if err := r.svc.UploadAnnotationInput(ctx, job.UploadURL, f); err != nil {
		return fmt.Errorf("uploading %s: %w", inputPath, err)
	}
	return nil
}

// wait polls job state until it is terminal.
func (r *Runner) wait(ctx context.Context, job *mastermind.AnnotationJob) (*mastermind.AnnotationJob, error) {
	for !job.Terminal() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.cfg.PollInterval):
		}

		next, err := r.svc.AnnotationJobStatus(ctx, job.JobID)
		if err != nil {
			return nil, fmt.Errorf("polling job %s: %w", job.JobID, err)
		}
		if next.State != job.State {
			fmt.Fprintf(r.w, "job %s: %s\n", next.JobID, next.State)
		}
		job = next
	}
	return job, nil
}

func (r *Runner) download(ctx context.Context, jobID, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := r.svc.DownloadAnnotatedFile(ctx, jobID, f); err != nil {
		f.Close()
		os.Remove(outputPath)
		return fmt.Errorf("downloading job %s: %w", jobID, err)
	}
	return f.Close()
}

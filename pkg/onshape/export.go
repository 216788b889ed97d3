package onshape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Format identifies a CAD export format.
type Format string

const (
	FormatSTEP      Format = "STEP"
	FormatParasolid Format = "PARASOLID"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatSTEP:
		return FormatSTEP, nil
	case FormatParasolid:
		return FormatParasolid, nil
	default:
		return "", fmt.Errorf("unknown export format %q (must be STEP or PARASOLID)", s)
	}
}

// Extension returns the canonical file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatParasolid:
		return "x_t"
	default:
		return "step"
	}
}

// ExportRequest describes one export of an element. Empty PartIDs means
// all parts.
type ExportRequest struct {
	Format  Format
	PartIDs []string
}

// JobState is the lifecycle state of a translation job.
type JobState string

const (
	JobSubmitted JobState = "SUBMITTED"
	JobActive    JobState = "ACTIVE"
	JobDone      JobState = "DONE"
	JobFailed    JobState = "FAILED"
)

// Job is the handle for one asynchronous translation. It is discarded
// after its artifact is downloaded or its failure reported.
type Job struct {
	ID    string
	State JobState

	ref           DocumentRef
	resultIDs     []string
	failureReason string
}

type translationResponse struct {
	ID                    string   `json:"id"`
	RequestState          string   `json:"requestState"`
	FailureReason         string   `json:"failureReason"`
	ResultExternalDataIDs []string `json:"resultExternalDataIds"`
}

func (j *Job) apply(tr *translationResponse) {
	switch tr.RequestState {
	case "DONE":
		j.State = JobDone
		j.resultIDs = tr.ResultExternalDataIDs
	case "FAILED":
		j.State = JobFailed
		j.failureReason = tr.FailureReason
	case "ACTIVE":
		j.State = JobActive
	}
}

// RequestExport submits a translation for the element and returns the
// job handle immediately; the remote side renders asynchronously.
// A 404 here surfaces as an element-not-found error.
func (c *Client) RequestExport(ctx context.Context, ref DocumentRef, req ExportRequest) (*Job, error) {
	payload := map[string]any{
		"formatName":      string(req.Format),
		"storeInDocument": false,
	}
	if len(req.PartIDs) > 0 {
		payload["partIds"] = strings.Join(req.PartIDs, ",")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, ref.partStudioPath("translations"), nil, body, acceptJSON)
	if err != nil {
		return nil, err
	}

	var tr translationResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse translation response: %w", err)
	}

	job := &Job{ID: tr.ID, State: JobSubmitted, ref: ref}
	job.apply(&tr)
	return job, nil
}

// PollUntilDone drives the job to a terminal state and returns the
// artifact bytes on success. The poll interval doubles from pollInitial
// up to pollMax; timeout is an orthogonal escape from any non-terminal
// state. Transient poll failures are retried inside each status call.
func (c *Client) PollUntilDone(ctx context.Context, job *Job, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	interval := c.pollInitial

	for {
		switch job.State {
		case JobDone:
			return c.download(ctx, job)
		case JobFailed:
			reason := job.failureReason
			if reason == "" {
				reason = "no reason reported"
			}
			return nil, &Error{
				Kind:    KindExportFailed,
				Message: fmt.Sprintf("translation %s failed: %s", job.ID, reason),
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &Error{
				Kind:    KindExportTimeout,
				Message: fmt.Sprintf("translation %s still %s after %s", job.ID, job.State, timeout),
			}
		}

		wait := interval
		if wait > remaining {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		if err := c.refresh(ctx, job); err != nil {
			return nil, err
		}

		interval *= 2
		if interval > c.pollMax {
			interval = c.pollMax
		}
	}
}

// refresh fetches the current translation state.
func (c *Client) refresh(ctx context.Context, job *Job) error {
	data, err := c.do(ctx, http.MethodGet, apiPrefix+"/translations/"+job.ID, nil, nil, acceptJSON)
	if err != nil {
		return err
	}

	var tr translationResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return fmt.Errorf("parse translation status: %w", err)
	}
	job.apply(&tr)
	return nil
}

// download retrieves the finished artifact.
func (c *Client) download(ctx context.Context, job *Job) ([]byte, error) {
	if len(job.resultIDs) == 0 {
		return nil, &Error{
			Kind:    KindExportFailed,
			Message: fmt.Sprintf("translation %s finished without result data", job.ID),
		}
	}
	path := fmt.Sprintf("%s/documents/d/%s/externaldata/%s", apiPrefix, job.ref.DocumentID, job.resultIDs[0])
	return c.do(ctx, http.MethodGet, path, nil, nil, acceptBinary)
}

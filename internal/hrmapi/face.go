package hrmapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/satriadw/hrm-portal/internal"
)

// AttendanceCheck forwards a captured frame to the face recognition service,
// which matches it against enrolled employee photos and records the check-in
// on success. The image is never interpreted here.
func (c *Client) AttendanceCheck(ctx context.Context, token, filename string, image io.Reader) (*FaceMatch, error) {
	var match FaceMatch
	if err := c.uploadImage(ctx, token, c.faceBaseURL+"/face-recognition/attendance-check", filename, image, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// UploadEmployeePhoto enrolls a reference photo for later matching.
func (c *Client) UploadEmployeePhoto(ctx context.Context, token, employeeCode, filename string, image io.Reader) error {
	target := c.faceBaseURL + "/face-recognition/upload-photo?employee_code=" + url.QueryEscape(employeeCode)
	return c.uploadImage(ctx, token, target, filename, image, nil)
}

func (c *Client) EmployeeHasPhoto(ctx context.Context, token, employeeCode string) (bool, error) {
	path := fmt.Sprintf("/face-recognition/employee/%s/has-photo", url.PathEscape(employeeCode))

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.faceBaseURL+path, nil)
	if err != nil {
		return false, internal.NewInternalError("failed to create request", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, internal.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	var result HasPhoto
	if err := c.decode(resp, http.MethodGet, path, &result); err != nil {
		return false, err
	}
	return result.HasPhoto, nil
}

func (c *Client) uploadImage(ctx context.Context, token, target, filename string, image io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return internal.NewInternalError("failed to build multipart body", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return internal.NewInternalError("failed to copy image into multipart body", err)
	}
	if err := writer.Close(); err != nil {
		return internal.NewInternalError("failed to finalize multipart body", err)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return internal.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("face service request failed", "target", target, "error", err)
		return internal.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	return c.decode(resp, http.MethodPost, target, out)
}
